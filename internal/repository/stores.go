package repository

import (
	"context"

	"pizza-store/internal/apperr"
	"pizza-store/internal/dbx"
	"pizza-store/internal/domain"
)

type Stores interface {
	List(ctx context.Context) ([]domain.Store, error)
	Address(ctx context.Context, storeID int) (string, error)
}

type storesRepo struct {
	db dbx.Querier
}

func NewStores(db dbx.Querier) Stores { return &storesRepo{db: db} }

func (r *storesRepo) List(ctx context.Context) ([]domain.Store, error) {
	rows, err := r.db.QueryRows(ctx,
		`SELECT storeID, address, city, state, reviewScore, isOpen FROM Store ORDER BY storeID`)
	if err != nil {
		return nil, err
	}
	stores := make([]domain.Store, 0, len(rows))
	for _, rec := range rows {
		id, err := parseInt(rec[0])
		if err != nil {
			return nil, apperr.Execution("parse store id", err)
		}
		stores = append(stores, domain.Store{
			ID:          id,
			Address:     rec[1],
			City:        rec[2],
			State:       trim(rec[3]),
			ReviewScore: trim(rec[4]),
			IsOpen:      trim(rec[5]),
		})
	}
	return stores, nil
}

func (r *storesRepo) Address(ctx context.Context, storeID int) (string, error) {
	rows, err := r.db.QueryRows(ctx, `SELECT address FROM Store WHERE storeID = $1`, storeID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", apperr.NotFoundf("store %d", storeID)
	}
	return rows[0][0], nil
}
