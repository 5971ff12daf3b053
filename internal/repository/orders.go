package repository

import (
	"context"
	"time"

	"pizza-store/internal/apperr"
	"pizza-store/internal/dbx"
	"pizza-store/internal/domain"
)

type Orders interface {
	// Create inserts the order header and all of its lines in one
	// transaction and returns the generated order ID, captured from the
	// insert itself.
	Create(ctx context.Context, o domain.Order, cart []domain.CartLine) (int64, error)
	IDsByLogin(ctx context.Context, login string) ([]int64, error)
	RecentIDsByLogin(ctx context.Context, login string, limit int) ([]int64, error)
	Header(ctx context.Context, orderID int64) (domain.Order, error)
	HeaderForLogin(ctx context.Context, orderID int64, login string) (domain.Order, error)
	Lines(ctx context.Context, orderID int64) ([]domain.OrderLine, error)
	SetStatus(ctx context.Context, orderID int64, status string) error
	Exists(ctx context.Context, orderID int64) (bool, error)
}

type ordersRepo struct {
	db dbx.Runner
}

func NewOrders(db dbx.Runner) Orders { return &ordersRepo{db: db} }

func (r *ordersRepo) Create(ctx context.Context, o domain.Order, cart []domain.CartLine) (int64, error) {
	var orderID int64
	err := r.db.WithinTx(ctx, func(q dbx.Querier) error {
		rows, err := q.QueryRows(ctx, `
			INSERT INTO FoodOrder (login, storeID, totalPrice, orderTimestamp, orderStatus)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING orderID
		`, o.Login, o.StoreID, o.TotalPrice, o.Timestamp, o.Status)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperr.Execution("insert order", errNoGeneratedID)
		}
		id, err := parseInt(rows[0][0])
		if err != nil {
			return apperr.Execution("parse order id", err)
		}
		orderID = int64(id)

		for _, line := range cart {
			if err := q.Execute(ctx, `
				INSERT INTO ItemsInOrder (orderID, itemName, quantity)
				VALUES ($1, $2, $3)
			`, orderID, line.ItemName, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *ordersRepo) IDsByLogin(ctx context.Context, login string) ([]int64, error) {
	return r.ids(ctx, `SELECT orderID FROM FoodOrder WHERE login = $1 ORDER BY orderTimestamp DESC`, login)
}

func (r *ordersRepo) RecentIDsByLogin(ctx context.Context, login string, limit int) ([]int64, error) {
	return r.ids(ctx,
		`SELECT orderID FROM FoodOrder WHERE login = $1 ORDER BY orderTimestamp DESC LIMIT $2`,
		login, limit)
}

func (r *ordersRepo) ids(ctx context.Context, stmt string, args ...any) ([]int64, error) {
	rows, err := r.db.QueryRows(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(rows))
	for _, rec := range rows {
		id, err := parseInt(rec[0])
		if err != nil {
			return nil, apperr.Execution("parse order id", err)
		}
		out = append(out, int64(id))
	}
	return out, nil
}

func (r *ordersRepo) Header(ctx context.Context, orderID int64) (domain.Order, error) {
	return r.header(ctx,
		`SELECT orderID, login, storeID, totalPrice, orderTimestamp, orderStatus FROM FoodOrder WHERE orderID = $1`,
		orderID)
}

func (r *ordersRepo) HeaderForLogin(ctx context.Context, orderID int64, login string) (domain.Order, error) {
	return r.header(ctx,
		`SELECT orderID, login, storeID, totalPrice, orderTimestamp, orderStatus FROM FoodOrder WHERE orderID = $1 AND login = $2`,
		orderID, login)
}

func (r *ordersRepo) header(ctx context.Context, stmt string, args ...any) (domain.Order, error) {
	rows, err := r.db.QueryRows(ctx, stmt, args...)
	if err != nil {
		return domain.Order{}, err
	}
	if len(rows) == 0 {
		return domain.Order{}, apperr.NotFoundf("order")
	}
	rec := rows[0]

	id, err := parseInt(rec[0])
	if err != nil {
		return domain.Order{}, apperr.Execution("parse order id", err)
	}
	storeID, err := parseInt(rec[2])
	if err != nil {
		return domain.Order{}, apperr.Execution("parse store id", err)
	}
	total, err := parseFloat(rec[3])
	if err != nil {
		return domain.Order{}, apperr.Execution("parse total", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, rec[4])
	if err != nil {
		return domain.Order{}, apperr.Execution("parse timestamp", err)
	}
	return domain.Order{
		ID:         int64(id),
		Login:      trim(rec[1]),
		StoreID:    storeID,
		TotalPrice: total,
		Timestamp:  ts,
		Status:     trim(rec[5]),
	}, nil
}

func (r *ordersRepo) Lines(ctx context.Context, orderID int64) ([]domain.OrderLine, error) {
	rows, err := r.db.QueryRows(ctx,
		`SELECT itemName, quantity FROM ItemsInOrder WHERE orderID = $1`, orderID)
	if err != nil {
		return nil, err
	}
	lines := make([]domain.OrderLine, 0, len(rows))
	for _, rec := range rows {
		qty, err := parseInt(rec[1])
		if err != nil {
			return nil, apperr.Execution("parse quantity", err)
		}
		lines = append(lines, domain.OrderLine{OrderID: orderID, ItemName: trim(rec[0]), Quantity: qty})
	}
	return lines, nil
}

func (r *ordersRepo) SetStatus(ctx context.Context, orderID int64, status string) error {
	return r.db.Execute(ctx,
		`UPDATE FoodOrder SET orderStatus = $1 WHERE orderID = $2`, status, orderID)
}

func (r *ordersRepo) Exists(ctx context.Context, orderID int64) (bool, error) {
	n, err := r.db.QueryCount(ctx, `SELECT orderID FROM FoodOrder WHERE orderID = $1`, orderID)
	return n > 0, err
}
