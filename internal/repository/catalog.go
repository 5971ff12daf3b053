package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"pizza-store/internal/apperr"
	"pizza-store/internal/dbx"
	"pizza-store/internal/domain"
)

// SortAsc and SortDesc are the two accepted price sort directions.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type Catalog interface {
	Categories(ctx context.Context) ([]string, error)
	ByCategory(ctx context.Context, category string) ([]domain.MenuItem, error)
	ByPriceCeiling(ctx context.Context, limit float64) ([]domain.MenuItem, error)
	Sorted(ctx context.Context, direction string) ([]domain.MenuItem, error)
	Get(ctx context.Context, name string) (domain.MenuItem, error)
	Exists(ctx context.Context, name string) (bool, error)
	Insert(ctx context.Context, item domain.MenuItem) error
	// Rename updates the item name and patches the denormalized copy in
	// ItemsInOrder within one transaction.
	Rename(ctx context.Context, name, newName string) error
	SetIngredients(ctx context.Context, name, ingredients string) error
	SetCategory(ctx context.Context, name, category string) error
	SetPrice(ctx context.Context, name string, price float64) error
	SetDescription(ctx context.Context, name, description string) error
}

type catalogRepo struct {
	db dbx.Runner
}

func NewCatalog(db dbx.Runner) Catalog { return &catalogRepo{db: db} }

func (r *catalogRepo) Categories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryRows(ctx, `SELECT DISTINCT typeOfItem FROM Items`)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, rec := range rows {
		out = append(out, trim(rec[0]))
	}
	return out, nil
}

func (r *catalogRepo) ByCategory(ctx context.Context, category string) ([]domain.MenuItem, error) {
	stmt, args, err := psql.Select("itemName", "price").From("Items").
		Where(sq.Eq{"typeOfItem": category}).ToSql()
	if err != nil {
		return nil, apperr.Execution("build query", err)
	}
	return r.listItems(ctx, stmt, args...)
}

func (r *catalogRepo) ByPriceCeiling(ctx context.Context, limit float64) ([]domain.MenuItem, error) {
	stmt, args, err := psql.Select("itemName", "price").From("Items").
		Where(sq.LtOrEq{"price": limit}).ToSql()
	if err != nil {
		return nil, apperr.Execution("build query", err)
	}
	return r.listItems(ctx, stmt, args...)
}

func (r *catalogRepo) Sorted(ctx context.Context, direction string) ([]domain.MenuItem, error) {
	var order string
	switch direction {
	case SortAsc:
		order = "price ASC"
	case SortDesc:
		order = "price DESC"
	default:
		return nil, apperr.Validationf("sort direction %q", direction)
	}
	stmt, args, err := psql.Select("itemName", "price").From("Items").OrderBy(order).ToSql()
	if err != nil {
		return nil, apperr.Execution("build query", err)
	}
	return r.listItems(ctx, stmt, args...)
}

func (r *catalogRepo) listItems(ctx context.Context, stmt string, args ...any) ([]domain.MenuItem, error) {
	rows, err := r.db.QueryRows(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	items := make([]domain.MenuItem, 0, len(rows))
	for _, rec := range rows {
		price, err := parseFloat(rec[1])
		if err != nil {
			return nil, apperr.Execution("parse price", err)
		}
		items = append(items, domain.MenuItem{Name: trim(rec[0]), Price: price})
	}
	return items, nil
}

func (r *catalogRepo) Get(ctx context.Context, name string) (domain.MenuItem, error) {
	rows, err := r.db.QueryRows(ctx,
		`SELECT itemName, ingredients, typeOfItem, price, description FROM Items WHERE itemName = $1`, name)
	if err != nil {
		return domain.MenuItem{}, err
	}
	if len(rows) == 0 {
		return domain.MenuItem{}, apperr.NotFoundf("item %q", name)
	}
	rec := rows[0]
	price, err := parseFloat(rec[3])
	if err != nil {
		return domain.MenuItem{}, apperr.Execution("parse price", err)
	}
	return domain.MenuItem{
		Name:        trim(rec[0]),
		Ingredients: rec[1],
		Category:    trim(rec[2]),
		Price:       price,
		Description: rec[4],
	}, nil
}

func (r *catalogRepo) Exists(ctx context.Context, name string) (bool, error) {
	n, err := r.db.QueryCount(ctx, `SELECT itemName FROM Items WHERE itemName = $1`, name)
	return n > 0, err
}

func (r *catalogRepo) Insert(ctx context.Context, item domain.MenuItem) error {
	return r.db.Execute(ctx,
		`INSERT INTO Items (itemName, ingredients, typeOfItem, price, description) VALUES ($1, $2, $3, $4, $5)`,
		item.Name, item.Ingredients, item.Category, item.Price, item.Description)
}

func (r *catalogRepo) Rename(ctx context.Context, name, newName string) error {
	return r.db.WithinTx(ctx, func(q dbx.Querier) error {
		if err := q.Execute(ctx, `UPDATE Items SET itemName = $1 WHERE itemName = $2`, newName, name); err != nil {
			return err
		}
		// ItemsInOrder stores the item name, not a key; keep it in sync.
		return q.Execute(ctx, `UPDATE ItemsInOrder SET itemName = $1 WHERE itemName = $2`, newName, name)
	})
}

func (r *catalogRepo) SetIngredients(ctx context.Context, name, ingredients string) error {
	return r.update(ctx, name, "ingredients", ingredients)
}

func (r *catalogRepo) SetCategory(ctx context.Context, name, category string) error {
	return r.update(ctx, name, "typeOfItem", category)
}

func (r *catalogRepo) SetPrice(ctx context.Context, name string, price float64) error {
	return r.update(ctx, name, "price", price)
}

func (r *catalogRepo) SetDescription(ctx context.Context, name, description string) error {
	return r.update(ctx, name, "description", description)
}

func (r *catalogRepo) update(ctx context.Context, name, column string, value any) error {
	stmt, args, err := psql.Update("Items").Set(column, value).
		Where(sq.Eq{"itemName": name}).ToSql()
	if err != nil {
		return apperr.Execution("build update", err)
	}
	return r.db.Execute(ctx, stmt, args...)
}
