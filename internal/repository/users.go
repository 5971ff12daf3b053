package repository

import (
	"context"

	"pizza-store/internal/apperr"
	"pizza-store/internal/dbx"
	"pizza-store/internal/domain"
)

type Users interface {
	Create(ctx context.Context, u domain.User) error
	// Authenticate returns the matched login, or "" when the credential
	// pair does not match exactly one row. No-match is not an error.
	Authenticate(ctx context.Context, login, password string) (string, error)
	GetRole(ctx context.Context, login string) (domain.Role, error)
	Get(ctx context.Context, login string) (domain.User, error)
	Exists(ctx context.Context, login string) (bool, error)
	SetFavoriteItems(ctx context.Context, login, item string) error
	SetPhoneNum(ctx context.Context, login, phone string) error
	SetPassword(ctx context.Context, login, password string) error
	SetLogin(ctx context.Context, login, newLogin string) error
	SetRole(ctx context.Context, login string, role domain.Role) error
}

type usersRepo struct {
	db dbx.Querier
}

func NewUsers(db dbx.Querier) Users { return &usersRepo{db: db} }

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	return r.db.Execute(ctx,
		`INSERT INTO Users (login, password, phoneNum, role, favoriteItems) VALUES ($1, $2, $3, $4, $5)`,
		u.Login, u.Password, u.PhoneNum, string(u.Role), u.FavoriteItems)
}

func (r *usersRepo) Authenticate(ctx context.Context, login, password string) (string, error) {
	rows, err := r.db.QueryRows(ctx,
		`SELECT login FROM Users WHERE login = $1 AND password = $2`, login, password)
	if err != nil {
		return "", err
	}
	if len(rows) != 1 {
		return "", nil
	}
	return rows[0][0], nil
}

func (r *usersRepo) GetRole(ctx context.Context, login string) (domain.Role, error) {
	rows, err := r.db.QueryRows(ctx, `SELECT role FROM Users WHERE login = $1`, login)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", apperr.NotFoundf("user %q", login)
	}
	return domain.ParseRole(trim(rows[0][0]))
}

func (r *usersRepo) Get(ctx context.Context, login string) (domain.User, error) {
	rows, err := r.db.QueryRows(ctx,
		`SELECT login, password, phoneNum, role, favoriteItems FROM Users WHERE login = $1`, login)
	if err != nil {
		return domain.User{}, err
	}
	if len(rows) == 0 {
		return domain.User{}, apperr.NotFoundf("user %q", login)
	}
	rec := rows[0]
	role, err := domain.ParseRole(trim(rec[3]))
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{
		Login:         rec[0],
		Password:      rec[1],
		PhoneNum:      rec[2],
		Role:          role,
		FavoriteItems: rec[4],
	}, nil
}

func (r *usersRepo) Exists(ctx context.Context, login string) (bool, error) {
	n, err := r.db.QueryCount(ctx, `SELECT login FROM Users WHERE login = $1`, login)
	return n > 0, err
}

func (r *usersRepo) SetFavoriteItems(ctx context.Context, login, item string) error {
	return r.db.Execute(ctx, `UPDATE Users SET favoriteItems = $1 WHERE login = $2`, item, login)
}

func (r *usersRepo) SetPhoneNum(ctx context.Context, login, phone string) error {
	return r.db.Execute(ctx, `UPDATE Users SET phoneNum = $1 WHERE login = $2`, phone, login)
}

func (r *usersRepo) SetPassword(ctx context.Context, login, password string) error {
	return r.db.Execute(ctx, `UPDATE Users SET password = $1 WHERE login = $2`, password, login)
}

func (r *usersRepo) SetLogin(ctx context.Context, login, newLogin string) error {
	return r.db.Execute(ctx, `UPDATE Users SET login = $1 WHERE login = $2`, newLogin, login)
}

func (r *usersRepo) SetRole(ctx context.Context, login string, role domain.Role) error {
	return r.db.Execute(ctx, `UPDATE Users SET role = $1 WHERE login = $2`, string(role), login)
}
