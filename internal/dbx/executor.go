// Package dbx is the single boundary between the application and the
// relational store: statement text plus bind args in, text rows out.
package dbx

import (
	"context"
	"database/sql"
	"errors"

	"pizza-store/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the read/write surface available both on the pool and inside
// a transaction. Statements are always parameterized, never interpolated.
type Querier interface {
	// Execute runs a mutating statement.
	Execute(ctx context.Context, stmt string, args ...any) error
	// QueryCount runs a read statement and returns only the row count.
	QueryCount(ctx context.Context, stmt string, args ...any) (int, error)
	// QueryRows runs a read statement and returns every row with each
	// column value rendered as text, in projection order.
	QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error)
}

// Runner extends Querier with transactions and sequence access.
type Runner interface {
	Querier
	// WithinTx runs fn against a transaction-bound Querier and commits,
	// or rolls back when fn returns an error.
	WithinTx(ctx context.Context, fn func(Querier) error) error
	// SequenceCurrentValue returns the last value the named sequence
	// produced for the current session, or -1 when none has been
	// generated yet.
	SequenceCurrentValue(ctx context.Context, sequence string) (int64, error)
}

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Executor implements Runner on top of *sql.DB.
type Executor struct {
	db *sql.DB
	qr querier
}

func New(db *sql.DB) *Executor {
	return &Executor{db: db, qr: querier{conn: db}}
}

func (e *Executor) Execute(ctx context.Context, stmt string, args ...any) error {
	return e.qr.Execute(ctx, stmt, args...)
}

func (e *Executor) QueryCount(ctx context.Context, stmt string, args ...any) (int, error) {
	return e.qr.QueryCount(ctx, stmt, args...)
}

func (e *Executor) QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error) {
	return e.qr.QueryRows(ctx, stmt, args...)
}

func (e *Executor) WithinTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Execution("begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(querier{conn: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Execution("commit tx", err)
	}
	return nil
}

func (e *Executor) SequenceCurrentValue(ctx context.Context, sequence string) (int64, error) {
	rows, err := e.qr.QueryRows(ctx, `SELECT currval($1)`, sequence)
	if err != nil {
		var pgErr *pgconn.PgError
		// 55000: currval called before any nextval in this session.
		if errors.As(err, &pgErr) && pgErr.Code == "55000" {
			return -1, nil
		}
		return -1, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return -1, nil
	}
	return parseInt64(rows[0][0])
}

// querier runs statements against either the pool or a transaction.
type querier struct{ conn dbtx }

func (q querier) Execute(ctx context.Context, stmt string, args ...any) error {
	if _, err := q.conn.ExecContext(ctx, stmt, args...); err != nil {
		return apperr.Execution("execute", err)
	}
	return nil
}

func (q querier) QueryCount(ctx context.Context, stmt string, args ...any) (int, error) {
	rows, err := q.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return 0, apperr.Execution("query count", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, apperr.Execution("query count", err)
	}
	return count, nil
}

func (q querier) QueryRows(ctx context.Context, stmt string, args ...any) ([][]string, error) {
	rows, err := q.conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, apperr.Execution("query rows", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, apperr.Execution("query rows", err)
	}

	var out [][]string
	for rows.Next() {
		vals := make([]sql.NullString, len(cols))
		dest := make([]any, len(cols))
		for i := range vals {
			dest[i] = &vals[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, apperr.Execution("scan row", err)
		}
		rec := make([]string, len(cols))
		for i, v := range vals {
			rec[i] = v.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Execution("query rows", err)
	}
	return out, nil
}
