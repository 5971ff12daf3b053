package repository

import (
	"context"
	"strings"

	"pizza-store/internal/dbx"
)

// call records one statement the repository sent through the executor
// boundary, with its bind args.
type call struct {
	kind string // exec, count, rows
	stmt string
	args []any
}

// fakeQuerier replays scripted results in order: each QueryRows pops the
// next rows result, each QueryCount the next count, each Execute the next
// error. Unscripted calls succeed with empty results.
type fakeQuerier struct {
	calls []call

	rowsResults [][][]string
	rowsErrs    []error
	counts      []int
	execErrs    []error
}

func (f *fakeQuerier) Execute(_ context.Context, stmt string, args ...any) error {
	f.calls = append(f.calls, call{kind: "exec", stmt: stmt, args: args})
	var err error
	if len(f.execErrs) > 0 {
		err, f.execErrs = f.execErrs[0], f.execErrs[1:]
	}
	return err
}

func (f *fakeQuerier) QueryCount(_ context.Context, stmt string, args ...any) (int, error) {
	f.calls = append(f.calls, call{kind: "count", stmt: stmt, args: args})
	var n int
	if len(f.counts) > 0 {
		n, f.counts = f.counts[0], f.counts[1:]
	}
	return n, nil
}

func (f *fakeQuerier) QueryRows(_ context.Context, stmt string, args ...any) ([][]string, error) {
	f.calls = append(f.calls, call{kind: "rows", stmt: stmt, args: args})
	var err error
	if len(f.rowsErrs) > 0 {
		err, f.rowsErrs = f.rowsErrs[0], f.rowsErrs[1:]
	}
	var rows [][]string
	if len(f.rowsResults) > 0 {
		rows, f.rowsResults = f.rowsResults[0], f.rowsResults[1:]
	}
	return rows, err
}

// fakeRunner adds transaction bookkeeping so tests can assert that a
// multi-statement write commits once or rolls back, never both.
type fakeRunner struct {
	fakeQuerier
	commits   int
	rollbacks int
}

func (f *fakeRunner) WithinTx(_ context.Context, fn func(dbx.Querier) error) error {
	if err := fn(&f.fakeQuerier); err != nil {
		f.rollbacks++
		return err
	}
	f.commits++
	return nil
}

func (f *fakeRunner) SequenceCurrentValue(context.Context, string) (int64, error) {
	return -1, nil
}

// normalize collapses statement whitespace so tests compare SQL by content.
func normalize(stmt string) string {
	return strings.Join(strings.Fields(stmt), " ")
}
