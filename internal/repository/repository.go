// Package repository holds the data access layer. Every repository speaks
// to the store exclusively through the dbx executor.
package repository

import (
	"errors"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

// psql builds statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var errNoGeneratedID = errors.New("no generated key returned")

// trim strips the padding that fixed-width char columns carry.
func trim(s string) string { return strings.TrimSpace(s) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(trim(s), 64) }

func parseInt(s string) (int, error) { return strconv.Atoi(trim(s)) }
