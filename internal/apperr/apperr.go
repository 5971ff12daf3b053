// Package apperr carries the error taxonomy shared by every component.
// Callers branch with errors.Is against the four sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed user input: length, format or range.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized marks a role gate failure.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrExecution marks a store-level failure: connectivity, constraint
	// violation or a malformed statement.
	ErrExecution = errors.New("execution failed")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

func Unauthorizedf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrUnauthorized)...)
}

// Execution wraps a store error. The cause stays in the chain so callers
// can still reach driver errors with errors.As.
func Execution(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, err, ErrExecution)
}
