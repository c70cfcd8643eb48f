package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventticketing/internal/domain"

	"github.com/lib/pq"
)

// PostgreSQL error codes the repositories translate.
const (
	codeUniqueViolation      = "23505"
	codeCheckViolation       = "23514"
	codeInvalidText          = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// mapError translates driver errors the services act on into domain errors.
// Malformed ids cannot match a row and are reported as not found.
func mapError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case codeSerializationFailure, codeDeadlockDetected:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Message)
	case codeCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrInvalidState, pqErr.Constraint)
	case codeInvalidText:
		return domain.ErrNotFound
	}
	return err
}
