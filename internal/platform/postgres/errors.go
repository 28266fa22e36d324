package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/studyloop/planner-api/internal/store"
)

// PostgreSQL error codes this package cares about.
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// mapConstraintError converts constraint violations into store-level errors
// so callers never have to know about pg error codes. Other errors pass
// through unchanged.
func mapConstraintError(entity string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolationCode:
		return store.NewStoreError(entity, "create", "duplicate id", store.ErrInvalidEntity)
	case pgForeignKeyViolationCode:
		return fmt.Errorf("%w: referenced record does not exist", store.ErrInvalidEntity)
	}
	return err
}
