package store

import (
	"context"
	"database/sql"
)

// DBTX is the database handle the postgres-backed planning stores run
// their queries against. Both *sql.DB and *sql.Tx satisfy it, so a store
// can be constructed over a pooled connection or an existing transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
