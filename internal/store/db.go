package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database handle a store executes against. Both
// *sql.DB and *sql.Tx satisfy it, which is what lets WithTx rebind a
// store onto a transaction without changing any query code.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
