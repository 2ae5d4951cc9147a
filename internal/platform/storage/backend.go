package storage

import (
	"context"
	"database/sql"
)

// sqlQuerier is the subset of database/sql shared by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Backend abstracts over the two relational stores the application can run
// on. Exactly one backend is selected when the store is opened and it never
// changes for the process lifetime; callers never branch on backend identity.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Open establishes and tunes the connection pool, verifying connectivity.
	Open(ctx context.Context) (*sql.DB, error)

	// Rebind converts ?-style placeholders to the backend's native form.
	Rebind(query string) string

	// InsertID executes an INSERT statement and returns the generated row id.
	// Fetching the canonical row afterwards is the caller's second step.
	InsertID(ctx context.Context, q sqlQuerier, query string, args ...any) (int64, error)

	// LockSuffix returns the row-locking clause appended to SELECTs inside a
	// transaction. The embedded store returns an empty string: its writers
	// are already fully serialized by the single-connection pool.
	LockSuffix() string

	// Migrate applies the embedded schema migrations for the backend dialect.
	// Migrations are create-if-absent, so reapplying on every start is safe.
	Migrate(db *sql.DB) error

	// IsDuplicate reports whether err is a unique-constraint violation.
	IsDuplicate(err error) bool
}
