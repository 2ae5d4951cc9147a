package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// sqliteBackend is the embedded backend. Transactions start in immediate mode
// and the pool is capped at a single connection, so at most one writer exists
// at any time.
type sqliteBackend struct {
	dsn  string
	name string
}

var _ Backend = (*sqliteBackend)(nil)

func newSQLiteFileBackend(path string) *sqliteBackend {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate", path)
	return &sqliteBackend{dsn: dsn, name: "sqlite"}
}

// newSQLiteMemoryBackend backs the degraded mode entered when no real backend
// was reachable. Shared cache keeps the database alive across the pool's
// single connection.
func newSQLiteMemoryBackend() *sqliteBackend {
	return &sqliteBackend{
		dsn:  "file::memory:?cache=shared&_foreign_keys=on&_txlock=immediate",
		name: "sqlite-memory",
	}
}

func (b *sqliteBackend) Name() string {
	return b.name
}

func (b *sqliteBackend) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", b.dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Single connection: exclusive writer acquisition and no table-locked
	// errors between concurrent request goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return db, nil
}

// Rebind is a no-op: SQLite accepts ?-style placeholders natively.
func (b *sqliteBackend) Rebind(query string) string {
	return query
}

func (b *sqliteBackend) InsertID(ctx context.Context, q sqlQuerier, query string, args ...any) (int64, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LockSuffix is empty: the single-connection pool already serializes writers
// and SQLite has no SELECT ... FOR UPDATE.
func (b *sqliteBackend) LockSuffix() string {
	return ""
}

func (b *sqliteBackend) Migrate(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations/sqlite")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (b *sqliteBackend) IsDuplicate(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
