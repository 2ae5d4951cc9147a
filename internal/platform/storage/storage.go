// Package storage provides the storage abstraction layer: one Store facade
// over two interchangeable relational backends. A networked PostgreSQL store
// is selected when connection parameters are configured, otherwise an
// embedded SQLite file store. If the selected backend cannot be reached the
// process degrades to an in-memory store for its remaining lifetime; there is
// no per-request retry or mid-life re-selection.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Config holds the parameters needed to select, open and seed a backend.
type Config struct {
	// DatabaseURL selects the networked backend when non-empty.
	DatabaseURL string
	// SQLitePath is the embedded store's database file.
	SQLitePath string
	// BootstrapUsername and BootstrapPassword seed the privileged account
	// when the accounts table is empty. An empty password is replaced by a
	// generated one, logged once at seed time.
	BootstrapUsername string
	BootstrapPassword string
}

// Querier is the query surface shared by Store and Tx. Repositories are
// written once against it and run unchanged inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	InsertID(ctx context.Context, query string, args ...any) (int64, error)
	LockSuffix() string
	IsDuplicate(err error) bool
}

// Store is the single storage handle for the process. It is constructed once
// at startup and passed explicitly to every component that needs persistence.
type Store struct {
	db       *sql.DB
	backend  Backend
	logger   *slog.Logger
	degraded bool
}

var _ Querier = (*Store)(nil)

// Open selects a backend from cfg, opens it, applies migrations and seeds the
// privileged account. It is called exactly once per process; when the
// selected backend fails it falls back to the in-memory degraded store, and
// only a failure to open even that returns an error.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	backend := selectBackend(cfg)

	db, err := initBackend(ctx, backend, cfg, logger)
	if err == nil {
		logger.Info("storage backend ready", slog.String("backend", backend.Name()))
		return &Store{db: db, backend: backend, logger: logger}, nil
	}

	logger.Error("storage backend unavailable, degrading to in-memory store",
		slog.String("backend", backend.Name()), slog.String("error", err.Error()))

	mem := newSQLiteMemoryBackend()
	memDB, memErr := initBackend(ctx, mem, cfg, logger)
	if memErr != nil {
		return nil, fmt.Errorf("open %s: %w (in-memory fallback failed: %v)", backend.Name(), err, memErr)
	}
	return &Store{db: memDB, backend: mem, logger: logger, degraded: true}, nil
}

// selectBackend applies the selection policy: networked store when connection
// parameters are present, embedded store otherwise.
func selectBackend(cfg Config) Backend {
	if cfg.DatabaseURL != "" {
		return newPostgresBackend(cfg.DatabaseURL)
	}
	return newSQLiteFileBackend(cfg.SQLitePath)
}

// initBackend opens, migrates and seeds a backend, closing the handle again
// on any failure.
func initBackend(ctx context.Context, b Backend, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := b.Open(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := seedAdmin(ctx, db, b, cfg, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}
	return db, nil
}

// Degraded reports whether the store fell back to the in-memory backend.
func (s *Store) Degraded() bool {
	return s.degraded
}

// BackendName returns the active backend's log name.
func (s *Store) BackendName() string {
	return s.backend.Name()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the backend is still reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ExecContext runs a write statement outside a transaction.
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.backend.Rebind(query), args...)
}

// QueryContext runs a multi-row query outside a transaction.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(ctx, s.backend.Rebind(query), args...)
}

// QueryRowContext runs a single-row query outside a transaction.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.backend.Rebind(query), args...)
}

// InsertID executes an INSERT and returns the generated row id.
func (s *Store) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	return s.backend.InsertID(ctx, s.db, query, args...)
}

// LockSuffix returns the backend's row-locking clause for transactional reads.
func (s *Store) LockSuffix() string {
	return s.backend.LockSuffix()
}

// IsDuplicate reports whether err is a unique-constraint violation.
func (s *Store) IsDuplicate(err error) bool {
	return s.backend.IsDuplicate(err)
}
