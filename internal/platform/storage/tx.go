package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tx is a scoped database transaction. On the embedded backend it holds the
// pool's only connection, so writers are fully serialized; on the networked
// backend it relies on native row locking.
type Tx struct {
	tx      *sql.Tx
	backend Backend
}

var _ Querier = (*Tx)(nil)

// Begin starts a transaction. Callers must finish it with Commit or Rollback;
// deferring Rollback after a successful Commit is safe.
func (s *Store) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, backend: s.backend}, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise, including when a panic escapes fn.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls the transaction back. Calling it after Commit is a no-op.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}

// ExecContext runs a write statement inside the transaction.
func (t *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return t.tx.ExecContext(ctx, t.backend.Rebind(query), args...)
}

// QueryContext runs a multi-row query inside the transaction.
func (t *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return t.tx.QueryContext(ctx, t.backend.Rebind(query), args...)
}

// QueryRowContext runs a single-row query inside the transaction.
func (t *Tx) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return t.tx.QueryRowContext(ctx, t.backend.Rebind(query), args...)
}

// InsertID executes an INSERT and returns the generated row id.
func (t *Tx) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	return t.backend.InsertID(ctx, t.tx, query, args...)
}

// LockSuffix returns the backend's row-locking clause for transactional reads.
func (t *Tx) LockSuffix() string {
	return t.backend.LockSuffix()
}

// IsDuplicate reports whether err is a unique-constraint violation.
func (t *Tx) IsDuplicate(err error) bool {
	return t.backend.IsDuplicate(err)
}
