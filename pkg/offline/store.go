package offline

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNoSnapshot is returned when no cached snapshot exists for a key.
var ErrNoSnapshot = errors.New("no cached snapshot")

// CachedSnapshot is one cached read, keyed by the request target it answers.
type CachedSnapshot struct {
	Key       string
	Body      []byte
	FetchedAt time.Time
}

// PendingMutation is one deferred write awaiting replay. Mutations replay
// strictly in the order they were enqueued, which is ascending ID.
type PendingMutation struct {
	ID         int64
	Method     string
	Target     string
	Headers    map[string]string
	Body       []byte
	RetryCount int
	CreatedAt  time.Time
}

// Store is the durable local state behind the offline client: a keyed map of
// cached read snapshots and the ordered queue of pending mutations. Both are
// SQLite tables, so a mutation recorded before a crash is still queued when
// the process comes back.
type Store struct {
	db *sql.DB
}

// OpenStore creates or opens the client database at the given path. The pool
// is capped at a single connection; the drain loop and the caller's writes
// never contend inside SQLite.
func OpenStore(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open offline store: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping offline store: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply offline schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores or replaces the cached body for a key, stamping the
// fetch time.
func (s *Store) SaveSnapshot(ctx context.Context, key string, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, body, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, fetched_at = excluded.fetched_at`,
		key, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", key, err)
	}
	return nil
}

// Snapshot returns the cached snapshot for a key, or ErrNoSnapshot.
func (s *Store) Snapshot(ctx context.Context, key string) (*CachedSnapshot, error) {
	var snap CachedSnapshot
	row := s.db.QueryRowContext(ctx, `SELECT key, body, fetched_at FROM snapshots WHERE key = ?`, key)
	if err := row.Scan(&snap.Key, &snap.Body, &snap.FetchedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot %q: %w", key, err)
	}
	return &snap, nil
}

// InvalidateSnapshot drops the cached snapshot for a key, so the next read
// is fetched live instead of served stale. Invalidating an absent key is a
// no-op.
func (s *Store) InvalidateSnapshot(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("invalidate snapshot %q: %w", key, err)
	}
	return nil
}

// Enqueue appends a mutation to the replay queue, filling in its generated
// ID and creation time. The row is durable before Enqueue returns.
func (s *Store) Enqueue(ctx context.Context, m *PendingMutation) error {
	headers, err := json.Marshal(m.Headers)
	if err != nil {
		return fmt.Errorf("marshal mutation headers: %w", err)
	}
	m.CreatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_mutations (method, target, headers, body, retry_count, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		m.Method, m.Target, string(headers), m.Body, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("enqueue mutation: %w", err)
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read mutation id: %w", err)
	}
	return nil
}

// NextPending returns the oldest queued mutation, or nil when the queue is
// empty.
func (s *Store) NextPending(ctx context.Context) (*PendingMutation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, method, target, headers, body, retry_count, created_at
		FROM pending_mutations ORDER BY id ASC LIMIT 1`)

	m, err := scanMutation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read next mutation: %w", err)
	}
	return m, nil
}

// PendingMutations returns the whole queue in replay order.
func (s *Store) PendingMutations(ctx context.Context) ([]PendingMutation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, target, headers, body, retry_count, created_at
		FROM pending_mutations ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	defer rows.Close()

	mutations := make([]PendingMutation, 0)
	for rows.Next() {
		m, err := scanMutation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		mutations = append(mutations, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mutations: %w", err)
	}
	return mutations, nil
}

// DeletePending removes a mutation from the queue, after a successful replay
// or a terminal classification.
func (s *Store) DeletePending(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_mutations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete mutation %d: %w", id, err)
	}
	return nil
}

// BumpRetry increments a mutation's retry count and returns the new value.
func (s *Store) BumpRetry(ctx context.Context, id int64) (int, error) {
	if _, err := s.db.ExecContext(ctx, `
		UPDATE pending_mutations SET retry_count = retry_count + 1 WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("bump retry for mutation %d: %w", id, err)
	}
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT retry_count FROM pending_mutations WHERE id = ?`, id)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("read retry count for mutation %d: %w", id, err)
	}
	return count, nil
}

// PendingCount returns the number of queued mutations.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_mutations`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count mutations: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMutation(row rowScanner) (*PendingMutation, error) {
	var m PendingMutation
	var headers string
	if err := row.Scan(&m.ID, &m.Method, &m.Target, &headers, &m.Body, &m.RetryCount, &m.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(headers), &m.Headers); err != nil {
		return nil, fmt.Errorf("decode mutation headers: %w", err)
	}
	return &m, nil
}
