package storage

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresRebind(t *testing.T) {
	b := newPostgresBackend("")

	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"no placeholders", "SELECT 1", "SELECT 1"},
		{"single", "SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"numbered in order", "INSERT INTO t (a, b, c) VALUES (?, ?, ?)", "INSERT INTO t (a, b, c) VALUES ($1, $2, $3)"},
		{"quoted literal untouched", "SELECT '?' FROM t WHERE id = ?", "SELECT '?' FROM t WHERE id = $1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Rebind(tc.query))
		})
	}
}

func TestSQLiteRebindIsIdentity(t *testing.T) {
	b := newSQLiteFileBackend("test.db")
	query := "SELECT * FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, query, b.Rebind(query))
}

func TestLockSuffixes(t *testing.T) {
	assert.Equal(t, " FOR UPDATE", newPostgresBackend("").LockSuffix())
	assert.Empty(t, newSQLiteFileBackend("test.db").LockSuffix())
	assert.Empty(t, newSQLiteMemoryBackend().LockSuffix())
}

func TestPostgresIsDuplicate(t *testing.T) {
	b := newPostgresBackend("")

	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, b.IsDuplicate(dup))
	assert.False(t, b.IsDuplicate(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.False(t, b.IsDuplicate(fmt.Errorf("plain failure")))
}
