package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// postgresBackend is the networked backend, driven through pgx's database/sql
// adapter.
type postgresBackend struct {
	url string
}

var _ Backend = (*postgresBackend)(nil)

func newPostgresBackend(url string) *postgresBackend {
	return &postgresBackend{url: url}
}

func (b *postgresBackend) Name() string {
	return "postgres"
}

func (b *postgresBackend) Open(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("pgx", b.url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Rebind converts ?-style placeholders to the $N form, leaving quoted
// literals untouched.
func (b *postgresBackend) Rebind(query string) string {
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			sb.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// InsertID appends a RETURNING clause; PostgreSQL has no LastInsertId.
func (b *postgresBackend) InsertID(ctx context.Context, q sqlQuerier, query string, args ...any) (int64, error) {
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	var id int64
	err := q.QueryRowContext(ctx, b.Rebind(query)+" RETURNING id", args...).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (b *postgresBackend) LockSuffix() string {
	return " FOR UPDATE"
}

func (b *postgresBackend) Migrate(db *sql.DB) error {
	source, err := iofs.New(migrationsFS, "migrations/postgres")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}
	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (b *postgresBackend) IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
