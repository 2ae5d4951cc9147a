package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

const accountColumns = `id, username, display_name, password_hash, role, created_at`

type SQLAccountRepository struct {
	store *storage.Store
}

// newSQLAccountRepository creates a new repository for accounts and sessions.
func newSQLAccountRepository(store *storage.Store) portsrepo.AccountRepositoryFacade {
	return &SQLAccountRepository{store: store}
}

// Ensure implementation matches interface
var _ portsrepo.AccountRepositoryFacade = (*SQLAccountRepository)(nil)

func scanAccount(row rowScanner, account *domain.Account) error {
	return row.Scan(
		&account.ID,
		&account.Username,
		&account.DisplayName,
		&account.PasswordHash,
		&account.Role,
		&account.CreatedAt,
	)
}

// CreateAccount inserts a new login account and returns its id.
func (r *SQLAccountRepository) CreateAccount(ctx context.Context, account domain.Account) (int64, error) {
	query := `
		INSERT INTO accounts (username, display_name, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)`

	id, err := r.store.InsertID(ctx, query,
		account.Username,
		account.DisplayName,
		account.PasswordHash,
		string(account.Role),
		account.CreatedAt,
	)
	if err != nil {
		if r.store.IsDuplicate(err) {
			return 0, fmt.Errorf("%w: username %s", apperrors.ErrDuplicate, account.Username)
		}
		return 0, fmt.Errorf("failed to insert account: %w", err)
	}
	return id, nil
}

// FindAccountByID retrieves a single account by its ID.
func (r *SQLAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ?`

	var account domain.Account
	err := scanAccount(r.store.QueryRowContext(ctx, query, accountID), &account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %d: %w", accountID, err)
	}
	return &account, nil
}

// FindAccountByUsername retrieves a single account by its unique username.
func (r *SQLAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = ?`

	var account domain.Account
	err := scanAccount(r.store.QueryRowContext(ctx, query, username), &account)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", username, err)
	}
	return &account, nil
}

// SaveSession records an issued login session.
func (r *SQLAccountRepository) SaveSession(ctx context.Context, session domain.Session) error {
	query := `
		INSERT INTO sessions (token, account_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)`

	_, err := r.store.ExecContext(ctx, query,
		session.Token,
		session.AccountID,
		session.ExpiresAt,
		session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// FindSessionByToken retrieves a session by its token.
func (r *SQLAccountRepository) FindSessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `SELECT token, account_id, expires_at, created_at FROM sessions WHERE token = ?`

	var session domain.Session
	err := r.store.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return &session, nil
}

// DeleteSession removes one session, ending it.
func (r *SQLAccountRepository) DeleteSession(ctx context.Context, token string) error {
	query := `DELETE FROM sessions WHERE token = ?`

	res, err := r.store.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for session: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired on or before asOf
// and returns how many were removed.
func (r *SQLAccountRepository) DeleteExpiredSessions(ctx context.Context, asOf time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= ?`

	res, err := r.store.ExecContext(ctx, query, asOf)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return affected, nil
}
