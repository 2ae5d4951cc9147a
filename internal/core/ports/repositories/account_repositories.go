package repositories

import (
	"context"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountByUsername retrieves an account by its unique username.
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// CreateAccount persists a new account and returns its generated id.
	// The canonical row is read back with FindAccountByID.
	CreateAccount(ctx context.Context, account domain.Account) (int64, error)
}

// SessionManager defines session persistence operations
type SessionManager interface {
	// SaveSession persists a login session.
	SaveSession(ctx context.Context, session domain.Session) error

	// FindSessionByToken retrieves a session by its token.
	FindSessionByToken(ctx context.Context, token string) (*domain.Session, error)

	// DeleteSession removes a session, ending it.
	DeleteSession(ctx context.Context, token string) error

	// DeleteExpiredSessions removes sessions expired as of the given time and
	// returns how many were removed.
	DeleteExpiredSessions(ctx context.Context, asOf time.Time) (int64, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	SessionManager
}
