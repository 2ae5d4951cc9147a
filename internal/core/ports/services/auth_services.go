package services

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/dto"
)

// AuthSvcFacade defines authentication and account management operations.
type AuthSvcFacade interface {
	// Login verifies the credentials, persists a session and returns a signed
	// token for it. Expired sessions are pruned opportunistically.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)

	// Logout removes the session identified by the token's session id.
	Logout(ctx context.Context, sessionToken string) error

	// CreateAccount registers a new account with a hashed password. Used by
	// the seeding CLI; duplicate usernames surface as a conflict.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
}
