package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
	"github.com/karacadev/backoffice/internal/platform/config"
	"github.com/karacadev/backoffice/internal/utils"
)

// authService handles logins, logouts and account registration.
type authService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	cfg         *config.Config
}

// NewAuthService creates a new AuthService.
func NewAuthService(accountRepo portsrepo.AccountRepositoryFacade, cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{
		accountRepo: accountRepo,
		cfg:         cfg,
	}
}

// Ensure authService implements the portssvc.AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the credentials, persists a session row and returns a signed
// access token whose jti is the session token. A failed lookup and a failed
// password check look identical to the caller.
func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to fetch account for login: %w", err)
	}

	if !utils.VerifyPassword(req.Password, account.PasswordHash) {
		logger.Warn("Login rejected", slog.String("username", req.Username))
		return nil, fmt.Errorf("%w: invalid username or password", apperrors.ErrUnauthorized)
	}

	now := time.Now().UTC()

	// Opportunistic cleanup; a failure here never blocks the login.
	if removed, err := s.accountRepo.DeleteExpiredSessions(ctx, now); err != nil {
		logger.Warn("Failed to prune expired sessions", slog.String("error", err.Error()))
	} else if removed > 0 {
		logger.Info("Pruned expired sessions", slog.Int64("count", removed))
	}

	sessionToken, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return nil, fmt.Errorf("failed to mint session token: %w", err)
	}
	expiresAt := now.Add(s.cfg.JWTExpiryDuration)

	session := domain.Session{
		Token:     sessionToken,
		AccountID: account.ID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.accountRepo.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	signed, err := utils.GenerateJWT(account.Username, sessionToken, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	logger.Info("Login succeeded", slog.String("username", account.Username))

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		Account:   dto.ToAccountResponse(account),
	}, nil
}

// Logout removes the session row behind the presented token. Logging out a
// session that is already gone succeeds silently.
func (s *authService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return fmt.Errorf("%w: missing session token", apperrors.ErrUnauthorized)
	}

	if err := s.accountRepo.DeleteSession(ctx, sessionToken); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// CreateAccount registers a new login account with a hashed password.
func (s *authService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.Account{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: hash,
		Role:         domain.AccountRole(req.Role),
		CreatedAt:    time.Now().UTC(),
	}

	id, err := s.accountRepo.CreateAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	created, err := s.accountRepo.FindAccountByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created account: %w", err)
	}
	return created, nil
}
