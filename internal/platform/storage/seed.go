package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/utils"
)

// seedAdmin creates the bootstrap admin account when the accounts table is
// empty. When no bootstrap password is configured a random one is generated
// and logged once, so a fresh install is never left without a way in.
func seedAdmin(ctx context.Context, db *sql.DB, backend Backend, cfg Config, logger *slog.Logger) error {
	var count int
	row := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM accounts")
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("count accounts: %w", err)
	}
	if count > 0 {
		return nil
	}

	username := cfg.BootstrapUsername
	if username == "" {
		username = "admin"
	}

	password := cfg.BootstrapPassword
	generated := false
	if password == "" {
		var err error
		password, err = utils.GenerateSecureRandomString(12)
		if err != nil {
			return fmt.Errorf("generate bootstrap password: %w", err)
		}
		generated = true
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	query := backend.Rebind("INSERT INTO accounts (username, display_name, password_hash, role, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)")
	if _, err := db.ExecContext(ctx, query, username, "Administrator", hash, string(domain.RoleAdmin)); err != nil {
		return fmt.Errorf("insert bootstrap account: %w", err)
	}

	if generated {
		logger.Warn("created bootstrap admin with generated password, change it after first login",
			"username", username, "password", password)
	} else {
		logger.Info("created bootstrap admin account", "username", username)
	}
	return nil
}
