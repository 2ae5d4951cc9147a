package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/repositories/database/sqldb"
)

// newSeedCommand ensures the database is migrated and the bootstrap admin
// exists (both happen inside storage.Open), and optionally creates one more
// account from flags.
func newSeedCommand() *cobra.Command {
	var username, password, displayName, role string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Migrate the database and seed accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, store, err := openStore(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if username == "" {
				logger.Info("Database migrated and bootstrap account ensured",
					slog.String("storage", store.BackendName()))
				return nil
			}
			if password == "" {
				return errors.New("--password is required with --username")
			}

			repos := sqldb.NewRepositoryProvider(store)
			svcs := services.NewServiceContainer(cfg, repos)

			account, err := svcs.Auth.CreateAccount(cmd.Context(), dto.CreateAccountRequest{
				Username:    username,
				Password:    password,
				DisplayName: displayName,
				Role:        role,
			})
			if err != nil {
				if errors.Is(err, apperrors.ErrDuplicate) {
					return fmt.Errorf("account %q already exists", username)
				}
				return err
			}

			logger.Info("Account created",
				slog.String("username", account.Username), slog.String("role", string(account.Role)))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "create an account with this username")
	cmd.Flags().StringVar(&password, "password", "", "password for --username")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name for --username")
	cmd.Flags().StringVar(&role, "role", "staff", "role for --username (admin or staff)")

	return cmd
}
