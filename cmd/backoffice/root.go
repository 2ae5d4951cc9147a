package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/karacadev/backoffice/internal/platform/config"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

// newRootCommand creates the backoffice CLI root. Configuration comes from
// the environment (and a .env file when present), not from flags, so every
// subcommand runs against the same settings as the server.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "backoffice",
		Short:        "Back-office ledger, inventory and project sales server",
		Long:         "backoffice serves the small-business back office API: ledger entries,\ninventory movements, real-estate project sales and installment schedules.",
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newSweepCommand())
	cmd.AddCommand(newSeedCommand())

	return cmd
}

// newLogger builds the process-wide structured logger.
func newLogger() *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	return logger
}

// openStore loads configuration and opens the storage backend. Open performs
// migration and bootstrap seeding, falling back to the in-memory store when
// the selected backend is unreachable.
func openStore(ctx context.Context, logger *slog.Logger) (*config.Config, *storage.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	store, err := storage.Open(ctx, storage.Config{
		DatabaseURL:       cfg.DatabaseURL,
		SQLitePath:        cfg.SQLitePath,
		BootstrapUsername: cfg.BootstrapUsername,
		BootstrapPassword: cfg.BootstrapPassword,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}
	return cfg, store, nil
}
