package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/karacadev/backoffice/internal/core/services"
	"github.com/karacadev/backoffice/internal/jobs"
	"github.com/karacadev/backoffice/internal/repositories/database/sqldb"
)

// newSweepCommand runs a single due-installment sweep and exits, for
// operators who schedule the sweep externally instead of leaving serve
// running.
func newSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Record reminders for overdue installments and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			cfg, store, err := openStore(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer store.Close()

			repos := sqldb.NewRepositoryProvider(store)
			svcs := services.NewServiceContainer(cfg, repos)

			sweeper := jobs.NewSweeper(svcs.Installment, cfg.SweepInterval, logger)
			count, err := sweeper.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("Sweep completed", slog.Int("reminders", count))
			return nil
		},
	}
}
