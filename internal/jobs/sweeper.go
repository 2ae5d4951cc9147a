// Package jobs hosts the background tasks that run alongside request
// handling. The only resident task is the due-installment sweep: it shares
// the service layer with the HTTP surface and performs no locking of its own.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
)

// Sweeper periodically scans for overdue unpaid installments and records one
// reminder for each. It runs once immediately on Start and then on a fixed
// interval; a still-overdue installment accumulates one reminder per run.
type Sweeper struct {
	installmentSvc portssvc.InstallmentSvcFacade
	interval       time.Duration
	logger         *slog.Logger
	cron           *cron.Cron
	job            cron.Job
}

// NewSweeper creates a sweeper over the installment service. The interval is
// the time between scheduled runs; 24 hours in the default configuration.
func NewSweeper(installmentSvc portssvc.InstallmentSvcFacade, interval time.Duration, logger *slog.Logger) *Sweeper {
	s := &Sweeper{
		installmentSvc: installmentSvc,
		interval:       interval,
		logger:         logger,
	}

	cronLogger := &cronSlogAdapter{logger: logger}
	s.cron = cron.New()

	// The chain keeps the task in exactly two states: a run that overlaps a
	// still-active one is skipped, and a panicking run is recovered and
	// logged without cancelling the schedule.
	s.job = cron.NewChain(
		cron.SkipIfStillRunning(cronLogger),
		cron.Recover(cronLogger),
	).Then(cron.FuncJob(s.run))

	return s
}

// Start runs one sweep immediately and schedules the recurring runs.
func (s *Sweeper) Start() error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return fmt.Errorf("schedule sweep %q: %w", spec, err)
	}

	go s.job.Run()
	s.cron.Start()

	s.logger.Info("Installment sweeper started", slog.Duration("interval", s.interval))
	return nil
}

// Stop halts the schedule and waits for a run in progress to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Installment sweeper stopped")
}

// run executes one sweep, logging the outcome. Errors are swallowed here so
// a failed run never cancels the recurring schedule.
func (s *Sweeper) run() {
	count, err := s.RunOnce(context.Background())
	if err != nil {
		s.logger.Error("Installment sweep failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("Installment sweep completed", slog.Int("reminders", count))
}

// RunOnce performs a single sweep as of now: every unpaid installment whose
// due date has passed gets one reminder appended, deliberately without
// de-duplication against earlier runs. It returns the number of reminders
// recorded. A failure to record one reminder is logged and does not stop the
// rest of the batch.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	due, err := s.installmentSvc.GetDueInstallments(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("find due installments: %w", err)
	}

	count := 0
	for _, inst := range due {
		if _, err := s.installmentSvc.CreateReminder(ctx, inst.ID, ""); err != nil {
			s.logger.Error("Failed to record installment reminder",
				slog.Int64("installment_id", inst.ID), slog.String("error", err.Error()))
			continue
		}
		count++
	}
	return count, nil
}

// cronSlogAdapter bridges the cron logger interface onto slog.
type cronSlogAdapter struct {
	logger *slog.Logger
}

func (a *cronSlogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Info(msg, keysAndValues...)
}

func (a *cronSlogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"error", err.Error()}, keysAndValues...)
	a.logger.Error(msg, args...)
}
