package services

import (
	"context"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/dto"
)

// InstallmentReaderSvc defines read operations for installment data
type InstallmentReaderSvc interface {
	// GetInstallmentByID retrieves a specific installment by its ID.
	GetInstallmentByID(ctx context.Context, installmentID int64) (*domain.Installment, error)

	// ListInstallmentsByProject retrieves a project's installment schedule.
	ListInstallmentsByProject(ctx context.Context, projectID int64) ([]domain.Installment, error)

	// GetDueInstallments retrieves unpaid installments due on or before asOf.
	GetDueInstallments(ctx context.Context, asOf time.Time) ([]domain.Installment, error)

	// ListReminders retrieves the reminders recorded for one installment.
	ListReminders(ctx context.Context, installmentID int64) ([]domain.InstallmentReminder, error)
}

// InstallmentWriterSvc defines write operations for installment data
type InstallmentWriterSvc interface {
	// PayInstallment settles an installment, recording the revenue
	// transaction. Settling an already paid installment records another
	// transaction without touching the installment's state.
	PayInstallment(ctx context.Context, installmentID int64, req dto.PayInstallmentRequest, creator string) (*domain.PaymentResult, error)

	// CreateReminder records one reminder for an installment.
	CreateReminder(ctx context.Context, installmentID int64, note string) (*domain.InstallmentReminder, error)
}

// InstallmentSvcFacade combines all installment-related service interfaces
// This is a facade for clients that need access to all operations
type InstallmentSvcFacade interface {
	InstallmentReaderSvc
	InstallmentWriterSvc
}
