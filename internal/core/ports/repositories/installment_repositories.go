package repositories

import (
	"context"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// InstallmentReader defines read operations for installment data
type InstallmentReader interface {
	// FindInstallmentByID retrieves a specific installment by its unique identifier.
	FindInstallmentByID(ctx context.Context, installmentID int64) (*domain.Installment, error)

	// ListInstallmentsByProject retrieves a project's installments ascending by due date.
	ListInstallmentsByProject(ctx context.Context, projectID int64) ([]domain.Installment, error)

	// FindDueInstallments retrieves unpaid installments due on or before asOf,
	// ascending by due date.
	FindDueInstallments(ctx context.Context, asOf time.Time) ([]domain.Installment, error)

	// ListRemindersByInstallment retrieves the reminders recorded for one installment.
	ListRemindersByInstallment(ctx context.Context, installmentID int64) ([]domain.InstallmentReminder, error)
}

// InstallmentWriter defines write operations for installment data
type InstallmentWriter interface {
	// SavePayment settles an installment inside one database transaction: it
	// locks the row, flips paid and stamps paidAt when the installment is still
	// unpaid, and inserts the revenue transaction in either case. An already
	// paid installment keeps its state; only the transaction is recorded.
	SavePayment(ctx context.Context, installmentID int64, paidAt time.Time, txn domain.Transaction) (*domain.PaymentResult, error)

	// CreateReminder persists a reminder and returns its generated id.
	CreateReminder(ctx context.Context, reminder domain.InstallmentReminder) (int64, error)
}

// InstallmentRepositoryFacade combines all installment-related repository interfaces
// This is a facade for clients that need access to all operations
type InstallmentRepositoryFacade interface {
	InstallmentReader
	InstallmentWriter
}
