package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
	"github.com/karacadev/backoffice/internal/utils"
)

// installmentService provides installment settlement and reminder operations.
type installmentService struct {
	installmentRepo portsrepo.InstallmentRepositoryFacade
}

// NewInstallmentService creates a new InstallmentService.
func NewInstallmentService(installmentRepo portsrepo.InstallmentRepositoryFacade) portssvc.InstallmentSvcFacade {
	return &installmentService{installmentRepo: installmentRepo}
}

// Ensure installmentService implements the portssvc.InstallmentSvcFacade interface
var _ portssvc.InstallmentSvcFacade = (*installmentService)(nil)

// GetInstallmentByID retrieves a single installment.
func (s *installmentService) GetInstallmentByID(ctx context.Context, installmentID int64) (*domain.Installment, error) {
	return s.installmentRepo.FindInstallmentByID(ctx, installmentID)
}

// ListInstallmentsByProject retrieves a project's schedule, due dates ascending.
func (s *installmentService) ListInstallmentsByProject(ctx context.Context, projectID int64) ([]domain.Installment, error) {
	return s.installmentRepo.ListInstallmentsByProject(ctx, projectID)
}

// GetDueInstallments retrieves unpaid installments due on or before asOf.
func (s *installmentService) GetDueInstallments(ctx context.Context, asOf time.Time) ([]domain.Installment, error) {
	return s.installmentRepo.FindDueInstallments(ctx, asOf)
}

// ListReminders retrieves the reminders recorded for one installment.
func (s *installmentService) ListReminders(ctx context.Context, installmentID int64) ([]domain.InstallmentReminder, error) {
	return s.installmentRepo.ListRemindersByInstallment(ctx, installmentID)
}

// PayInstallment settles an installment. The revenue amount is always the
// installment's own amount, never caller input. Settling an already paid
// installment leaves its state alone and still records the transaction.
func (s *installmentService) PayInstallment(ctx context.Context, installmentID int64, req dto.PayInstallmentRequest, creator string) (*domain.PaymentResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	inst, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("Installment payment of %s for unit %s from %s",
		utils.FormatAmount(inst.Amount), inst.UnitNo, inst.Buyer)

	txn := domain.Transaction{
		Type:        domain.Income,
		Amount:      inst.Amount,
		Description: description,
		Date:        req.Date,
		Approved:    true,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.installmentRepo.SavePayment(ctx, installmentID, req.Date, txn)
	if err != nil {
		logger.Error("Failed to settle installment", slog.Int64("installment_id", installmentID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to settle installment: %w", err)
	}

	if inst.Paid {
		logger.Warn("Settled an already paid installment", slog.Int64("installment_id", installmentID))
	}
	return result, nil
}

// CreateReminder records one notice for an installment. An empty note is
// filled with a derived line naming the unit and due date.
func (s *installmentService) CreateReminder(ctx context.Context, installmentID int64, note string) (*domain.InstallmentReminder, error) {
	inst, err := s.installmentRepo.FindInstallmentByID(ctx, installmentID)
	if err != nil {
		return nil, err
	}

	if note == "" {
		note = fmt.Sprintf("Installment of %s for unit %s due %s",
			utils.FormatAmount(inst.Amount), inst.UnitNo, inst.DueDate.Format("2006-01-02"))
	}

	reminder := domain.InstallmentReminder{
		InstallmentID: installmentID,
		SentAt:        time.Now().UTC(),
		Note:          note,
	}

	id, err := s.installmentRepo.CreateReminder(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	reminder.ID = id
	return &reminder, nil
}
