package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
)

// transactionService provides direct ledger entry operations.
type transactionService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.TransactionSvcFacade {
	return &transactionService{transactionRepo: transactionRepo}
}

// Ensure transactionService implements the portssvc.TransactionSvcFacade interface
var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction records a manual ledger entry. Manual entries start
// unapproved and go through the approval flip; entries derived from
// inventory and project operations are created approved by their services.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creator string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		Type:        domain.TransactionType(req.Type),
		Amount:      req.Amount,
		Description: req.Description,
		Date:        req.Date,
		Approved:    false,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.transactionRepo.CreateTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to create transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.transactionRepo.FindTransactionByID(ctx, id)
}

// GetTransactionByID retrieves a single transaction.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions retrieves one page of the ledger, newest first.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	transactions, nextToken, err := s.transactionRepo.ListTransactions(ctx, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}

// ApproveTransaction flips the approved flag and returns the updated row.
func (s *transactionService) ApproveTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	if err := s.transactionRepo.ApproveTransaction(ctx, transactionID, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.transactionRepo.FindTransactionByID(ctx, transactionID)
}

// DeleteTransaction removes a ledger entry permanently.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID int64) error {
	return s.transactionRepo.DeleteTransaction(ctx, transactionID)
}
