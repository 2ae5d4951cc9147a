package services

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/dto"
)

// TransactionReaderSvc defines read operations for ledger transactions
type TransactionReaderSvc interface {
	// GetTransactionByID retrieves a specific transaction by its ID.
	GetTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions, newest first.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines write operations for ledger transactions
type TransactionWriterSvc interface {
	// CreateTransaction records a ledger entry directly.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, creator string) (*domain.Transaction, error)

	// ApproveTransaction flips the approved flag and returns the updated row.
	ApproveTransaction(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// DeleteTransaction removes a transaction permanently.
	DeleteTransaction(ctx context.Context, transactionID int64) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
// This is a facade for clients that need access to all operations
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
