package repositories

import (
	"context"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// TransactionReader defines read operations for ledger transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions retrieves a paginated list of transactions, newest first,
	// using token-based pagination. It returns the transactions, a token for the
	// next page, and an error.
	ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for ledger transactions
type TransactionWriter interface {
	// CreateTransaction persists a new transaction and returns its generated id.
	// The canonical row is read back with FindTransactionByID.
	CreateTransaction(ctx context.Context, txn domain.Transaction) (int64, error)

	// ApproveTransaction flips the approved flag and stamps the update time.
	ApproveTransaction(ctx context.Context, transactionID int64, now time.Time) error

	// DeleteTransaction removes a transaction permanently.
	DeleteTransaction(ctx context.Context, transactionID int64) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
// This is a facade for clients that need access to all operations
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
