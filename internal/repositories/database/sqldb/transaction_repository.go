package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
	"github.com/karacadev/backoffice/internal/utils/pagination"
)

const transactionColumns = `id, type, amount, description, date, approved, created_by, created_at, updated_at`

type SQLTransactionRepository struct {
	store *storage.Store
}

// newSQLTransactionRepository creates a new repository for ledger transactions.
func newSQLTransactionRepository(store *storage.Store) portsrepo.TransactionRepositoryFacade {
	return &SQLTransactionRepository{store: store}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepositoryFacade = (*SQLTransactionRepository)(nil)

// insertTransaction persists one ledger row through q and returns the
// generated id. Every compound write that derives a ledger entry (receipts,
// issues, project costs, sales, installment payments) funnels through here
// with its own transaction handle.
func insertTransaction(ctx context.Context, q storage.Querier, txn domain.Transaction) (int64, error) {
	query := `
		INSERT INTO transactions (type, amount, description, date, approved, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := q.InsertID(ctx, query,
		string(txn.Type),
		txn.Amount,
		txn.Description,
		txn.Date,
		txn.Approved,
		txn.CreatedBy,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert transaction: %w", err)
	}
	return id, nil
}

func scanTransaction(row rowScanner, txn *domain.Transaction) error {
	return row.Scan(
		&txn.ID,
		&txn.Type,
		&txn.Amount,
		&txn.Description,
		&txn.Date,
		&txn.Approved,
		&txn.CreatedBy,
		&txn.CreatedAt,
		&txn.UpdatedAt,
	)
}

func findTransactionByID(ctx context.Context, q storage.Querier, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = ?`

	var txn domain.Transaction
	err := scanTransaction(q.QueryRowContext(ctx, query, transactionID), &txn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	return &txn, nil
}

// CreateTransaction inserts a manual ledger entry and returns its id.
func (r *SQLTransactionRepository) CreateTransaction(ctx context.Context, txn domain.Transaction) (int64, error) {
	return insertTransaction(ctx, r.store, txn)
}

// FindTransactionByID retrieves a single transaction by its ID.
func (r *SQLTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	return findTransactionByID(ctx, r.store, transactionID)
}

// ListTransactions retrieves a page of transactions ordered newest first,
// keyed by an opaque token that encodes the (date, id) of the last row on the
// previous page.
func (r *SQLTransactionRepository) ListTransactions(ctx context.Context, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1 // one extra row decides whether another page exists

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	args := []any{}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid pagination token", apperrors.ErrValidation)
		}
		query += ` WHERE (date, id) < (?, ?)`
		args = append(args, lastDate, lastID)
	}
	query += ` ORDER BY date DESC, id DESC LIMIT ` + strconv.Itoa(fetchLimit)

	rows, err := r.store.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, fetchLimit)
	for rows.Next() {
		var txn domain.Transaction
		if err := scanTransaction(rows, &txn); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(transactions) > limit {
		transactions = transactions[:limit]
		last := transactions[limit-1]
		t := pagination.EncodeToken(last.Date, last.ID)
		token = &t
	}
	return transactions, token, nil
}

// ApproveTransaction flips the approved flag. Approving an already approved
// transaction only refreshes updated_at.
func (r *SQLTransactionRepository) ApproveTransaction(ctx context.Context, transactionID int64, now time.Time) error {
	query := `UPDATE transactions SET approved = ?, updated_at = ? WHERE id = ?`

	res, err := r.store.ExecContext(ctx, query, true, now, transactionID)
	if err != nil {
		return fmt.Errorf("failed to approve transaction %d: %w", transactionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for transaction %d: %w", transactionID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
	}
	return nil
}

// DeleteTransaction removes a transaction permanently.
func (r *SQLTransactionRepository) DeleteTransaction(ctx context.Context, transactionID int64) error {
	query := `DELETE FROM transactions WHERE id = ?`

	res, err := r.store.ExecContext(ctx, query, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d: %w", transactionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for transaction %d: %w", transactionID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %d", apperrors.ErrNotFound, transactionID)
	}
	return nil
}
