package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

const installmentColumns = `id, project_id, sale_id, unit_no, buyer, amount, due_date, paid, paid_at, created_at`

type SQLInstallmentRepository struct {
	store *storage.Store
}

// newSQLInstallmentRepository creates a new repository for installment data.
func newSQLInstallmentRepository(store *storage.Store) portsrepo.InstallmentRepositoryFacade {
	return &SQLInstallmentRepository{store: store}
}

// Ensure implementation matches interface
var _ portsrepo.InstallmentRepositoryFacade = (*SQLInstallmentRepository)(nil)

func scanInstallment(row rowScanner, inst *domain.Installment) error {
	return row.Scan(
		&inst.ID,
		&inst.ProjectID,
		&inst.SaleID,
		&inst.UnitNo,
		&inst.Buyer,
		&inst.Amount,
		&inst.DueDate,
		&inst.Paid,
		&inst.PaidAt,
		&inst.CreatedAt,
	)
}

// findInstallmentByID reads one installment through q. With forUpdate the row
// is locked for the remainder of the enclosing transaction on backends that
// support it.
func findInstallmentByID(ctx context.Context, q storage.Querier, installmentID int64, forUpdate bool) (*domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM project_installments WHERE id = ?`
	if forUpdate {
		query += q.LockSuffix()
	}

	var inst domain.Installment
	err := scanInstallment(q.QueryRowContext(ctx, query, installmentID), &inst)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find installment %d: %w", installmentID, err)
	}
	return &inst, nil
}

func queryInstallments(ctx context.Context, q storage.Querier, query string, args ...any) ([]domain.Installment, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query installments: %w", err)
	}
	defer rows.Close()

	installments := make([]domain.Installment, 0)
	for rows.Next() {
		var inst domain.Installment
		if err := scanInstallment(rows, &inst); err != nil {
			return nil, fmt.Errorf("failed to scan installment row: %w", err)
		}
		installments = append(installments, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating installment rows: %w", err)
	}
	return installments, nil
}

// listInstallmentsBySale reads back a sale's schedule in due-date order.
// Shared with the sale compound write, which runs it on the open transaction.
func listInstallmentsBySale(ctx context.Context, q storage.Querier, saleID int64) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM project_installments WHERE sale_id = ? ORDER BY due_date ASC, id ASC`
	return queryInstallments(ctx, q, query, saleID)
}

// FindInstallmentByID retrieves a single installment by its ID.
func (r *SQLInstallmentRepository) FindInstallmentByID(ctx context.Context, installmentID int64) (*domain.Installment, error) {
	return findInstallmentByID(ctx, r.store, installmentID, false)
}

// ListInstallmentsByProject retrieves a project's installments ascending by due date.
func (r *SQLInstallmentRepository) ListInstallmentsByProject(ctx context.Context, projectID int64) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM project_installments WHERE project_id = ? ORDER BY due_date ASC, id ASC`
	return queryInstallments(ctx, r.store, query, projectID)
}

// FindDueInstallments retrieves unpaid installments due on or before asOf,
// ascending by due date. The overdue sweep runs on this read.
func (r *SQLInstallmentRepository) FindDueInstallments(ctx context.Context, asOf time.Time) ([]domain.Installment, error) {
	query := `SELECT ` + installmentColumns + ` FROM project_installments WHERE paid = ? AND due_date <= ? ORDER BY due_date ASC, id ASC`
	return queryInstallments(ctx, r.store, query, false, asOf)
}

// SavePayment settles an installment atomically: it locks the row, flips the
// paid flag and stamps paid_at when still unpaid, and inserts the revenue
// transaction in either case. Settling an already paid installment leaves
// the installment untouched; only the transaction is recorded.
func (r *SQLInstallmentRepository) SavePayment(ctx context.Context, installmentID int64, paidAt time.Time, txn domain.Transaction) (*domain.PaymentResult, error) {
	var result *domain.PaymentResult

	err := r.store.WithTx(ctx, func(tx *storage.Tx) error {
		inst, err := findInstallmentByID(ctx, tx, installmentID, true)
		if err != nil {
			return err
		}

		if !inst.Paid {
			updateQuery := `UPDATE project_installments SET paid = ?, paid_at = ? WHERE id = ?`
			if _, err := tx.ExecContext(ctx, updateQuery, true, paidAt, installmentID); err != nil {
				return fmt.Errorf("failed to mark installment %d paid: %w", installmentID, err)
			}
		}

		txnID, err := insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}

		storedInst, err := findInstallmentByID(ctx, tx, installmentID, false)
		if err != nil {
			return err
		}
		storedTxn, err := findTransactionByID(ctx, tx, txnID)
		if err != nil {
			return err
		}

		result = &domain.PaymentResult{Installment: *storedInst, Transaction: *storedTxn}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateReminder appends a reminder row for an installment and returns its id.
func (r *SQLInstallmentRepository) CreateReminder(ctx context.Context, reminder domain.InstallmentReminder) (int64, error) {
	query := `
		INSERT INTO installment_reminders (installment_id, sent_at, note)
		VALUES (?, ?, ?)`

	id, err := r.store.InsertID(ctx, query,
		reminder.InstallmentID,
		reminder.SentAt,
		reminder.Note,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reminder for installment %d: %w", reminder.InstallmentID, err)
	}
	return id, nil
}

// ListRemindersByInstallment retrieves the reminders recorded for one
// installment, newest first.
func (r *SQLInstallmentRepository) ListRemindersByInstallment(ctx context.Context, installmentID int64) ([]domain.InstallmentReminder, error) {
	query := `SELECT id, installment_id, sent_at, note FROM installment_reminders WHERE installment_id = ? ORDER BY sent_at DESC, id DESC`

	rows, err := r.store.QueryContext(ctx, query, installmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders for installment %d: %w", installmentID, err)
	}
	defer rows.Close()

	reminders := make([]domain.InstallmentReminder, 0)
	for rows.Next() {
		var reminder domain.InstallmentReminder
		if err := rows.Scan(&reminder.ID, &reminder.InstallmentID, &reminder.SentAt, &reminder.Note); err != nil {
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder rows: %w", err)
	}
	return reminders, nil
}
