package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	store *storage.Store
}

// newSQLReportingRepository creates a new reporting repository
func newSQLReportingRepository(store *storage.Store) portsrepo.ReportingRepository {
	return &reportingRepository{store: store}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetSnapshot computes the dashboard aggregates in four passes: ledger
// totals, project and item counts, the overdue installment count as of asOf,
// and the list of items at or below their minimum threshold.
func (r *reportingRepository) GetSnapshot(ctx context.Context, asOf time.Time) (*domain.Snapshot, error) {
	snapshot := &domain.Snapshot{}

	ledgerQuery := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE 0 END), 0),
			COUNT(CASE WHEN approved = ? THEN 1 END)
		FROM transactions`

	err := r.store.QueryRowContext(ctx, ledgerQuery,
		string(domain.Income),
		string(domain.Expense),
		false,
	).Scan(
		&snapshot.TransactionCount,
		&snapshot.TotalIncome,
		&snapshot.TotalExpense,
		&snapshot.PendingApprovals,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger totals: %w", err)
	}
	snapshot.Balance = snapshot.TotalIncome.Sub(snapshot.TotalExpense)

	countsQuery := `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM inventory_items)`
	if err := r.store.QueryRowContext(ctx, countsQuery).Scan(
		&snapshot.ProjectCount,
		&snapshot.InventoryItemCount,
	); err != nil {
		return nil, fmt.Errorf("error querying entity counts: %w", err)
	}

	overdueQuery := `SELECT COUNT(*) FROM project_installments WHERE paid = ? AND due_date <= ?`
	if err := r.store.QueryRowContext(ctx, overdueQuery, false, asOf).Scan(&snapshot.OverdueInstallments); err != nil {
		return nil, fmt.Errorf("error querying overdue installments: %w", err)
	}

	lowStockQuery := `SELECT ` + itemColumns + ` FROM inventory_items WHERE quantity <= min_threshold ORDER BY name ASC`
	rows, err := r.store.QueryContext(ctx, lowStockQuery)
	if err != nil {
		return nil, fmt.Errorf("error querying low stock items: %w", err)
	}
	defer rows.Close()

	lowStock := make([]domain.InventoryItem, 0)
	for rows.Next() {
		var item domain.InventoryItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("error scanning low stock row: %w", err)
		}
		lowStock = append(lowStock, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating low stock rows: %w", err)
	}
	snapshot.LowStockItems = lowStock

	return snapshot, nil
}
