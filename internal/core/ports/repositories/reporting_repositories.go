package repositories

import (
	"context"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// ReportingRepository defines the aggregate dashboard read. Project detail
// snapshots are assembled by the reporting service from the project and
// installment repositories instead.
type ReportingRepository interface {
	// GetSnapshot computes the dashboard aggregates across the whole ledger,
	// inventory and project data. Overdue installments are counted as of asOf.
	GetSnapshot(ctx context.Context, asOf time.Time) (*domain.Snapshot, error)
}
