package services

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// ReportingService defines the aggregate dashboard reads
type ReportingService interface {
	// GetSnapshot computes the dashboard aggregates across the whole ledger,
	// inventory and project data.
	GetSnapshot(ctx context.Context) (*domain.Snapshot, error)

	// GetProjectSnapshot computes one project's detail view with derived
	// cost, sales and collection totals.
	GetProjectSnapshot(ctx context.Context, projectID int64) (*domain.ProjectSnapshot, error)
}
