package repositories

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// ProjectReader defines read operations for project data
type ProjectReader interface {
	// FindProjectByID retrieves a specific project by its unique identifier.
	FindProjectByID(ctx context.Context, projectID int64) (*domain.Project, error)

	// ListProjects retrieves all projects, newest first.
	ListProjects(ctx context.Context) ([]domain.Project, error)

	// ListCostsByProject retrieves the costs posted to a project, newest first.
	ListCostsByProject(ctx context.Context, projectID int64) ([]domain.ProjectCost, error)

	// ListSalesByProject retrieves the sales recorded for a project, newest first.
	ListSalesByProject(ctx context.Context, projectID int64) ([]domain.ProjectSale, error)
}

// ProjectWriter defines write operations for project data
type ProjectWriter interface {
	// CreateProject persists a new project and returns its generated id.
	// The canonical row is read back with FindProjectByID.
	CreateProject(ctx context.Context, project domain.Project) (int64, error)

	// DeleteProject removes a project; its costs, sales and installments are
	// removed by cascade.
	DeleteProject(ctx context.Context, projectID int64) error
}

// ProjectLedgerWriter defines the compound writes that post money against a project
type ProjectLedgerWriter interface {
	// SaveCost inserts the cost and its derived expense transaction in one
	// database transaction and re-reads both rows.
	SaveCost(ctx context.Context, cost domain.ProjectCost, txn domain.Transaction) (*domain.CostResult, error)

	// SaveSale inserts the sale, its derived revenue transaction and the full
	// installment schedule in one database transaction. The sale id generated
	// by the insert is stamped onto every installment before the bulk insert.
	SaveSale(ctx context.Context, sale domain.ProjectSale, txn domain.Transaction, installments []domain.Installment) (*domain.SaleResult, error)
}

// ProjectRepositoryFacade combines all project-related repository interfaces
// This is a facade for clients that need access to all operations
type ProjectRepositoryFacade interface {
	ProjectReader
	ProjectWriter
	ProjectLedgerWriter
}
