package services

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/dto"
)

// ProjectReaderSvc defines read operations for project data
type ProjectReaderSvc interface {
	// GetProjectByID retrieves a specific project by its ID.
	GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error)

	// ListProjects retrieves all projects, newest first.
	ListProjects(ctx context.Context) ([]domain.Project, error)
}

// ProjectWriterSvc defines write operations for project data
type ProjectWriterSvc interface {
	// CreateProject registers a new project.
	CreateProject(ctx context.Context, req dto.CreateProjectRequest, creator string) (*domain.Project, error)

	// DeleteProject removes a project and, by cascade, its costs, sales and
	// installments.
	DeleteProject(ctx context.Context, projectID int64) error
}

// ProjectLedgerSvc defines the compound money-posting operations
type ProjectLedgerSvc interface {
	// CreateCost posts a cost and its derived expense transaction atomically.
	CreateCost(ctx context.Context, projectID int64, req dto.CreateProjectCostRequest, creator string) (*domain.CostResult, error)

	// CreateSale records a unit sale, its immediate revenue transaction and,
	// for financed sales, the generated installment schedule, atomically.
	CreateSale(ctx context.Context, projectID int64, req dto.CreateProjectSaleRequest, creator string) (*domain.SaleResult, error)
}

// ProjectSvcFacade combines all project-related service interfaces
// This is a facade for clients that need access to all operations
type ProjectSvcFacade interface {
	ProjectReaderSvc
	ProjectWriterSvc
	ProjectLedgerSvc
}
