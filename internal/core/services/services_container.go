package services

import (
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Auth = NewAuthService(repos.AccountRepo, cfg)
	container.Transaction = NewTransactionService(repos.TransactionRepo)
	container.Inventory = NewInventoryService(repos.InventoryRepo)
	container.Project = NewProjectService(repos.ProjectRepo)
	container.Installment = NewInstallmentService(repos.InstallmentRepo)

	// Reporting composes the project and installment repositories for the
	// project detail view; only the dashboard aggregate has SQL of its own.
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.ProjectRepo, repos.InstallmentRepo)

	return container
}
