package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
)

// reportingService assembles the dashboard and project detail views.
type reportingService struct {
	reportingRepo   portsrepo.ReportingRepository
	projectRepo     portsrepo.ProjectRepositoryFacade
	installmentRepo portsrepo.InstallmentRepositoryFacade
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, projectRepo portsrepo.ProjectRepositoryFacade, installmentRepo portsrepo.InstallmentRepositoryFacade) portssvc.ReportingService {
	return &reportingService{
		reportingRepo:   reportingRepo,
		projectRepo:     projectRepo,
		installmentRepo: installmentRepo,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// GetSnapshot computes the dashboard aggregates. Overdue installments are
// counted against the current day.
func (s *reportingService) GetSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	return s.reportingRepo.GetSnapshot(ctx, time.Now().UTC())
}

// GetProjectSnapshot assembles one project's detail view from its costs,
// sales and installments, deriving the collection totals in the process.
func (s *reportingService) GetProjectSnapshot(ctx context.Context, projectID int64) (*domain.ProjectSnapshot, error) {
	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	costs, err := s.projectRepo.ListCostsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list costs for project snapshot: %w", err)
	}
	sales, err := s.projectRepo.ListSalesByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales for project snapshot: %w", err)
	}
	installments, err := s.installmentRepo.ListInstallmentsByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list installments for project snapshot: %w", err)
	}

	snapshot := &domain.ProjectSnapshot{
		Project:      *project,
		Costs:        costs,
		Sales:        sales,
		Installments: installments,
		TotalCost:    decimal.Zero,
		TotalSales:   decimal.Zero,
		Collected:    decimal.Zero,
		Outstanding:  decimal.Zero,
	}

	for _, cost := range costs {
		snapshot.TotalCost = snapshot.TotalCost.Add(cost.Amount)
	}
	for _, sale := range sales {
		snapshot.TotalSales = snapshot.TotalSales.Add(sale.Price)
	}
	for _, inst := range installments {
		if inst.Paid {
			snapshot.Collected = snapshot.Collected.Add(inst.Amount)
		} else {
			snapshot.Outstanding = snapshot.Outstanding.Add(inst.Amount)
		}
	}

	return snapshot, nil
}
