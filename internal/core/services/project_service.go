package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
	"github.com/karacadev/backoffice/internal/utils"
	"github.com/karacadev/backoffice/internal/utils/schedule"
)

// projectService provides project management and the money-posting flows.
type projectService struct {
	projectRepo portsrepo.ProjectRepositoryFacade
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo portsrepo.ProjectRepositoryFacade) portssvc.ProjectSvcFacade {
	return &projectService{projectRepo: projectRepo}
}

// Ensure projectService implements the portssvc.ProjectSvcFacade interface
var _ portssvc.ProjectSvcFacade = (*projectService)(nil)

// CreateProject registers a new development.
func (s *projectService) CreateProject(ctx context.Context, req dto.CreateProjectRequest, creator string) (*domain.Project, error) {
	project := domain.Project{
		Name:      req.Name,
		Location:  req.Location,
		Floors:    req.Floors,
		Units:     req.Units,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.projectRepo.CreateProject(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Project created", slog.Int64("project_id", id), slog.String("name", req.Name), slog.String("creator", creator))

	return s.projectRepo.FindProjectByID(ctx, id)
}

// GetProjectByID retrieves a single project.
func (s *projectService) GetProjectByID(ctx context.Context, projectID int64) (*domain.Project, error) {
	return s.projectRepo.FindProjectByID(ctx, projectID)
}

// ListProjects retrieves all projects, newest first.
func (s *projectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projectRepo.ListProjects(ctx)
}

// DeleteProject removes a project and, by cascade, everything posted to it.
// The ledger entries those postings derived stay untouched.
func (s *projectService) DeleteProject(ctx context.Context, projectID int64) error {
	return s.projectRepo.DeleteProject(ctx, projectID)
}

// CreateCost posts a cost to a project together with its derived expense
// entry. The "other" category requires a custom label so the ledger line
// stays readable.
func (s *projectService) CreateCost(ctx context.Context, projectID int64, req dto.CreateProjectCostRequest, creator string) (*domain.CostResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	category := domain.CostCategory(req.Category)
	if category == domain.CategoryOther && req.CustomLabel == "" {
		return nil, fmt.Errorf("%w: custom label is required when category is other", apperrors.ErrValidation)
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cost := domain.ProjectCost{
		ProjectID:   projectID,
		Category:    category,
		CustomLabel: req.CustomLabel,
		Amount:      req.Amount,
		Date:        req.Date,
		Note:        req.Note,
		CreatedAt:   now,
	}

	txn := domain.Transaction{
		Type:        domain.Expense,
		Amount:      req.Amount,
		Description: fmt.Sprintf("Project cost - %s: %s", category.Label(req.CustomLabel), project.Name),
		Date:        req.Date,
		Approved:    true,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.projectRepo.SaveCost(ctx, cost, txn)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to post project cost", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post project cost: %w", err)
	}
	return result, nil
}

// CreateSale records a unit sale. The revenue entry always covers the
// immediate cash amount: the full price for a cash sale, the down payment
// (possibly zero) for a financed one. A financing plan additionally expands
// into its installment schedule inside the same database transaction.
func (s *projectService) CreateSale(ctx context.Context, projectID int64, req dto.CreateProjectSaleRequest, creator string) (*domain.SaleResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Price.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price must be positive", apperrors.ErrValidation)
	}
	if req.Plan != nil {
		if req.Plan.MonthlyAmount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: monthly amount must be positive", apperrors.ErrValidation)
		}
		if req.Plan.Months <= 0 {
			return nil, fmt.Errorf("%w: months must be positive", apperrors.ErrValidation)
		}
		if req.Plan.DownPayment.IsNegative() {
			return nil, fmt.Errorf("%w: down payment cannot be negative", apperrors.ErrValidation)
		}
	}

	project, err := s.projectRepo.FindProjectByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sale := domain.ProjectSale{
		ProjectID:     projectID,
		UnitNo:        req.UnitNo,
		Buyer:         req.Buyer,
		Price:         req.Price,
		Date:          req.Date,
		Terms:         req.Terms,
		Area:          req.Area,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     now,
	}

	immediate := req.Price
	description := fmt.Sprintf("Sale of unit %s in %s to %s", req.UnitNo, project.Name, req.Buyer)

	var installments []domain.Installment
	if req.Plan != nil {
		immediate = req.Plan.DownPayment
		description = fmt.Sprintf("Down payment for unit %s in %s from %s", req.UnitNo, project.Name, req.Buyer)

		plan := domain.FinancingPlan{
			DownPayment:   req.Plan.DownPayment,
			MonthlyAmount: req.Plan.MonthlyAmount,
			Months:        req.Plan.Months,
			FirstDueDate:  req.Plan.FirstDueDate,
		}
		installments = schedule.Build(plan, projectID, req.UnitNo, req.Buyer)
		for i := range installments {
			installments[i].CreatedAt = now
		}
	}

	txn := domain.Transaction{
		Type:        domain.Income,
		Amount:      immediate,
		Description: description,
		Date:        req.Date,
		Approved:    true,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	result, err := s.projectRepo.SaveSale(ctx, sale, txn, installments)
	if err != nil {
		logger.Error("Failed to record sale", slog.Int64("project_id", projectID), slog.String("unit_no", req.UnitNo), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record sale: %w", err)
	}

	logger.Info("Sale recorded",
		slog.Int64("project_id", projectID),
		slog.String("unit_no", req.UnitNo),
		slog.String("immediate_amount", utils.FormatAmount(immediate)),
		slog.Int("installments", len(result.Installments)))

	return result, nil
}
