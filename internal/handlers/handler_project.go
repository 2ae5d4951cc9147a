package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karacadev/backoffice/internal/apperrors"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
)

// projectHandler handles HTTP requests related to development projects and
// the money posted against them.
type projectHandler struct {
	projectService     portssvc.ProjectSvcFacade
	installmentService portssvc.InstallmentSvcFacade
	reportingService   portssvc.ReportingService
}

// newProjectHandler creates a new projectHandler.
func newProjectHandler(ps portssvc.ProjectSvcFacade, is portssvc.InstallmentSvcFacade, rs portssvc.ReportingService) *projectHandler {
	return &projectHandler{
		projectService:     ps,
		installmentService: is,
		reportingService:   rs,
	}
}

// registerProjectRoutes registers routes related to projects, their costs,
// sales, installment schedules and detail snapshots.
func registerProjectRoutes(rg *gin.RouterGroup, projectService portssvc.ProjectSvcFacade, installmentService portssvc.InstallmentSvcFacade, reportingService portssvc.ReportingService) {
	h := newProjectHandler(projectService, installmentService, reportingService)

	projects := rg.Group("/projects")
	{
		projects.POST("", h.createProject)
		projects.GET("", h.listProjects)
		projects.GET("/:projectID", h.getProject)
		projects.DELETE("/:projectID", h.deleteProject)
		projects.GET("/:projectID/snapshot", h.getProjectSnapshot)
		projects.POST("/:projectID/costs", h.createCost)
		projects.POST("/:projectID/sales", h.createSale)
		projects.GET("/:projectID/installments", h.listInstallments)
	}
}

// createProject godoc
// @Summary Register a project
// @Description Adds a new development project
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   project body dto.CreateProjectRequest true "Project details"
// @Success 201 {object} dto.ProjectResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Project name already exists"
// @Failure 500 {object} map[string]string "Failed to create project"
// @Security BearerAuth
// @Router /projects [post]
func (h *projectHandler) createProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateProject", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req, creator)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "A project with this name already exists"})
		} else {
			logger.Error("Failed to create project in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

// listProjects godoc
// @Summary List projects
// @Description Retrieves all projects, newest first
// @Tags projects
// @Produce  json
// @Success 200 {array} dto.ProjectResponse
// @Failure 500 {object} map[string]string "Failed to list projects"
// @Security BearerAuth
// @Router /projects [get]
func (h *projectHandler) listProjects(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list projects", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponses(projects))
}

// getProject godoc
// @Summary Get a project
// @Description Retrieves a single project by ID
// @Tags projects
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Success 200 {object} dto.ProjectResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to retrieve project"
// @Security BearerAuth
// @Router /projects/{projectID} [get]
func (h *projectHandler) getProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	project, err := h.projectService.GetProjectByID(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to get project", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

// deleteProject godoc
// @Summary Delete a project
// @Description Removes a project with its costs, sales and installments; ledger entries stay
// @Tags projects
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to delete project"
// @Security BearerAuth
// @Router /projects/{projectID} [delete]
func (h *projectHandler) deleteProject(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to delete project", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	logger.Info("Project deleted", slog.Int64("project_id", projectID))
	c.Status(http.StatusNoContent)
}

// getProjectSnapshot godoc
// @Summary Get a project snapshot
// @Description Retrieves one project's detail view with derived cost, sales and collection totals
// @Tags projects
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Success 200 {object} dto.ProjectSnapshotResponse
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to build project snapshot"
// @Security BearerAuth
// @Router /projects/{projectID}/snapshot [get]
func (h *projectHandler) getProjectSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	snapshot, err := h.reportingService.GetProjectSnapshot(c.Request.Context(), projectID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		logger.Error("Failed to build project snapshot", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build project snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectSnapshotResponse(snapshot))
}

// createCost godoc
// @Summary Post a project cost
// @Description Records a cost against a project together with its derived expense entry
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Param   cost body dto.CreateProjectCostRequest true "Cost details"
// @Success 201 {object} dto.CostResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to post cost"
// @Security BearerAuth
// @Router /projects/{projectID}/costs [post]
func (h *projectHandler) createCost(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	var req dto.CreateProjectCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCost", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.projectService.CreateCost(c.Request.Context(), projectID, req, creator)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			logger.Error("Failed to post cost", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post cost"})
		}
		return
	}

	logger.Info("Project cost posted", slog.Int64("project_id", projectID), slog.Int64("cost_id", result.Cost.ID))
	c.JSON(http.StatusCreated, dto.ToCostResultResponse(result))
}

// createSale godoc
// @Summary Record a unit sale
// @Description Records a sale with its revenue entry and, for financed sales, the installment schedule
// @Tags projects
// @Accept  json
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Param   sale body dto.CreateProjectSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Project not found"
// @Failure 500 {object} map[string]string "Failed to record sale"
// @Security BearerAuth
// @Router /projects/{projectID}/sales [post]
func (h *projectHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	var req dto.CreateProjectSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.projectService.CreateSale(c.Request.Context(), projectID, req, creator)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		default:
			logger.Error("Failed to record sale", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record sale"})
		}
		return
	}

	logger.Info("Sale recorded", slog.Int64("project_id", projectID), slog.Int64("sale_id", result.Sale.ID))
	c.JSON(http.StatusCreated, dto.ToSaleResultResponse(result))
}

// listInstallments godoc
// @Summary List a project's installments
// @Description Retrieves the installment schedule of a project, due dates ascending
// @Tags projects
// @Produce  json
// @Param   projectID path int true "Project ID"
// @Success 200 {array} dto.InstallmentResponse
// @Failure 500 {object} map[string]string "Failed to list installments"
// @Security BearerAuth
// @Router /projects/{projectID}/installments [get]
func (h *projectHandler) listInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	projectID, ok := parseIDParam(c, "projectID")
	if !ok {
		return
	}

	installments, err := h.installmentService.ListInstallmentsByProject(c.Request.Context(), projectID)
	if err != nil {
		logger.Error("Failed to list installments", slog.Int64("project_id", projectID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list installments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponses(installments))
}
