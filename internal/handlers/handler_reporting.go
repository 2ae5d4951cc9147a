package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
)

// reportingHandler handles HTTP requests for the dashboard aggregates.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers the dashboard route. The per-project
// snapshot lives under /projects.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	rg.GET("/snapshot", h.getSnapshot)
}

// getSnapshot godoc
// @Summary Get the dashboard snapshot
// @Description Retrieves ledger totals, entity counts, overdue installments and low-stock items in one response
// @Tags reports
// @Produce  json
// @Success 200 {object} dto.SnapshotResponse
// @Failure 500 {object} map[string]string "Failed to build snapshot"
// @Security BearerAuth
// @Router /snapshot [get]
func (h *reportingHandler) getSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	snapshot, err := h.reportingService.GetSnapshot(c.Request.Context())
	if err != nil {
		logger.Error("Failed to build snapshot", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build snapshot"})
		return
	}

	c.JSON(http.StatusOK, dto.ToSnapshotResponse(snapshot))
}
