package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karacadev/backoffice/internal/apperrors"
	portssvc "github.com/karacadev/backoffice/internal/core/ports/services"
	"github.com/karacadev/backoffice/internal/dto"
	"github.com/karacadev/backoffice/internal/middleware"
)

// installmentHandler handles HTTP requests related to installment collection.
type installmentHandler struct {
	installmentService portssvc.InstallmentSvcFacade
}

// newInstallmentHandler creates a new installmentHandler.
func newInstallmentHandler(is portssvc.InstallmentSvcFacade) *installmentHandler {
	return &installmentHandler{
		installmentService: is,
	}
}

// registerInstallmentRoutes registers routes related to installments.
func registerInstallmentRoutes(rg *gin.RouterGroup, installmentService portssvc.InstallmentSvcFacade) {
	h := newInstallmentHandler(installmentService)

	installments := rg.Group("/installments")
	{
		installments.GET("/due", h.getDueInstallments)
		installments.GET("/:installmentID", h.getInstallment)
		installments.POST("/:installmentID/pay", h.payInstallment)
		installments.POST("/:installmentID/reminders", h.createReminder)
		installments.GET("/:installmentID/reminders", h.listReminders)
	}
}

// getDueInstallments godoc
// @Summary List due installments
// @Description Retrieves unpaid installments due on or before the given date
// @Tags installments
// @Produce  json
// @Param   asOf query string false "Cutoff date (YYYY-MM-DD)" default(current date)
// @Success 200 {array} dto.InstallmentResponse
// @Failure 400 {object} map[string]string "Invalid date"
// @Failure 500 {object} map[string]string "Failed to list due installments"
// @Security BearerAuth
// @Router /installments/due [get]
func (h *installmentHandler) getDueInstallments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOfStr := c.DefaultQuery("asOf", time.Now().UTC().Format("2006-01-02"))
	asOf, err := time.Parse("2006-01-02", asOfStr)
	if err != nil {
		logger.Warn("Invalid asOf date format", slog.String("asOf", asOfStr))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	due, err := h.installmentService.GetDueInstallments(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to list due installments", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list due installments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponses(due))
}

// getInstallment godoc
// @Summary Get an installment
// @Description Retrieves a single installment by ID
// @Tags installments
// @Produce  json
// @Param   installmentID path int true "Installment ID"
// @Success 200 {object} dto.InstallmentResponse
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to retrieve installment"
// @Security BearerAuth
// @Router /installments/{installmentID} [get]
func (h *installmentHandler) getInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID, ok := parseIDParam(c, "installmentID")
	if !ok {
		return
	}

	inst, err := h.installmentService.GetInstallmentByID(c.Request.Context(), installmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
			return
		}
		logger.Error("Failed to get installment", slog.Int64("installment_id", installmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve installment"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInstallmentResponse(inst))
}

// payInstallment godoc
// @Summary Settle an installment
// @Description Marks an installment paid and records the revenue entry; repeat settlements only add ledger entries
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   installmentID path int true "Installment ID"
// @Param   payment body dto.PayInstallmentRequest true "Payment details"
// @Success 200 {object} dto.PaymentResultResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to settle installment"
// @Security BearerAuth
// @Router /installments/{installmentID}/pay [post]
func (h *installmentHandler) payInstallment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID, ok := parseIDParam(c, "installmentID")
	if !ok {
		return
	}

	var req dto.PayInstallmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PayInstallment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.installmentService.PayInstallment(c.Request.Context(), installmentID, req, creator)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
			return
		}
		logger.Error("Failed to settle installment", slog.Int64("installment_id", installmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to settle installment"})
		return
	}

	logger.Info("Installment settled", slog.Int64("installment_id", installmentID), slog.Int64("transaction_id", result.Transaction.ID))
	c.JSON(http.StatusOK, dto.ToPaymentResultResponse(result))
}

// createReminder godoc
// @Summary Record a payment reminder
// @Description Records one reminder notice for an installment; an empty note gets a derived line
// @Tags installments
// @Accept  json
// @Produce  json
// @Param   installmentID path int true "Installment ID"
// @Param   reminder body dto.CreateReminderRequest false "Reminder note"
// @Success 201 {object} dto.ReminderResponse
// @Failure 404 {object} map[string]string "Installment not found"
// @Failure 500 {object} map[string]string "Failed to create reminder"
// @Security BearerAuth
// @Router /installments/{installmentID}/reminders [post]
func (h *installmentHandler) createReminder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID, ok := parseIDParam(c, "installmentID")
	if !ok {
		return
	}

	// The body is optional; without it the service derives the note.
	var req dto.CreateReminderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	reminder, err := h.installmentService.CreateReminder(c.Request.Context(), installmentID, req.Note)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installment not found"})
			return
		}
		logger.Error("Failed to create reminder", slog.Int64("installment_id", installmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reminder"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToReminderResponse(reminder))
}

// listReminders godoc
// @Summary List payment reminders
// @Description Retrieves the reminders recorded for one installment, newest first
// @Tags installments
// @Produce  json
// @Param   installmentID path int true "Installment ID"
// @Success 200 {array} dto.ReminderResponse
// @Failure 500 {object} map[string]string "Failed to list reminders"
// @Security BearerAuth
// @Router /installments/{installmentID}/reminders [get]
func (h *installmentHandler) listReminders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	installmentID, ok := parseIDParam(c, "installmentID")
	if !ok {
		return
	}

	reminders, err := h.installmentService.ListReminders(c.Request.Context(), installmentID)
	if err != nil {
		logger.Error("Failed to list reminders", slog.Int64("installment_id", installmentID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reminders"})
		return
	}

	c.JSON(http.StatusOK, dto.ToReminderResponses(reminders))
}
