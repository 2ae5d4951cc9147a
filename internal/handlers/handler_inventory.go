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

// inventoryHandler handles HTTP requests related to warehouse stock.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

// newInventoryHandler creates a new inventoryHandler.
func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{
		inventoryService: is,
	}
}

// registerInventoryRoutes registers routes related to inventory items and
// stock movements.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.POST("/items", h.createItem)
		inventory.GET("/items", h.listItems)
		inventory.GET("/items/:itemID", h.getItem)
		inventory.DELETE("/items/:itemID", h.deleteItem)
		inventory.GET("/items/:itemID/movements", h.listMovements)
		inventory.POST("/receipts", h.recordReceipt)
		inventory.POST("/issues", h.recordIssue)
	}
}

// createItem godoc
// @Summary Register a material
// @Description Adds a new inventory item with zero opening stock
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   item body dto.CreateInventoryItemRequest true "Item details"
// @Success 201 {object} dto.InventoryItemResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Item name already exists"
// @Failure 500 {object} map[string]string "Failed to create item"
// @Security BearerAuth
// @Router /inventory/items [post]
func (h *inventoryHandler) createItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	item, err := h.inventoryService.CreateItem(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Attempted to create duplicate item", slog.String("name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": "An item with this name already exists"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create item in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create item"})
		}
		return
	}

	logger.Info("Inventory item created", slog.Int64("item_id", item.ID), slog.String("name", item.Name))
	c.JSON(http.StatusCreated, dto.ToInventoryItemResponse(item))
}

// listItems godoc
// @Summary List inventory items
// @Description Retrieves all materials, ordered by name
// @Tags inventory
// @Produce  json
// @Success 200 {array} dto.InventoryItemResponse
// @Failure 500 {object} map[string]string "Failed to list items"
// @Security BearerAuth
// @Router /inventory/items [get]
func (h *inventoryHandler) listItems(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	items, err := h.inventoryService.ListItems(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list items", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryItemResponses(items))
}

// getItem godoc
// @Summary Get an inventory item
// @Description Retrieves a single material with its current stock level
// @Tags inventory
// @Produce  json
// @Param   itemID path int true "Item ID"
// @Success 200 {object} dto.InventoryItemResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to retrieve item"
// @Security BearerAuth
// @Router /inventory/items/{itemID} [get]
func (h *inventoryHandler) getItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	item, err := h.inventoryService.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		logger.Error("Failed to get item", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve item"})
		return
	}

	c.JSON(http.StatusOK, dto.ToInventoryItemResponse(item))
}

// deleteItem godoc
// @Summary Delete an inventory item
// @Description Removes a material and its movement history
// @Tags inventory
// @Produce  json
// @Param   itemID path int true "Item ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to delete item"
// @Security BearerAuth
// @Router /inventory/items/{itemID} [delete]
func (h *inventoryHandler) deleteItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteItem(c.Request.Context(), itemID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		logger.Error("Failed to delete item", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}

	logger.Info("Inventory item deleted", slog.Int64("item_id", itemID))
	c.Status(http.StatusNoContent)
}

// listMovements godoc
// @Summary List stock movements
// @Description Retrieves one item's receipt and issue history, newest first
// @Tags inventory
// @Produce  json
// @Param   itemID path int true "Item ID"
// @Success 200 {array} dto.MovementResponse
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to list movements"
// @Security BearerAuth
// @Router /inventory/items/{itemID}/movements [get]
func (h *inventoryHandler) listMovements(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	itemID, ok := parseIDParam(c, "itemID")
	if !ok {
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), itemID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		logger.Error("Failed to list movements", slog.Int64("item_id", itemID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements"})
		return
	}

	c.JSON(http.StatusOK, dto.ToMovementResponses(movements))
}

// recordReceipt godoc
// @Summary Record a stock receipt
// @Description Books incoming stock and the derived expense entry together
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   receipt body dto.RecordReceiptRequest true "Receipt details"
// @Success 201 {object} dto.StockChangeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to record receipt"
// @Security BearerAuth
// @Router /inventory/receipts [post]
func (h *inventoryHandler) recordReceipt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordReceipt", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	change, err := h.inventoryService.RecordReceipt(c.Request.Context(), req, creator)
	if err != nil {
		h.respondStockError(c, logger, err, "Failed to record receipt")
		return
	}

	logger.Info("Stock receipt recorded", slog.Int64("item_id", change.Item.ID), slog.Int64("movement_id", change.Movement.ID))
	c.JSON(http.StatusCreated, dto.ToStockChangeResponse(change))
}

// recordIssue godoc
// @Summary Record a stock issue
// @Description Books outgoing stock; quantity is clamped at zero
// @Tags inventory
// @Accept  json
// @Produce  json
// @Param   issue body dto.RecordIssueRequest true "Issue details"
// @Success 201 {object} dto.StockChangeResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Item not found"
// @Failure 500 {object} map[string]string "Failed to record issue"
// @Security BearerAuth
// @Router /inventory/issues [post]
func (h *inventoryHandler) recordIssue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordIssue", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creator, ok := middleware.GetUsernameFromContext(c)
	if !ok {
		logger.Error("Creator username not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	change, err := h.inventoryService.RecordIssue(c.Request.Context(), req, creator)
	if err != nil {
		h.respondStockError(c, logger, err, "Failed to record issue")
		return
	}

	logger.Info("Stock issue recorded", slog.Int64("item_id", change.Item.ID), slog.Int64("movement_id", change.Movement.ID))
	c.JSON(http.StatusCreated, dto.ToStockChangeResponse(change))
}

// respondStockError maps the shared receipt/issue failure modes to statuses.
func (h *inventoryHandler) respondStockError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
