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
)

// inventoryService provides item management and the receipt/issue flows.
type inventoryService struct {
	inventoryRepo portsrepo.InventoryRepositoryFacade
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(inventoryRepo portsrepo.InventoryRepositoryFacade) portssvc.InventorySvcFacade {
	return &inventoryService{inventoryRepo: inventoryRepo}
}

// Ensure inventoryService implements the portssvc.InventorySvcFacade interface
var _ portssvc.InventorySvcFacade = (*inventoryService)(nil)

// CreateItem registers a new material. Stock always opens at zero; the first
// receipt brings quantity up.
func (s *inventoryService) CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error) {
	if req.MinThreshold.IsNegative() {
		return nil, fmt.Errorf("%w: minimum threshold cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	item := domain.InventoryItem{
		Name:         req.Name,
		Unit:         req.Unit,
		Quantity:     decimal.Zero,
		MinThreshold: req.MinThreshold,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	id, err := s.inventoryRepo.CreateItem(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	return s.inventoryRepo.FindItemByID(ctx, id)
}

// GetItemByID retrieves a single inventory item.
func (s *inventoryService) GetItemByID(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	return s.inventoryRepo.FindItemByID(ctx, itemID)
}

// ListItems retrieves all inventory items.
func (s *inventoryService) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	return s.inventoryRepo.ListItems(ctx)
}

// ListMovements retrieves the movement history of one item.
func (s *inventoryService) ListMovements(ctx context.Context, itemID int64) ([]domain.Movement, error) {
	return s.inventoryRepo.ListMovementsByItem(ctx, itemID)
}

// DeleteItem removes an item and, by cascade, its movement history.
func (s *inventoryService) DeleteItem(ctx context.Context, itemID int64) error {
	return s.inventoryRepo.DeleteItem(ctx, itemID)
}

// RecordReceipt books incoming stock. The movement total is always computed
// server-side from quantity and unit price, and the derived expense entry is
// committed in the same database transaction as the quantity change.
func (s *inventoryService) RecordReceipt(ctx context.Context, req dto.RecordReceiptRequest, creator string) (*domain.StockChange, error) {
	item, err := s.validateStockRequest(ctx, req.ItemID, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := req.Quantity.Mul(req.UnitPrice)

	movement := domain.Movement{
		ItemID:       req.ItemID,
		Direction:    domain.MovementIn,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Total:        total,
		Counterparty: req.Supplier,
		Date:         req.Date,
		CreatedAt:    now,
	}

	description := fmt.Sprintf("Stock receipt: %s %s %s @ %s",
		utils.FormatQuantity(req.Quantity), item.Unit, item.Name, utils.FormatAmount(req.UnitPrice))
	if req.Supplier != "" {
		description += " from " + req.Supplier
	}

	txn := domain.Transaction{
		Type:        domain.Expense,
		Amount:      total,
		Description: description,
		Date:        req.Date,
		Approved:    true,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	change, err := s.inventoryRepo.SaveMovement(ctx, movement, txn)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record receipt", slog.Int64("item_id", req.ItemID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record receipt: %w", err)
	}
	return change, nil
}

// RecordIssue books outgoing stock. The item quantity is clamped at zero by
// the repository rather than rejecting an issue that exceeds on-hand stock.
func (s *inventoryService) RecordIssue(ctx context.Context, req dto.RecordIssueRequest, creator string) (*domain.StockChange, error) {
	item, err := s.validateStockRequest(ctx, req.ItemID, req.Quantity, req.UnitPrice)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	total := req.Quantity.Mul(req.UnitPrice)

	movement := domain.Movement{
		ItemID:       req.ItemID,
		Direction:    domain.MovementOut,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		Total:        total,
		Counterparty: req.Project,
		Date:         req.Date,
		CreatedAt:    now,
	}

	description := fmt.Sprintf("Stock issue: %s %s %s",
		utils.FormatQuantity(req.Quantity), item.Unit, item.Name)
	if req.Project != "" {
		description += " to " + req.Project
	}

	txn := domain.Transaction{
		Type:        domain.Expense,
		Amount:      total,
		Description: description,
		Date:        req.Date,
		Approved:    true,
		CreatedBy:   creator,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	change, err := s.inventoryRepo.SaveMovement(ctx, movement, txn)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record issue", slog.Int64("item_id", req.ItemID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to record issue: %w", err)
	}
	return change, nil
}

// validateStockRequest checks the shared receipt/issue parameters and
// resolves the item so the derived ledger description can name it.
func (s *inventoryService) validateStockRequest(ctx context.Context, itemID int64, quantity, unitPrice decimal.Decimal) (*domain.InventoryItem, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: unit price must be positive", apperrors.ErrValidation)
	}

	item, err := s.inventoryRepo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return item, nil
}
