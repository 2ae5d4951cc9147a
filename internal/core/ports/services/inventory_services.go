package services

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/dto"
)

// InventoryReaderSvc defines read operations for inventory data
type InventoryReaderSvc interface {
	// GetItemByID retrieves a specific inventory item by its ID.
	GetItemByID(ctx context.Context, itemID int64) (*domain.InventoryItem, error)

	// ListItems retrieves all inventory items.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)

	// ListMovements retrieves the movement history of one item.
	ListMovements(ctx context.Context, itemID int64) ([]domain.Movement, error)
}

// InventoryWriterSvc defines write operations for inventory items
type InventoryWriterSvc interface {
	// CreateItem registers a new material with zero opening stock.
	CreateItem(ctx context.Context, req dto.CreateInventoryItemRequest) (*domain.InventoryItem, error)

	// DeleteItem removes an item and, by cascade, its movement history.
	DeleteItem(ctx context.Context, itemID int64) error
}

// StockSvc defines the compound receipt and issue operations
type StockSvc interface {
	// RecordReceipt books incoming stock: quantity increase, movement row and
	// derived expense transaction committed together.
	RecordReceipt(ctx context.Context, req dto.RecordReceiptRequest, creator string) (*domain.StockChange, error)

	// RecordIssue books outgoing stock the same way; the item quantity is
	// clamped at zero rather than going negative.
	RecordIssue(ctx context.Context, req dto.RecordIssueRequest, creator string) (*domain.StockChange, error)
}

// InventorySvcFacade combines all inventory-related service interfaces
// This is a facade for clients that need access to all operations
type InventorySvcFacade interface {
	InventoryReaderSvc
	InventoryWriterSvc
	StockSvc
}
