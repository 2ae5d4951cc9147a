package repositories

import (
	"context"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// InventoryReader defines read operations for inventory data
type InventoryReader interface {
	// FindItemByID retrieves a specific inventory item by its unique identifier.
	FindItemByID(ctx context.Context, itemID int64) (*domain.InventoryItem, error)

	// ListItems retrieves all inventory items ordered by name.
	ListItems(ctx context.Context) ([]domain.InventoryItem, error)

	// ListMovementsByItem retrieves the movement history of one item, newest first.
	ListMovementsByItem(ctx context.Context, itemID int64) ([]domain.Movement, error)
}

// InventoryWriter defines write operations for inventory items
type InventoryWriter interface {
	// CreateItem persists a new inventory item and returns its generated id.
	// The canonical row is read back with FindItemByID.
	CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error)

	// DeleteItem removes an item; its movements are removed by cascade.
	DeleteItem(ctx context.Context, itemID int64) error
}

// MovementWriter defines the compound write shared by receipts and issues
type MovementWriter interface {
	// SaveMovement adjusts the item quantity, inserts the movement and its
	// derived ledger transaction, and re-reads all three rows, all inside one
	// database transaction. Issues clamp the resulting quantity at zero.
	SaveMovement(ctx context.Context, movement domain.Movement, txn domain.Transaction) (*domain.StockChange, error)
}

// InventoryRepositoryFacade combines all inventory-related repository interfaces
// This is a facade for clients that need access to all operations
type InventoryRepositoryFacade interface {
	InventoryReader
	InventoryWriter
	MovementWriter
}
