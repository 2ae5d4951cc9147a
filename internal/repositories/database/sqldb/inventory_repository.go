package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/apperrors"
	"github.com/karacadev/backoffice/internal/core/domain"
	portsrepo "github.com/karacadev/backoffice/internal/core/ports/repositories"
	"github.com/karacadev/backoffice/internal/platform/storage"
)

const (
	itemColumns     = `id, name, unit, quantity, min_threshold, created_at, updated_at`
	movementColumns = `id, item_id, direction, quantity, unit_price, total, counterparty, date, created_at`
)

type SQLInventoryRepository struct {
	store *storage.Store
}

// newSQLInventoryRepository creates a new repository for inventory data.
func newSQLInventoryRepository(store *storage.Store) portsrepo.InventoryRepositoryFacade {
	return &SQLInventoryRepository{store: store}
}

// Ensure implementation matches interface
var _ portsrepo.InventoryRepositoryFacade = (*SQLInventoryRepository)(nil)

func scanItem(row rowScanner, item *domain.InventoryItem) error {
	return row.Scan(
		&item.ID,
		&item.Name,
		&item.Unit,
		&item.Quantity,
		&item.MinThreshold,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
}

func scanMovement(row rowScanner, movement *domain.Movement) error {
	return row.Scan(
		&movement.ID,
		&movement.ItemID,
		&movement.Direction,
		&movement.Quantity,
		&movement.UnitPrice,
		&movement.Total,
		&movement.Counterparty,
		&movement.Date,
		&movement.CreatedAt,
	)
}

// findItemByID reads one item through q. With forUpdate the row is locked for
// the remainder of the enclosing transaction on backends that support it.
func findItemByID(ctx context.Context, q storage.Querier, itemID int64, forUpdate bool) (*domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = ?`
	if forUpdate {
		query += q.LockSuffix()
	}

	var item domain.InventoryItem
	err := scanItem(q.QueryRowContext(ctx, query, itemID), &item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find inventory item %d: %w", itemID, err)
	}
	return &item, nil
}

func findMovementByID(ctx context.Context, q storage.Querier, movementID int64) (*domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE id = ?`

	var movement domain.Movement
	err := scanMovement(q.QueryRowContext(ctx, query, movementID), &movement)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find movement %d: %w", movementID, err)
	}
	return &movement, nil
}

// CreateItem inserts a new inventory item and returns its id.
func (r *SQLInventoryRepository) CreateItem(ctx context.Context, item domain.InventoryItem) (int64, error) {
	query := `
		INSERT INTO inventory_items (name, unit, quantity, min_threshold, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	id, err := r.store.InsertID(ctx, query,
		item.Name,
		item.Unit,
		item.Quantity,
		item.MinThreshold,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if r.store.IsDuplicate(err) {
			return 0, fmt.Errorf("%w: inventory item %s", apperrors.ErrDuplicate, item.Name)
		}
		return 0, fmt.Errorf("failed to insert inventory item: %w", err)
	}
	return id, nil
}

// FindItemByID retrieves a single inventory item by its ID.
func (r *SQLInventoryRepository) FindItemByID(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	return findItemByID(ctx, r.store, itemID, false)
}

// ListItems retrieves all inventory items ordered by name.
func (r *SQLInventoryRepository) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items ORDER BY name ASC`

	rows, err := r.store.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.InventoryItem, 0)
	for rows.Next() {
		var item domain.InventoryItem
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan inventory item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory item rows: %w", err)
	}
	return items, nil
}

// ListMovementsByItem retrieves an item's movement history, newest first.
func (r *SQLInventoryRepository) ListMovementsByItem(ctx context.Context, itemID int64) ([]domain.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM inventory_movements WHERE item_id = ? ORDER BY date DESC, id DESC`

	rows, err := r.store.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movements for item %d: %w", itemID, err)
	}
	defer rows.Close()

	movements := make([]domain.Movement, 0)
	for rows.Next() {
		var movement domain.Movement
		if err := scanMovement(rows, &movement); err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		movements = append(movements, movement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

// DeleteItem removes an item; the schema cascades the delete to its movements.
func (r *SQLInventoryRepository) DeleteItem(ctx context.Context, itemID int64) error {
	query := `DELETE FROM inventory_items WHERE id = ?`

	res, err := r.store.ExecContext(ctx, query, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item %d: %w", itemID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for item %d: %w", itemID, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: inventory item %d", apperrors.ErrNotFound, itemID)
	}
	return nil
}

// SaveMovement applies a receipt or issue atomically: it locks the item,
// adjusts the on-hand quantity, inserts the movement row and its derived
// ledger transaction, then re-reads all three rows so callers get canonical
// stored values. An issue larger than the current stock leaves the quantity
// at zero rather than going negative.
func (r *SQLInventoryRepository) SaveMovement(ctx context.Context, movement domain.Movement, txn domain.Transaction) (*domain.StockChange, error) {
	var change *domain.StockChange

	err := r.store.WithTx(ctx, func(tx *storage.Tx) error {
		item, err := findItemByID(ctx, tx, movement.ItemID, true)
		if err != nil {
			return err
		}

		newQuantity := item.Quantity.Add(movement.Quantity)
		if movement.Direction == domain.MovementOut {
			newQuantity = item.Quantity.Sub(movement.Quantity)
			if newQuantity.IsNegative() {
				newQuantity = decimal.Zero
			}
		}

		updateQuery := `UPDATE inventory_items SET quantity = ?, updated_at = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, updateQuery, newQuantity, movement.CreatedAt, item.ID); err != nil {
			return fmt.Errorf("failed to update quantity for item %d: %w", item.ID, err)
		}

		insertQuery := `
			INSERT INTO inventory_movements (item_id, direction, quantity, unit_price, total, counterparty, date, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		movementID, err := tx.InsertID(ctx, insertQuery,
			movement.ItemID,
			string(movement.Direction),
			movement.Quantity,
			movement.UnitPrice,
			movement.Total,
			movement.Counterparty,
			movement.Date,
			movement.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert movement: %w", err)
		}

		txnID, err := insertTransaction(ctx, tx, txn)
		if err != nil {
			return err
		}

		storedItem, err := findItemByID(ctx, tx, item.ID, false)
		if err != nil {
			return err
		}
		storedMovement, err := findMovementByID(ctx, tx, movementID)
		if err != nil {
			return err
		}
		storedTxn, err := findTransactionByID(ctx, tx, txnID)
		if err != nil {
			return err
		}

		change = &domain.StockChange{
			Item:        *storedItem,
			Movement:    *storedMovement,
			Transaction: *storedTxn,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}
