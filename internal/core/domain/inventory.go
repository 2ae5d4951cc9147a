package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementDirection marks an inventory movement as a receipt or an issue.
type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// InventoryItem is a stocked material. Quantity changes only through
// receipts and issues; an issue never drives quantity below zero.
type InventoryItem struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"minThreshold"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LowStock reports whether the on-hand quantity has fallen to or below the
// configured minimum threshold.
func (i InventoryItem) LowStock() bool {
	return i.Quantity.LessThanOrEqual(i.MinThreshold)
}

// Movement is one immutable inventory quantity change. Total is always
// computed server-side as Quantity multiplied by UnitPrice. Counterparty holds
// the supplier for receipts and the consuming project for issues.
type Movement struct {
	ID           int64             `json:"id"`
	ItemID       int64             `json:"itemID"`
	Direction    MovementDirection `json:"direction"`
	Quantity     decimal.Decimal   `json:"quantity"`
	UnitPrice    decimal.Decimal   `json:"unitPrice"`
	Total        decimal.Decimal   `json:"total"`
	Counterparty string            `json:"counterparty"`
	Date         time.Time         `json:"date"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// StockChange is the committed outcome of a receipt or issue: the item after
// the quantity adjustment plus the movement and ledger transaction created
// with it. All three rows are re-read after commit.
type StockChange struct {
	Item        InventoryItem `json:"item"`
	Movement    Movement      `json:"movement"`
	Transaction Transaction   `json:"transaction"`
}
