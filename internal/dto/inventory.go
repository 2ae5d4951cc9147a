package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// CreateInventoryItemRequest defines the data needed to register a material.
// Stock always starts at zero; quantity changes only through receipts and
// issues.
type CreateInventoryItemRequest struct {
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit" binding:"required"`
	MinThreshold decimal.Decimal `json:"minThreshold"`
}

// RecordReceiptRequest defines the data for a stock receipt.
type RecordReceiptRequest struct {
	ItemID    int64           `json:"itemID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Supplier  string          `json:"supplier"`
	Date      time.Time       `json:"date" binding:"required"`
}

// RecordIssueRequest defines the data for a stock issue. Project names the
// consuming site the material leaves for.
type RecordIssueRequest struct {
	ItemID    int64           `json:"itemID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
	Project   string          `json:"project"`
	Date      time.Time       `json:"date" binding:"required"`
}

// InventoryItemResponse defines the data returned for an inventory item.
type InventoryItemResponse struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinThreshold decimal.Decimal `json:"minThreshold"`
	LowStock     bool            `json:"lowStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// MovementResponse defines the data returned for an inventory movement.
type MovementResponse struct {
	ID           int64           `json:"id"`
	ItemID       int64           `json:"itemID"`
	Direction    string          `json:"direction"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Total        decimal.Decimal `json:"total"`
	Counterparty string          `json:"counterparty"`
	Date         time.Time       `json:"date"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// StockChangeResponse defines the combined response for a receipt or issue.
type StockChangeResponse struct {
	Item        InventoryItemResponse `json:"item"`
	Movement    MovementResponse      `json:"movement"`
	Transaction TransactionResponse   `json:"transaction"`
}

// ToInventoryItemResponse converts a domain.InventoryItem to InventoryItemResponse DTO
func ToInventoryItemResponse(item *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		MinThreshold: item.MinThreshold,
		LowStock:     item.LowStock(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// ToInventoryItemResponses converts a slice of domain.InventoryItem to []InventoryItemResponse
func ToInventoryItemResponses(items []domain.InventoryItem) []InventoryItemResponse {
	responses := make([]InventoryItemResponse, len(items))
	for i, item := range items {
		responses[i] = ToInventoryItemResponse(&item)
	}
	return responses
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		ID:           m.ID,
		ItemID:       m.ItemID,
		Direction:    string(m.Direction),
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		Total:        m.Total,
		Counterparty: m.Counterparty,
		Date:         m.Date,
		CreatedAt:    m.CreatedAt,
	}
}

// ToMovementResponses converts a slice of domain.Movement to []MovementResponse
func ToMovementResponses(movements []domain.Movement) []MovementResponse {
	responses := make([]MovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = ToMovementResponse(&m)
	}
	return responses
}

// ToStockChangeResponse converts a domain.StockChange to StockChangeResponse DTO
func ToStockChangeResponse(sc *domain.StockChange) StockChangeResponse {
	return StockChangeResponse{
		Item:        ToInventoryItemResponse(&sc.Item),
		Movement:    ToMovementResponse(&sc.Movement),
		Transaction: ToTransactionResponse(&sc.Transaction),
	}
}
