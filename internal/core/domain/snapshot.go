package domain

import "github.com/shopspring/decimal"

// Snapshot is the dashboard aggregate served to the client on load. All
// figures are computed from the ledger and inventory tables in one pass.
type Snapshot struct {
	TotalIncome         decimal.Decimal `json:"totalIncome"`
	TotalExpense        decimal.Decimal `json:"totalExpense"`
	Balance             decimal.Decimal `json:"balance"`
	TransactionCount    int             `json:"transactionCount"`
	PendingApprovals    int             `json:"pendingApprovals"`
	ProjectCount        int             `json:"projectCount"`
	InventoryItemCount  int             `json:"inventoryItemCount"`
	OverdueInstallments int             `json:"overdueInstallments"`
	LowStockItems       []InventoryItem `json:"lowStockItems"`
}

// ProjectSnapshot aggregates everything known about one project: its costs,
// sales and installment collection progress.
type ProjectSnapshot struct {
	Project      Project         `json:"project"`
	Costs        []ProjectCost   `json:"costs"`
	Sales        []ProjectSale   `json:"sales"`
	Installments []Installment   `json:"installments"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalSales   decimal.Decimal `json:"totalSales"`
	Collected    decimal.Decimal `json:"collected"`
	Outstanding  decimal.Decimal `json:"outstanding"`
}
