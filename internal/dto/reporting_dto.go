package dto

import (
	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// SnapshotResponse defines the dashboard aggregate returned on client load.
type SnapshotResponse struct {
	TotalIncome         decimal.Decimal         `json:"totalIncome"`
	TotalExpense        decimal.Decimal         `json:"totalExpense"`
	Balance             decimal.Decimal         `json:"balance"`
	TransactionCount    int                     `json:"transactionCount"`
	PendingApprovals    int                     `json:"pendingApprovals"`
	ProjectCount        int                     `json:"projectCount"`
	InventoryItemCount  int                     `json:"inventoryItemCount"`
	OverdueInstallments int                     `json:"overdueInstallments"`
	LowStockItems       []InventoryItemResponse `json:"lowStockItems"`
}

// ProjectSnapshotResponse defines everything returned for one project's
// detail view.
type ProjectSnapshotResponse struct {
	Project      ProjectResponse       `json:"project"`
	Costs        []ProjectCostResponse `json:"costs"`
	Sales        []ProjectSaleResponse `json:"sales"`
	Installments []InstallmentResponse `json:"installments"`
	TotalCost    decimal.Decimal       `json:"totalCost"`
	TotalSales   decimal.Decimal       `json:"totalSales"`
	Collected    decimal.Decimal       `json:"collected"`
	Outstanding  decimal.Decimal       `json:"outstanding"`
}

// ToSnapshotResponse converts a domain.Snapshot to SnapshotResponse DTO
func ToSnapshotResponse(s *domain.Snapshot) SnapshotResponse {
	return SnapshotResponse{
		TotalIncome:         s.TotalIncome,
		TotalExpense:        s.TotalExpense,
		Balance:             s.Balance,
		TransactionCount:    s.TransactionCount,
		PendingApprovals:    s.PendingApprovals,
		ProjectCount:        s.ProjectCount,
		InventoryItemCount:  s.InventoryItemCount,
		OverdueInstallments: s.OverdueInstallments,
		LowStockItems:       ToInventoryItemResponses(s.LowStockItems),
	}
}

// ToProjectSnapshotResponse converts a domain.ProjectSnapshot to ProjectSnapshotResponse DTO
func ToProjectSnapshotResponse(s *domain.ProjectSnapshot) ProjectSnapshotResponse {
	return ProjectSnapshotResponse{
		Project:      ToProjectResponse(&s.Project),
		Costs:        ToProjectCostResponses(s.Costs),
		Sales:        ToProjectSaleResponses(s.Sales),
		Installments: ToInstallmentResponses(s.Installments),
		TotalCost:    s.TotalCost,
		TotalSales:   s.TotalSales,
		Collected:    s.Collected,
		Outstanding:  s.Outstanding,
	}
}
