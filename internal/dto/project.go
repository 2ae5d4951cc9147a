package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// CreateProjectRequest defines the data needed to register a project.
type CreateProjectRequest struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
	Floors   int    `json:"floors" binding:"omitempty,gte=0"`
	Units    int    `json:"units" binding:"omitempty,gte=0"`
}

// CreateProjectCostRequest defines the data needed to post a cost to a
// project. CustomLabel is required when the category is "other".
type CreateProjectCostRequest struct {
	Category    string          `json:"category" binding:"required,oneof=construction operation expense other"`
	CustomLabel string          `json:"customLabel"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Date        time.Time       `json:"date" binding:"required"`
	Note        string          `json:"note"`
}

// FinancingPlanRequest defines the optional installment terms of a sale.
type FinancingPlanRequest struct {
	DownPayment   decimal.Decimal `json:"downPayment"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount" binding:"required"`
	Months        int             `json:"months" binding:"required,gt=0"`
	FirstDueDate  time.Time       `json:"firstDueDate" binding:"required"`
}

// CreateProjectSaleRequest defines the data needed to record a unit sale.
type CreateProjectSaleRequest struct {
	UnitNo        string                `json:"unitNo" binding:"required"`
	Buyer         string                `json:"buyer" binding:"required"`
	Price         decimal.Decimal       `json:"price" binding:"required"`
	Date          time.Time             `json:"date" binding:"required"`
	Terms         string                `json:"terms"`
	Area          string                `json:"area"`
	PaymentMethod string                `json:"paymentMethod"`
	Plan          *FinancingPlanRequest `json:"plan,omitempty"`
}

// ProjectResponse defines the data returned for a project.
type ProjectResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Floors    int       `json:"floors"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectCostResponse defines the data returned for a project cost.
type ProjectCostResponse struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"projectID"`
	Category    string          `json:"category"`
	CustomLabel string          `json:"customLabel,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProjectSaleResponse defines the data returned for a unit sale.
type ProjectSaleResponse struct {
	ID            int64           `json:"id"`
	ProjectID     int64           `json:"projectID"`
	UnitNo        string          `json:"unitNo"`
	Buyer         string          `json:"buyer"`
	Price         decimal.Decimal `json:"price"`
	Date          time.Time       `json:"date"`
	Terms         string          `json:"terms"`
	Area          string          `json:"area"`
	PaymentMethod string          `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CostResultResponse defines the combined response for posting a cost.
type CostResultResponse struct {
	Cost        ProjectCostResponse `json:"cost"`
	Transaction TransactionResponse `json:"transaction"`
}

// SaleResultResponse defines the combined response for recording a sale.
type SaleResultResponse struct {
	Sale         ProjectSaleResponse   `json:"sale"`
	Transaction  TransactionResponse   `json:"transaction"`
	Installments []InstallmentResponse `json:"installments,omitempty"`
}

// ToProjectResponse converts a domain.Project to ProjectResponse DTO
func ToProjectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:        p.ID,
		Name:      p.Name,
		Location:  p.Location,
		Floors:    p.Floors,
		Units:     p.Units,
		CreatedAt: p.CreatedAt,
	}
}

// ToProjectResponses converts a slice of domain.Project to []ProjectResponse
func ToProjectResponses(projects []domain.Project) []ProjectResponse {
	responses := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		responses[i] = ToProjectResponse(&p)
	}
	return responses
}

// ToProjectCostResponse converts a domain.ProjectCost to ProjectCostResponse DTO
func ToProjectCostResponse(c *domain.ProjectCost) ProjectCostResponse {
	return ProjectCostResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		Category:    string(c.Category),
		CustomLabel: c.CustomLabel,
		Amount:      c.Amount,
		Date:        c.Date,
		Note:        c.Note,
		CreatedAt:   c.CreatedAt,
	}
}

// ToProjectCostResponses converts a slice of domain.ProjectCost to []ProjectCostResponse
func ToProjectCostResponses(costs []domain.ProjectCost) []ProjectCostResponse {
	responses := make([]ProjectCostResponse, len(costs))
	for i, c := range costs {
		responses[i] = ToProjectCostResponse(&c)
	}
	return responses
}

// ToProjectSaleResponse converts a domain.ProjectSale to ProjectSaleResponse DTO
func ToProjectSaleResponse(s *domain.ProjectSale) ProjectSaleResponse {
	return ProjectSaleResponse{
		ID:            s.ID,
		ProjectID:     s.ProjectID,
		UnitNo:        s.UnitNo,
		Buyer:         s.Buyer,
		Price:         s.Price,
		Date:          s.Date,
		Terms:         s.Terms,
		Area:          s.Area,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt,
	}
}

// ToProjectSaleResponses converts a slice of domain.ProjectSale to []ProjectSaleResponse
func ToProjectSaleResponses(sales []domain.ProjectSale) []ProjectSaleResponse {
	responses := make([]ProjectSaleResponse, len(sales))
	for i, s := range sales {
		responses[i] = ToProjectSaleResponse(&s)
	}
	return responses
}

// ToCostResultResponse converts a domain.CostResult to CostResultResponse DTO
func ToCostResultResponse(r *domain.CostResult) CostResultResponse {
	return CostResultResponse{
		Cost:        ToProjectCostResponse(&r.Cost),
		Transaction: ToTransactionResponse(&r.Transaction),
	}
}

// ToSaleResultResponse converts a domain.SaleResult to SaleResultResponse DTO
func ToSaleResultResponse(r *domain.SaleResult) SaleResultResponse {
	resp := SaleResultResponse{
		Sale:        ToProjectSaleResponse(&r.Sale),
		Transaction: ToTransactionResponse(&r.Transaction),
	}
	if len(r.Installments) > 0 {
		resp.Installments = ToInstallmentResponses(r.Installments)
	}
	return resp
}
