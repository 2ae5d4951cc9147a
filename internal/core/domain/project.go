package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project is a real-estate development that costs, sales and installments
// hang off. Deleting a project cascades to all of them.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Floors    int       `json:"floors"`
	Units     int       `json:"units"`
	CreatedAt time.Time `json:"createdAt"`
}

// CostCategory classifies a project cost. CategoryOther requires a custom
// label supplied by the caller.
type CostCategory string

const (
	CategoryConstruction CostCategory = "construction"
	CategoryOperation    CostCategory = "operation"
	CategoryExpense      CostCategory = "expense"
	CategoryOther        CostCategory = "other"
)

// Label returns the human-readable name for the category, preferring the
// custom label when the category is CategoryOther.
func (c CostCategory) Label(custom string) string {
	if c == CategoryOther && custom != "" {
		return custom
	}
	switch c {
	case CategoryConstruction:
		return "Construction"
	case CategoryOperation:
		return "Operation"
	case CategoryExpense:
		return "Expense"
	default:
		return "Other"
	}
}

// ProjectCost is one cost posted to a project, immutable after creation.
type ProjectCost struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"projectID"`
	Category    CostCategory    `json:"category"`
	CustomLabel string          `json:"customLabel,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ProjectSale records the sale of one unit, immutable after creation.
type ProjectSale struct {
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

// FinancingPlan describes the optional installment terms attached to a sale.
// When present, the immediate cash amount of the sale is the down payment and
// the remainder is materialized as a schedule of monthly installments.
type FinancingPlan struct {
	DownPayment   decimal.Decimal `json:"downPayment"`
	MonthlyAmount decimal.Decimal `json:"monthlyAmount"`
	Months        int             `json:"months"`
	FirstDueDate  time.Time       `json:"firstDueDate"`
}

// CostResult is the committed outcome of posting a project cost: the cost row
// and the expense transaction created with it.
type CostResult struct {
	Cost        ProjectCost `json:"cost"`
	Transaction Transaction `json:"transaction"`
}

// SaleResult is the committed outcome of a sale: the sale row, the revenue
// transaction for the immediate cash amount, and for financed sales the full
// installment schedule. Installments is nil when no plan was given.
type SaleResult struct {
	Sale         ProjectSale   `json:"sale"`
	Transaction  Transaction   `json:"transaction"`
	Installments []Installment `json:"installments,omitempty"`
}
