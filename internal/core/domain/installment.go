package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one scheduled payment generated from a financed sale.
// UnitNo and Buyer are denormalized copies from the owning sale. The paid
// flag, once set, is never reset.
type Installment struct {
	ID        int64           `json:"id"`
	ProjectID int64           `json:"projectID"`
	SaleID    int64           `json:"saleID"`
	UnitNo    string          `json:"unitNo"`
	Buyer     string          `json:"buyer"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"dueDate"`
	Paid      bool            `json:"paid"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Overdue reports whether the installment is unpaid with a due date on or
// before the given day.
func (i Installment) Overdue(asOf time.Time) bool {
	return !i.Paid && !i.DueDate.After(asOf)
}

// InstallmentReminder records one notice for an overdue installment. The
// sweep appends one per overdue installment per run, without de-duplication.
type InstallmentReminder struct {
	ID            int64     `json:"id"`
	InstallmentID int64     `json:"installmentID"`
	SentAt        time.Time `json:"sentAt"`
	Note          string    `json:"note"`
}

// PaymentResult is the committed outcome of settling an installment: the
// installment as stored after the call and the revenue transaction recorded
// for it. A repeated settlement returns the unchanged installment alongside
// the freshly recorded transaction.
type PaymentResult struct {
	Installment Installment `json:"installment"`
	Transaction Transaction `json:"transaction"`
}
