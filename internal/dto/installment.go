package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// PayInstallmentRequest defines the data needed to settle an installment.
type PayInstallmentRequest struct {
	Date time.Time `json:"date" binding:"required"`
}

// CreateReminderRequest defines the optional note attached to a manually
// recorded reminder.
type CreateReminderRequest struct {
	Note string `json:"note"`
}

// InstallmentResponse defines the data returned for an installment.
type InstallmentResponse struct {
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

// ReminderResponse defines the data returned for an installment reminder.
type ReminderResponse struct {
	ID            int64     `json:"id"`
	InstallmentID int64     `json:"installmentID"`
	SentAt        time.Time `json:"sentAt"`
	Note          string    `json:"note"`
}

// PaymentResultResponse defines the combined response for a settlement.
type PaymentResultResponse struct {
	Installment InstallmentResponse `json:"installment"`
	Transaction TransactionResponse `json:"transaction"`
}

// ToInstallmentResponse converts a domain.Installment to InstallmentResponse DTO
func ToInstallmentResponse(inst *domain.Installment) InstallmentResponse {
	return InstallmentResponse{
		ID:        inst.ID,
		ProjectID: inst.ProjectID,
		SaleID:    inst.SaleID,
		UnitNo:    inst.UnitNo,
		Buyer:     inst.Buyer,
		Amount:    inst.Amount,
		DueDate:   inst.DueDate,
		Paid:      inst.Paid,
		PaidAt:    inst.PaidAt,
		CreatedAt: inst.CreatedAt,
	}
}

// ToInstallmentResponses converts a slice of domain.Installment to []InstallmentResponse
func ToInstallmentResponses(installments []domain.Installment) []InstallmentResponse {
	responses := make([]InstallmentResponse, len(installments))
	for i, inst := range installments {
		responses[i] = ToInstallmentResponse(&inst)
	}
	return responses
}

// ToReminderResponse converts a domain.InstallmentReminder to ReminderResponse DTO
func ToReminderResponse(r *domain.InstallmentReminder) ReminderResponse {
	return ReminderResponse{
		ID:            r.ID,
		InstallmentID: r.InstallmentID,
		SentAt:        r.SentAt,
		Note:          r.Note,
	}
}

// ToReminderResponses converts a slice of domain.InstallmentReminder to []ReminderResponse
func ToReminderResponses(reminders []domain.InstallmentReminder) []ReminderResponse {
	responses := make([]ReminderResponse, len(reminders))
	for i, r := range reminders {
		responses[i] = ToReminderResponse(&r)
	}
	return responses
}

// ToPaymentResultResponse converts a domain.PaymentResult to PaymentResultResponse DTO
func ToPaymentResultResponse(r *domain.PaymentResult) PaymentResultResponse {
	return PaymentResultResponse{
		Installment: ToInstallmentResponse(&r.Installment),
		Transaction: ToTransactionResponse(&r.Transaction),
	}
}
