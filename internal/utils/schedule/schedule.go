// Package schedule expands a sale's financing plan into dated installment rows.
package schedule

import (
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
)

// AddMonthsClamped adds n calendar months to t, preserving the day-of-month
// but clamping to the last valid day of the resulting month. Day 31 plus one
// month in a 30-day month lands on day 30, and 2024-01-31 plus one month lands
// on 2024-02-29.
func AddMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// Build materializes a financing plan into exactly plan.Months installment
// rows, due dates ascending from plan.FirstDueDate in clamped monthly steps.
// All rows start unpaid; the sale reference is stamped when the owning sale
// transaction persists the batch.
func Build(plan domain.FinancingPlan, projectID int64, unitNo, buyer string) []domain.Installment {
	if plan.Months <= 0 {
		return nil
	}
	installments := make([]domain.Installment, 0, plan.Months)
	for i := 0; i < plan.Months; i++ {
		installments = append(installments, domain.Installment{
			ProjectID: projectID,
			UnitNo:    unitNo,
			Buyer:     buyer,
			Amount:    plan.MonthlyAmount,
			DueDate:   AddMonthsClamped(plan.FirstDueDate, i),
			Paid:      false,
		})
	}
	return installments
}
