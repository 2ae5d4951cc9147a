package schedule_test

import (
	"testing"
	"time"

	"github.com/karacadev/backoffice/internal/core/domain"
	"github.com/karacadev/backoffice/internal/utils/schedule"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain month step", day(2024, time.March, 15), 1, day(2024, time.April, 15)},
		{"jan 31 into leap february", day(2024, time.January, 31), 1, day(2024, time.February, 29)},
		{"jan 31 into non-leap february", day(2023, time.January, 31), 1, day(2023, time.February, 28)},
		{"day 31 into 30-day month", day(2024, time.March, 31), 1, day(2024, time.April, 30)},
		{"clamp does not stick for later months", day(2024, time.January, 31), 2, day(2024, time.March, 31)},
		{"year rollover", day(2024, time.November, 30), 3, day(2025, time.February, 28)},
		{"zero months", day(2024, time.June, 10), 0, day(2024, time.June, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.AddMonthsClamped(tt.start, tt.months)
			assert.True(t, tt.want.Equal(got), "want %s got %s", tt.want, got)
		})
	}
}

func TestBuildSchedule(t *testing.T) {
	plan := domain.FinancingPlan{
		DownPayment:   decimal.NewFromInt(2000),
		MonthlyAmount: decimal.NewFromInt(1000),
		Months:        6,
		FirstDueDate:  day(2024, time.January, 31),
	}

	installments := schedule.Build(plan, 7, "A-12", "J. Doe")
	require.Len(t, installments, 6)

	wantDueDates := []time.Time{
		day(2024, time.January, 31),
		day(2024, time.February, 29),
		day(2024, time.March, 31),
		day(2024, time.April, 30),
		day(2024, time.May, 31),
		day(2024, time.June, 30),
	}

	for i, inst := range installments {
		assert.True(t, wantDueDates[i].Equal(inst.DueDate), "installment %d: want due %s got %s", i, wantDueDates[i], inst.DueDate)
		assert.True(t, inst.Amount.Equal(decimal.NewFromInt(1000)), "installment %d amount", i)
		assert.False(t, inst.Paid, "installment %d must start unpaid", i)
		assert.Equal(t, int64(7), inst.ProjectID)
		assert.Equal(t, "A-12", inst.UnitNo)
		assert.Equal(t, "J. Doe", inst.Buyer)
	}

	// Due dates ascend.
	for i := 1; i < len(installments); i++ {
		assert.True(t, installments[i-1].DueDate.Before(installments[i].DueDate), "due dates must ascend")
	}
}

func TestBuildScheduleEmptyPlans(t *testing.T) {
	assert.Nil(t, schedule.Build(domain.FinancingPlan{Months: 0}, 1, "", ""))
	assert.Nil(t, schedule.Build(domain.FinancingPlan{Months: -3}, 1, "", ""))
}
