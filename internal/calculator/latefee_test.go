package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tiered(tiers ...models.LateFeeTier) models.LateFeePolicy {
	return models.LateFeePolicy{Enabled: true, Rule: models.TierBased{Tiers: tiers}}
}

func TestLateFee(t *testing.T) {
	tests := []struct {
		name     string
		policy   models.LateFeePolicy
		base     decimal.Decimal
		daysLate int
		want     string
	}{
		{
			name:     "daily fixed",
			policy:   models.LateFeePolicy{Enabled: true, Rule: models.DailyFixed{Amount: d("10")}},
			base:     d("200"),
			daysLate: 3,
			want:     "30.00",
		},
		{
			name:     "daily percentage of contribution",
			policy:   models.LateFeePolicy{Enabled: true, Rule: models.DailyPercentage{Percent: d("1.5")}},
			base:     d("200"),
			daysLate: 4,
			want:     "12.00",
		},
		{
			name: "tiers summed day by day",
			policy: tiered(
				models.LateFeeTier{StartDay: 1, EndDay: 5, Amount: d("10")},
				models.LateFeeTier{StartDay: 6, EndDay: 15, Amount: d("20")},
			),
			base:     d("200"),
			daysLate: 7,
			want:     "90.00",
		},
		{
			name: "open-ended last tier",
			policy: tiered(
				models.LateFeeTier{StartDay: 1, EndDay: 5, Amount: d("10")},
				models.LateFeeTier{StartDay: 6, EndDay: 15, Amount: d("20")},
				models.LateFeeTier{StartDay: 16, Amount: d("50")},
			),
			base:     d("200"),
			daysLate: 16,
			want:     "300.00",
		},
		{
			name: "percentage tier",
			policy: tiered(
				models.LateFeeTier{StartDay: 1, EndDay: 2, Amount: d("5"), IsPercentage: true},
			),
			base:     d("300"),
			daysLate: 2,
			want:     "30.00",
		},
		{
			name: "uncovered days add nothing",
			policy: tiered(
				models.LateFeeTier{StartDay: 3, EndDay: 4, Amount: d("10")},
			),
			base:     d("200"),
			daysLate: 10,
			want:     "20.00",
		},
		{
			name: "malformed tier never matches",
			policy: tiered(
				models.LateFeeTier{StartDay: 0, EndDay: 4, Amount: d("10")},
				models.LateFeeTier{StartDay: 8, EndDay: 5, Amount: d("10")},
			),
			base:     d("200"),
			daysLate: 10,
			want:     "0.00",
		},
		{
			name:     "disabled policy",
			policy:   models.LateFeePolicy{Enabled: false, Rule: models.DailyFixed{Amount: d("10")}},
			base:     d("200"),
			daysLate: 3,
			want:     "0.00",
		},
		{
			name:     "nil rule",
			policy:   models.LateFeePolicy{Enabled: true},
			base:     d("200"),
			daysLate: 3,
			want:     "0.00",
		},
		{
			name:     "not late",
			policy:   models.LateFeePolicy{Enabled: true, Rule: models.DailyFixed{Amount: d("10")}},
			base:     d("200"),
			daysLate: 0,
			want:     "0.00",
		},
		{
			name:     "negative days",
			policy:   models.LateFeePolicy{Enabled: true, Rule: models.DailyFixed{Amount: d("10")}},
			base:     d("200"),
			daysLate: -2,
			want:     "0.00",
		},
		{
			name:     "negative amount clamps to zero",
			policy:   models.LateFeePolicy{Enabled: true, Rule: models.DailyFixed{Amount: d("-10")}},
			base:     d("200"),
			daysLate: 2,
			want:     "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LateFee(tt.policy, tt.base, tt.daysLate)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestLateFee_TierDayAttribution(t *testing.T) {
	policy := tiered(
		models.LateFeeTier{StartDay: 1, EndDay: 5, Amount: d("10")},
		models.LateFeeTier{StartDay: 6, EndDay: 15, Amount: d("20")},
		models.LateFeeTier{StartDay: 16, Amount: d("50")},
	)
	base := d("200")

	// Each extra day adds exactly that day's tier rate.
	for day := 1; day <= 30; day++ {
		step := LateFee(policy, base, day).Sub(LateFee(policy, base, day-1))
		want := "10"
		switch {
		case day >= 16:
			want = "50"
		case day >= 6:
			want = "20"
		}
		assert.True(t, step.Equal(d(want)), "day %d added %s", day, step)
	}
}
