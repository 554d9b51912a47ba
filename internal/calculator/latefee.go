package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// LateFee computes the late fee owed for daysLate days under policy.
// contributionDue is the base for percentage rules.
//
// Algorithm:
// - DAILY_FIXED: amount × daysLate
// - DAILY_PERCENTAGE: contributionDue × percent/100 × daysLate
// - TIER_BASED: for every day 1..daysLate add the per-day rate of the first
//   tier covering that day; uncovered days add nothing
//
// A disabled policy, a nil rule or daysLate <= 0 yields zero. The result is
// rounded to two places and never negative.
func LateFee(policy models.LateFeePolicy, contributionDue decimal.Decimal, daysLate int) decimal.Decimal {
	if !policy.Active() || daysLate <= 0 {
		return decimal.Zero
	}
	days := decimal.NewFromInt(int64(daysLate))

	var fee decimal.Decimal
	switch rule := policy.Rule.(type) {
	case models.DailyFixed:
		fee = rule.Amount.Mul(days)
	case models.DailyPercentage:
		fee = money.Percent(contributionDue, rule.Percent).Mul(days)
	case models.TierBased:
		fee = tierFee(rule.Tiers, contributionDue, daysLate)
	}
	return money.NonNegative(money.Round(fee))
}

func tierFee(tiers []models.LateFeeTier, contributionDue decimal.Decimal, daysLate int) decimal.Decimal {
	total := decimal.Zero
	for day := 1; day <= daysLate; day++ {
		for _, tier := range tiers {
			if !tier.Covers(day) {
				continue
			}
			total = total.Add(tierRate(tier, contributionDue))
			break
		}
	}
	return total
}

func tierRate(tier models.LateFeeTier, contributionDue decimal.Decimal) decimal.Decimal {
	if tier.IsPercentage {
		return money.Percent(contributionDue, tier.Amount)
	}
	return money.Round(tier.Amount)
}
