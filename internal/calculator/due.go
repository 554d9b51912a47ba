package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// DueInput is everything ComputeDue needs for one member in one period.
type DueInput struct {
	Group  *models.Group
	Member *models.Member

	// PeriodStart is the active period's start date, or nil when unknown.
	PeriodStart *time.Time

	// AsOf is the observation or submission date the late fee is measured at.
	AsOf time.Time
}

// DueSummary is the output of ComputeDue.
type DueSummary struct {
	Due      models.Dues
	DueDate  time.Time
	DaysLate int
}

// Total is the rounded sum of every due category.
func (s DueSummary) Total() decimal.Decimal {
	return s.Due.Total()
}

// PeriodsPerYear is the number of collection periods in a year for f.
func PeriodsPerYear(f models.Frequency) int64 {
	switch f {
	case models.FrequencyWeekly:
		return 52
	case models.FrequencyFortnightly:
		return 26
	case models.FrequencyYearly:
		return 1
	default:
		return 12
	}
}

// ComputeDue computes what a member owes in the active period.
//
// The result depends only on the input, so calling it twice with the same
// input yields identical figures.
func ComputeDue(in DueInput) (DueSummary, error) {
	g, m := in.Group, in.Member

	dueDate, err := DueDate(g.Schedule, in.PeriodStart, in.AsOf)
	if err != nil {
		return DueSummary{}, err
	}
	daysLate := DaysLate(dueDate, in.AsOf)

	due := models.Dues{
		Contribution: money.Round(g.MonthlyContribution),
		Interest:     Interest(m.LoanBalance, g.InterestRate, g.Schedule.Frequency),
	}
	if g.LoanInsurance.Enabled && m.LoanBalance.IsPositive() {
		due.LoanInsurance = money.Percent(m.LoanBalance, g.LoanInsurance.RatePercent)
	}
	if g.SocialFund.Enabled {
		due.SocialFund = money.Round(g.SocialFund.PerFamilyMember.Mul(decimal.NewFromInt(int64(m.FamilySize))))
	}
	due.LateFee = LateFee(g.LateFee, due.Contribution, daysLate)

	return DueSummary{Due: due, DueDate: dueDate, DaysLate: daysLate}, nil
}

// Interest is loanBalance × annualRate/100 / periodsPerYear, rounded.
// It is zero when there is no loan.
func Interest(loanBalance, annualRate decimal.Decimal, f models.Frequency) decimal.Decimal {
	if !loanBalance.IsPositive() {
		return decimal.Zero
	}
	annual := loanBalance.Mul(annualRate).Div(decimal.NewFromInt(100))
	return money.Round(annual.Div(decimal.NewFromInt(PeriodsPerYear(f))))
}

// RefreshLateFee re-derives the late fee of an existing contribution from a
// fresh summary, leaving the other dues as they were fixed at creation.
// The late fee due never drops below what has already been paid toward it.
func RefreshLateFee(c *models.MemberContribution, s DueSummary) {
	lateFee := s.Due.LateFee
	if lateFee.LessThan(c.Paid.LateFee) {
		lateFee = c.Paid.LateFee
	}
	c.Due.LateFee = lateFee
	c.DueDate = s.DueDate
	c.DaysLate = s.DaysLate
	Settle(c)
}

// Settle recomputes TotalPaid, Remaining and Status of c from its buckets.
func Settle(c *models.MemberContribution) {
	c.TotalPaid = c.Paid.Collected()
	c.Remaining = money.NonNegative(money.Round(c.Due.Total().Sub(c.TotalPaid)))
	c.Status = ContributionStatus(c.Due, c.Paid, c.DaysLate)
}
