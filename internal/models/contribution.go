package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionStatus is the payment state of a MemberContribution.
type ContributionStatus string

const (
	StatusPending ContributionStatus = "PENDING"
	StatusPartial ContributionStatus = "PARTIAL"
	StatusPaid    ContributionStatus = "PAID"
	StatusOverdue ContributionStatus = "OVERDUE"
)

// Valid reports whether s is a known status.
func (s ContributionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// Dues are the amounts a member owes in one period.
// Field order is the payment priority order.
type Dues struct {
	Contribution  decimal.Decimal `json:"contribution"`
	Interest      decimal.Decimal `json:"interest"`
	LateFee       decimal.Decimal `json:"late_fee"`
	SocialFund    decimal.Decimal `json:"social_fund"`
	LoanInsurance decimal.Decimal `json:"loan_insurance"`
}

// Total is the rounded sum of all dues.
func (d Dues) Total() decimal.Decimal {
	return roundedSum(d.Contribution, d.Interest, d.LateFee, d.SocialFund, d.LoanInsurance)
}

// Buckets are the amounts paid into each category, in priority order.
// LoanPrincipal is kept apart from period collections.
type Buckets struct {
	Contribution  decimal.Decimal `json:"contribution"`
	Interest      decimal.Decimal `json:"interest"`
	LateFee       decimal.Decimal `json:"late_fee"`
	SocialFund    decimal.Decimal `json:"social_fund"`
	LoanInsurance decimal.Decimal `json:"loan_insurance"`
	LoanPrincipal decimal.Decimal `json:"loan_principal"`
}

// Collected is the rounded sum of every bucket except LoanPrincipal.
func (b Buckets) Collected() decimal.Decimal {
	return roundedSum(b.Contribution, b.Interest, b.LateFee, b.SocialFund, b.LoanInsurance)
}

// Total is the rounded sum of every bucket including LoanPrincipal.
func (b Buckets) Total() decimal.Decimal {
	return roundedSum(b.Collected(), b.LoanPrincipal)
}

// Add returns b + o bucket by bucket.
func (b Buckets) Add(o Buckets) Buckets {
	return Buckets{
		Contribution:  roundedSum(b.Contribution, o.Contribution),
		Interest:      roundedSum(b.Interest, o.Interest),
		LateFee:       roundedSum(b.LateFee, o.LateFee),
		SocialFund:    roundedSum(b.SocialFund, o.SocialFund),
		LoanInsurance: roundedSum(b.LoanInsurance, o.LoanInsurance),
		LoanPrincipal: roundedSum(b.LoanPrincipal, o.LoanPrincipal),
	}
}

// Sub returns b - o bucket by bucket.
func (b Buckets) Sub(o Buckets) Buckets {
	return b.Add(Buckets{
		Contribution:  o.Contribution.Neg(),
		Interest:      o.Interest.Neg(),
		LateFee:       o.LateFee.Neg(),
		SocialFund:    o.SocialFund.Neg(),
		LoanInsurance: o.LoanInsurance.Neg(),
		LoanPrincipal: o.LoanPrincipal.Neg(),
	})
}

// MemberContribution is what one member owes and has paid in one period.
type MemberContribution struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	PeriodID string
	MemberID string

	Due  Dues
	Paid Buckets

	// TotalPaid excludes loan principal.
	TotalPaid decimal.Decimal

	// Remaining is max(0, Due.Total() - TotalPaid).
	Remaining decimal.Decimal

	// Status is the locally computed status.
	Status ContributionStatus

	// AuthoritativeStatus, when set, comes from a trusted external computation
	// and takes precedence over Status.
	AuthoritativeStatus *ContributionStatus

	DaysLate int
	DueDate  time.Time

	Version   int64
	CreatedAt int64
	UpdatedAt int64
}

// EffectiveStatus is AuthoritativeStatus when present, else Status.
func (c *MemberContribution) EffectiveStatus() ContributionStatus {
	if c.AuthoritativeStatus != nil {
		return *c.AuthoritativeStatus
	}
	return c.Status
}

// Clone returns a deep copy of c.
func (c *MemberContribution) Clone() *MemberContribution {
	cp := *c
	if c.AuthoritativeStatus != nil {
		s := *c.AuthoritativeStatus
		cp.AuthoritativeStatus = &s
	}
	return &cp
}

func roundedSum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Round(2)
}
