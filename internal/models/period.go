package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodState is the lifecycle state of a period.
type PeriodState string

const (
	PeriodOpen   PeriodState = "OPEN"
	PeriodClosed PeriodState = "CLOSED"
)

// Period is one collection cycle of a group.
type Period struct {
	// ID is the unique identifier for the period (UUID format).
	ID string

	GroupID string

	// Sequence starts at 1 and increases by one per period of the group.
	Sequence int

	// StartDate is the UTC date the period began.
	StartDate time.Time

	// EndDate is set when the period is closed.
	EndDate *time.Time

	State PeriodState

	// Opening figures carried forward from the previous period.
	StandingAtStart      decimal.Decimal
	CashInHandAtStart    decimal.Decimal
	CashInBankAtStart    decimal.Decimal
	SocialFundAtStart    decimal.Decimal
	InsuranceFundAtStart decimal.Decimal

	// Totals are frozen at close and nil while the period is open.
	Totals *PeriodTotals

	Version   int64
	CreatedAt int64
}

// IsOpen reports whether payments may still be recorded against p.
func (p *Period) IsOpen() bool {
	return p.State == PeriodOpen
}

// CashAtStart is the opening cash in hand plus cash in bank.
func (p *Period) CashAtStart() decimal.Decimal {
	return p.CashInHandAtStart.Add(p.CashInBankAtStart)
}

// PeriodTotals are the figures frozen when a period closes.
type PeriodTotals struct {
	// TotalCollection is everything collected except loan principal.
	TotalCollection decimal.Decimal `json:"total_collection"`

	// NewContributions is TotalCollection minus interest and late fees.
	NewContributions    decimal.Decimal `json:"new_contributions"`
	InterestEarned      decimal.Decimal `json:"interest_earned"`
	LateFeesCollected   decimal.Decimal `json:"late_fees_collected"`
	SocialFundCollected decimal.Decimal `json:"social_fund_collected"`
	InsuranceCollected  decimal.Decimal `json:"insurance_collected"`
	LoanPrincipalRepaid decimal.Decimal `json:"loan_principal_repaid"`
	Expenses            decimal.Decimal `json:"expenses"`
	LoansDisbursed      decimal.Decimal `json:"loans_disbursed"`

	EndingCashInHand     decimal.Decimal `json:"ending_cash_in_hand"`
	EndingCashInBank     decimal.Decimal `json:"ending_cash_in_bank"`
	LoanOutstanding      decimal.Decimal `json:"loan_outstanding"`
	SocialFundBalance    decimal.Decimal `json:"social_fund_balance"`
	InsuranceFundBalance decimal.Decimal `json:"insurance_fund_balance"`
	GroupStanding        decimal.Decimal `json:"group_standing"`
	SharePerMember       decimal.Decimal `json:"share_per_member"`

	MemberCount    int `json:"member_count"`
	MembersPresent int `json:"members_present"`
}
