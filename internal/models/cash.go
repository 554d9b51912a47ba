package models

import "github.com/shopspring/decimal"

// CashSplitMode selects how a payment is divided between hand and bank.
type CashSplitMode string

const (
	CashSplitAuto   CashSplitMode = "AUTO"
	CashSplitManual CashSplitMode = "MANUAL"
)

// CashPool is where group cash sits.
type CashPool string

const (
	PoolHand CashPool = "HAND"
	PoolBank CashPool = "BANK"
)

// Valid reports whether p is a known pool.
func (p CashPool) Valid() bool {
	return p == PoolHand || p == PoolBank
}

// CashAllocation records one payment event and where its cash went.
type CashAllocation struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	PeriodID       string
	ContributionID string
	MemberID       string

	// IdempotencyKey makes retried payments return the first result.
	IdempotencyKey string

	// Amount is the full cash received, loan principal included.
	Amount decimal.Decimal
	Hand   decimal.Decimal
	Bank   decimal.Decimal
	Mode   CashSplitMode

	// Breakdown is how Amount was spread over the buckets.
	Breakdown Buckets

	// Reversed marks a payment that was undone; the row is kept for audit.
	Reversed bool

	CreatedAt int64
}

// MovementKind names a cash outflow.
type MovementKind string

const (
	MovementExpense          MovementKind = "EXPENSE"
	MovementLoanDisbursement MovementKind = "LOAN_DISBURSEMENT"
)

// CashMovement is money leaving the group's cash during a period.
type CashMovement struct {
	ID       string
	GroupID  string
	PeriodID string

	// MemberID is set for loan disbursements.
	MemberID string

	Kind   MovementKind
	Pool   CashPool
	Amount decimal.Decimal
	Note   string

	CreatedAt int64
}
