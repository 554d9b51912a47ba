package api

import "github.com/shopspring/decimal"

// Schedule anchors a group's collection day. DayOfWeek is 0 (Sunday) to 6.
type Schedule struct {
	Frequency   string `json:"frequency" validate:"required,oneof=WEEKLY FORTNIGHTLY MONTHLY YEARLY"`
	DayOfWeek   *int   `json:"day_of_week,omitempty" validate:"omitempty,min=0,max=6"`
	DayOfMonth  int    `json:"day_of_month,omitempty" validate:"omitempty,min=1,max=31"`
	WeekOfMonth int    `json:"week_of_month,omitempty" validate:"omitempty,min=1,max=4"`
	Month       int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
}

// LateFeeTier covers days StartDay..EndDay; EndDay 0 is open-ended.
type LateFeeTier struct {
	StartDay     int             `json:"start_day" validate:"min=1"`
	EndDay       int             `json:"end_day" validate:"min=0"`
	Amount       decimal.Decimal `json:"amount" validate:"gte=0"`
	IsPercentage bool            `json:"is_percentage"`
}

// LateFee is a group's late-fee rule.
type LateFee struct {
	Enabled         bool            `json:"enabled"`
	Kind            string          `json:"kind,omitempty" validate:"omitempty,oneof=DAILY_FIXED DAILY_PERCENTAGE TIER_BASED"`
	DailyAmount     decimal.Decimal `json:"daily_amount" validate:"gte=0"`
	DailyPercentage decimal.Decimal `json:"daily_percentage" validate:"gte=0"`
	Tiers           []LateFeeTier   `json:"tiers,omitempty" validate:"dive"`
}

// GroupSettings are the editable settings of a group.
type GroupSettings struct {
	Name                      string          `json:"name" validate:"required,max=200"`
	Schedule                  Schedule        `json:"schedule"`
	MonthlyContribution       decimal.Decimal `json:"monthly_contribution" validate:"gte=0"`
	InterestRate              decimal.Decimal `json:"interest_rate" validate:"gte=0"`
	LoanInsuranceEnabled      bool            `json:"loan_insurance_enabled"`
	LoanInsuranceRate         decimal.Decimal `json:"loan_insurance_rate" validate:"gte=0"`
	SocialFundEnabled         bool            `json:"social_fund_enabled"`
	SocialFundPerFamilyMember decimal.Decimal `json:"social_fund_per_family_member" validate:"gte=0"`
	LateFee                   LateFee         `json:"late_fee"`
	CashInHand                decimal.Decimal `json:"cash_in_hand" validate:"gte=0"`
	CashInBank                decimal.Decimal `json:"cash_in_bank" validate:"gte=0"`
}

// Group is a savings group.
type Group struct {
	ID string `json:"id"`
	GroupSettings
	CurrentPeriodID string `json:"current_period_id,omitempty"`
	Version         int64  `json:"version"`
	CreatedAt       int64  `json:"created_at"`
}

// Member is a participant of a group.
type Member struct {
	ID          string          `json:"id"`
	GroupID     string          `json:"group_id"`
	Name        string          `json:"name"`
	FamilySize  int             `json:"family_size"`
	LoanBalance decimal.Decimal `json:"loan_balance"`
	Version     int64           `json:"version"`
	CreatedAt   int64           `json:"created_at"`
}

// PeriodTotals are the figures frozen when a period closes.
type PeriodTotals struct {
	TotalCollection      decimal.Decimal `json:"total_collection"`
	NewContributions     decimal.Decimal `json:"new_contributions"`
	InterestEarned       decimal.Decimal `json:"interest_earned"`
	LateFeesCollected    decimal.Decimal `json:"late_fees_collected"`
	SocialFundCollected  decimal.Decimal `json:"social_fund_collected"`
	InsuranceCollected   decimal.Decimal `json:"insurance_collected"`
	LoanPrincipalRepaid  decimal.Decimal `json:"loan_principal_repaid"`
	Expenses             decimal.Decimal `json:"expenses"`
	LoansDisbursed       decimal.Decimal `json:"loans_disbursed"`
	EndingCashInHand     decimal.Decimal `json:"ending_cash_in_hand"`
	EndingCashInBank     decimal.Decimal `json:"ending_cash_in_bank"`
	LoanOutstanding      decimal.Decimal `json:"loan_outstanding"`
	SocialFundBalance    decimal.Decimal `json:"social_fund_balance"`
	InsuranceFundBalance decimal.Decimal `json:"insurance_fund_balance"`
	GroupStanding        decimal.Decimal `json:"group_standing"`
	SharePerMember       decimal.Decimal `json:"share_per_member"`
	MemberCount          int             `json:"member_count"`
	MembersPresent       int             `json:"members_present"`
}

// Period is one collection cycle of a group.
type Period struct {
	ID                   string          `json:"id"`
	GroupID              string          `json:"group_id"`
	Sequence             int             `json:"sequence"`
	StartDate            string          `json:"start_date"`
	EndDate              string          `json:"end_date,omitempty"`
	State                string          `json:"state"`
	StandingAtStart      decimal.Decimal `json:"standing_at_start"`
	CashInHandAtStart    decimal.Decimal `json:"cash_in_hand_at_start"`
	CashInBankAtStart    decimal.Decimal `json:"cash_in_bank_at_start"`
	SocialFundAtStart    decimal.Decimal `json:"social_fund_at_start"`
	InsuranceFundAtStart decimal.Decimal `json:"insurance_fund_at_start"`
	Totals               *PeriodTotals   `json:"totals,omitempty"`
	Version              int64           `json:"version"`
}

// Dues is what a member owes per category in a period.
type Dues struct {
	Contribution  decimal.Decimal `json:"contribution"`
	Interest      decimal.Decimal `json:"interest"`
	LateFee       decimal.Decimal `json:"late_fee"`
	SocialFund    decimal.Decimal `json:"social_fund"`
	LoanInsurance decimal.Decimal `json:"loan_insurance"`
	Total         decimal.Decimal `json:"total"`
}

// Buckets is money paid per category.
type Buckets struct {
	Contribution  decimal.Decimal `json:"contribution"`
	Interest      decimal.Decimal `json:"interest"`
	LateFee       decimal.Decimal `json:"late_fee"`
	SocialFund    decimal.Decimal `json:"social_fund"`
	LoanInsurance decimal.Decimal `json:"loan_insurance"`
	LoanPrincipal decimal.Decimal `json:"loan_principal"`
}

// Contribution is what one member owes and has paid in one period.
type Contribution struct {
	ID                  string          `json:"id"`
	PeriodID            string          `json:"period_id"`
	MemberID            string          `json:"member_id"`
	Due                 Dues            `json:"due"`
	Paid                Buckets         `json:"paid"`
	TotalPaid           decimal.Decimal `json:"total_paid"`
	Remaining           decimal.Decimal `json:"remaining"`
	Status              string          `json:"status"`
	AuthoritativeStatus string          `json:"authoritative_status,omitempty"`
	EffectiveStatus     string          `json:"effective_status"`
	DaysLate            int             `json:"days_late"`
	DueDate             string          `json:"due_date"`
	Version             int64           `json:"version"`
}

// Allocation is one recorded payment.
type Allocation struct {
	ID             string          `json:"id"`
	PeriodID       string          `json:"period_id"`
	ContributionID string          `json:"contribution_id"`
	MemberID       string          `json:"member_id"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	Hand           decimal.Decimal `json:"hand"`
	Bank           decimal.Decimal `json:"bank"`
	Mode           string          `json:"mode"`
	Breakdown      Buckets         `json:"breakdown"`
	Reversed       bool            `json:"reversed"`
	CreatedAt      int64           `json:"created_at"`
}

// CashMovement is an expense or a loan disbursement.
type CashMovement struct {
	ID        string          `json:"id"`
	GroupID   string          `json:"group_id"`
	PeriodID  string          `json:"period_id"`
	MemberID  string          `json:"member_id,omitempty"`
	Kind      string          `json:"kind"`
	Pool      string          `json:"pool"`
	Amount    decimal.Decimal `json:"amount"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// CashSplit says where a payment's cash went. An empty Mode means AUTO.
type CashSplit struct {
	Mode      string           `json:"mode,omitempty" validate:"omitempty,oneof=AUTO MANUAL"`
	HandRatio *decimal.Decimal `json:"hand_ratio,omitempty" validate:"omitempty,gte=0,lte=1"`
	Hand      *decimal.Decimal `json:"hand,omitempty" validate:"omitempty,gte=0"`
	Bank      *decimal.Decimal `json:"bank,omitempty" validate:"omitempty,gte=0"`
}

// GroupService messages

type CreateGroupRequest struct {
	GroupSettings
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupSettingsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	GroupSettings
}

type UpdateGroupSettingsResponse struct {
	Group *Group `json:"group"`
}

type AddMemberRequest struct {
	GroupID     string          `json:"group_id" validate:"required"`
	Name        string          `json:"name" validate:"required,max=200"`
	FamilySize  int             `json:"family_size" validate:"min=1"`
	LoanBalance decimal.Decimal `json:"loan_balance" validate:"gte=0"`
}

type AddMemberResponse struct {
	Member *Member `json:"member"`
}

type ListMembersRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListMembersResponse struct {
	Members []*Member `json:"members"`
}

// ContributionService messages

type GetDueSummaryRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	// PeriodID defaults to the group's open period.
	PeriodID string `json:"period_id,omitempty"`
	// AsOf is a date the late fee is measured at; defaults to today.
	AsOf string `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type GetDueSummaryResponse struct {
	PeriodID       string          `json:"period_id"`
	Contributions  []*Contribution `json:"contributions"`
	TotalDue       decimal.Decimal `json:"total_due"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

type RecordPaymentRequest struct {
	MemberID       string          `json:"member_id" validate:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Principal      decimal.Decimal `json:"principal"`
	CashSplit      *CashSplit      `json:"cash_split,omitempty"`
	IdempotencyKey string          `json:"idempotency_key,omitempty" validate:"max=200"`
	SubmittedAt    string          `json:"submitted_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type RecordPaymentResponse struct {
	Contribution *Contribution `json:"contribution"`
	Allocation   *Allocation   `json:"allocation"`
	Member       *Member       `json:"member"`
	Replayed     bool          `json:"replayed"`
}

type RevertPaymentRequest struct {
	AllocationID string `json:"allocation_id" validate:"required"`
}

type RevertPaymentResponse struct {
	Contribution *Contribution `json:"contribution"`
	Allocation   *Allocation   `json:"allocation"`
	Member       *Member       `json:"member"`
}

type SetAuthoritativeStatusRequest struct {
	ContributionID string `json:"contribution_id" validate:"required"`
	// Status clears the authoritative status when empty.
	Status string `json:"status,omitempty" validate:"omitempty,oneof=PENDING PARTIAL PAID OVERDUE"`
}

type SetAuthoritativeStatusResponse struct {
	Contribution *Contribution `json:"contribution"`
}

type ListPaymentsRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
}

type ListPaymentsResponse struct {
	Allocations []*Allocation `json:"allocations"`
}

type IssueLoanRequest struct {
	MemberID string          `json:"member_id" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Pool     string          `json:"pool" validate:"required,oneof=HAND BANK"`
	Note     string          `json:"note,omitempty" validate:"max=500"`
}

type IssueLoanResponse struct {
	Movement *CashMovement `json:"movement"`
	Member   *Member       `json:"member"`
}

type RecordExpenseRequest struct {
	GroupID string          `json:"group_id" validate:"required"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Pool    string          `json:"pool" validate:"required,oneof=HAND BANK"`
	Note    string          `json:"note,omitempty" validate:"max=500"`
}

type RecordExpenseResponse struct {
	Movement *CashMovement `json:"movement"`
}

type ListCashMovementsRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
}

type ListCashMovementsResponse struct {
	Movements []*CashMovement `json:"movements"`
}

// PeriodService messages

type GetCurrentPeriodRequest struct {
	GroupID string `json:"group_id" validate:"required"`
	// Open creates the group's first period when it has none.
	Open bool `json:"open"`
}

type GetCurrentPeriodResponse struct {
	Period *Period `json:"period"`
}

type ListPeriodsRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type ListPeriodsResponse struct {
	Periods []*Period `json:"periods"`
}

type ClosePeriodRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
}

type ClosePeriodResponse struct {
	Period        *Period `json:"period"`
	Successor     *Period `json:"successor,omitempty"`
	AlreadyClosed bool    `json:"already_closed"`
}

type ReopenPeriodRequest struct {
	PeriodID string `json:"period_id" validate:"required"`
}

type ReopenPeriodResponse struct {
	Period             *Period `json:"period"`
	DeletedSuccessorID string  `json:"deleted_successor_id,omitempty"`
	AlreadyOpen        bool    `json:"already_open"`
}

type PreviewStandingRequest struct {
	GroupID string `json:"group_id" validate:"required"`
}

type PreviewStandingResponse struct {
	Period *Period       `json:"period"`
	Totals *PeriodTotals `json:"totals"`
}
