// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when an optimistic check fails: a version moved,
	// a period is no longer in the expected state, or a unique key was taken.
	ErrConflict = errors.New("conflict")

	// ErrHasActivity is returned by ReopenPeriod when the successor period
	// already holds payments or cash movements.
	ErrHasActivity = errors.New("period has recorded activity")
)

// ClosePeriodParams describes an atomic check-and-close.
type ClosePeriodParams struct {
	GroupID              string
	ExpectedGroupVersion int64

	PeriodID              string
	ExpectedPeriodVersion int64
	EndDate               time.Time
	Totals                models.PeriodTotals

	// Successor is inserted as the group's new OPEN period.
	Successor *models.Period
}

// ReopenPeriodParams describes an atomic reopen of the latest closed period.
type ReopenPeriodParams struct {
	GroupID              string
	ExpectedGroupVersion int64

	PeriodID    string
	SuccessorID string
}

// PaymentParams describes one payment or its reversal.
type PaymentParams struct {
	// Allocation is inserted by ApplyPayment. RevertPayment only reads its ID.
	Allocation *models.CashAllocation

	// Contribution carries the new state. A zero Version inserts it,
	// otherwise Version is the expected current version.
	Contribution *models.MemberContribution

	// Member is set when the loan balance changes; Version is the expected
	// current version.
	Member *models.Member
}

// Activity counts what has been recorded against a period.
type Activity struct {
	Payments  int
	Movements int
}

// Empty reports whether nothing has been recorded.
func (a Activity) Empty() bool {
	return a.Payments == 0 && a.Movements == 0
}

// Store defines the interface for savings group storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the ledger.
//
// Every multi-record write runs in one transaction and leaves nothing behind
// when it fails. Optimistic checks that fail return ErrConflict. After a
// successful SaveContribution, ApplyPayment, RevertPayment or
// RecordCashMovement the Version of every contribution and member passed in
// matches the stored one.
type Store interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroupSettings writes the settings of group. The current period
	// pointer and version are not touched.
	UpdateGroupSettings(ctx context.Context, group *models.Group) error

	CreateMember(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, memberID string) (*models.Member, error)
	ListMembers(ctx context.Context, groupID string) ([]*models.Member, error)

	GetPeriod(ctx context.Context, periodID string) (*models.Period, error)

	// ListPeriods returns the group's periods ordered by sequence.
	ListPeriods(ctx context.Context, groupID string) ([]*models.Period, error)

	// CreateInitialPeriod inserts the group's first period and points the
	// group at it, provided the group still has no period and its version is
	// expectedGroupVersion.
	CreateInitialPeriod(ctx context.Context, period *models.Period, expectedGroupVersion int64) error

	// ClosePeriod freezes the period, inserts the successor and moves the
	// group's pointer in one transaction.
	ClosePeriod(ctx context.Context, params ClosePeriodParams) error

	// ReopenPeriod deletes the successor and its contributions, reopens the
	// period and points the group back at it. It returns ErrHasActivity when
	// the successor holds payments or movements.
	ReopenPeriod(ctx context.Context, params ReopenPeriodParams) error

	PeriodActivity(ctx context.Context, periodID string) (Activity, error)

	// GetContribution returns the contribution of member in period, or ErrNotFound.
	GetContribution(ctx context.Context, periodID, memberID string) (*models.MemberContribution, error)
	GetContributionByID(ctx context.Context, contributionID string) (*models.MemberContribution, error)
	ListContributions(ctx context.Context, periodID string) ([]*models.MemberContribution, error)

	// SaveContribution inserts c when its Version is zero, otherwise updates
	// it if the stored version still matches.
	SaveContribution(ctx context.Context, c *models.MemberContribution) error

	// ApplyPayment records a payment against an OPEN period: the allocation,
	// the contribution and, if set, the member.
	ApplyPayment(ctx context.Context, params PaymentParams) error

	// RevertPayment flags the allocation reversed and writes the restored
	// contribution and member. The period must be OPEN.
	RevertPayment(ctx context.Context, params PaymentParams) error

	GetAllocation(ctx context.Context, allocationID string) (*models.CashAllocation, error)
	GetAllocationByKey(ctx context.Context, idempotencyKey string) (*models.CashAllocation, error)
	ListAllocations(ctx context.Context, periodID string) ([]*models.CashAllocation, error)

	// RecordCashMovement inserts movement into its OPEN period and, when
	// member is set, writes its new loan balance.
	RecordCashMovement(ctx context.Context, movement *models.CashMovement, member *models.Member) error
	ListCashMovements(ctx context.Context, periodID string) ([]*models.CashMovement, error)

	// Close releases any resources held by the store.
	Close() error
}
