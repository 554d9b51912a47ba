package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/calculator"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/metrics"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

// ErrAlreadyReversed rejects reverting a payment twice.
var ErrAlreadyReversed = models.NewConflictError("ALREADY_REVERSED", "payment was already reversed")

// PaymentRequest is one payment by a member into the group's open period.
type PaymentRequest struct {
	MemberID string

	// Amount is applied to the period's dues.
	Amount decimal.Decimal

	// Principal repays the member's loan on top of Amount.
	Principal decimal.Decimal

	// CashSplit says where the cash went; its Total is filled in.
	CashSplit calculator.CashSplitRequest

	// IdempotencyKey, when set, makes a retried request return the first result.
	IdempotencyKey string

	// SubmittedAt is the date the late fee is measured at; nil means now.
	SubmittedAt *time.Time
}

// PaymentResult is the state after a payment or its reversal.
type PaymentResult struct {
	Contribution *models.MemberContribution
	Allocation   *models.CashAllocation
	Member       *models.Member

	// Replayed is set when an earlier payment with the same idempotency key
	// was returned instead of recording a new one.
	Replayed bool
}

// RecordPayment allocates a payment over the member's dues in the group's
// open period. Every check runs before anything is written; a rejected
// payment leaves the store untouched.
func (l *Ledger) RecordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	res, err := l.recordPayment(ctx, req)

	outcome := metrics.OutcomeOK
	amount := 0.0
	switch {
	case err != nil && models.IsValidation(err):
		outcome = metrics.OutcomeRejected
	case err != nil && models.IsConflict(err):
		outcome = metrics.OutcomeConflict
	case err != nil:
		outcome = metrics.OutcomeError
	case res.Replayed:
		outcome = metrics.OutcomeReplayed
	default:
		amount = res.Allocation.Amount.InexactFloat64()
	}
	l.metrics.PaymentRecorded(outcome, amount)
	return res, err
}

func (l *Ledger) recordPayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.IdempotencyKey != "" {
		if res, err := l.replay(ctx, req.IdempotencyKey); res != nil || err != nil {
			return res, err
		}
	}

	member, err := l.store.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, translate(err)
	}
	g, err := l.store.GetGroup(ctx, member.GroupID)
	if err != nil {
		return nil, translate(err)
	}
	p, err := l.EnsureCurrentPeriod(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen() {
		return nil, models.ErrNoActivePeriod
	}

	at := l.now()
	if req.SubmittedAt != nil {
		at = req.SubmittedAt.UTC()
	}
	due, err := calculator.ComputeDue(calculator.DueInput{Group: g, Member: member, PeriodStart: &p.StartDate, AsOf: at})
	if err != nil {
		return nil, err
	}

	c, err := l.store.GetContribution(ctx, p.ID, member.ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		// Inserted together with the payment below.
		c = newContribution(p, member, due, l.now())
	case err != nil:
		return nil, translate(err)
	default:
		calculator.RefreshLateFee(c, due)
	}

	alloc, err := calculator.Allocate(req.Amount, req.Principal, c.Due, c.Paid, member.LoanBalance)
	if err != nil {
		return nil, err
	}

	splitReq := req.CashSplit
	splitReq.Total = alloc.Applied.Total()
	split, err := calculator.SplitCash(splitReq, l.handRatio)
	if err != nil {
		return nil, err
	}

	c.Paid = alloc.Paid
	calculator.Settle(c)

	var updatedMember *models.Member
	if alloc.Applied.LoanPrincipal.IsPositive() {
		updatedMember = cloneMember(member)
		updatedMember.LoanBalance = alloc.LoanBalance
	}

	allocation := &models.CashAllocation{
		PeriodID:       p.ID,
		MemberID:       member.ID,
		IdempotencyKey: req.IdempotencyKey,
		Amount:         alloc.Applied.Total(),
		Hand:           split.Hand,
		Bank:           split.Bank,
		Mode:           split.Mode,
		Breakdown:      alloc.Applied,
		CreatedAt:      l.now().Unix(),
	}

	err = l.store.ApplyPayment(ctx, storage.PaymentParams{Allocation: allocation, Contribution: c, Member: updatedMember})
	if errors.Is(err, storage.ErrConflict) && req.IdempotencyKey != "" {
		if res, rerr := l.replay(ctx, req.IdempotencyKey); res != nil || rerr != nil {
			return res, rerr
		}
	}
	if err != nil {
		return nil, translate(err)
	}

	if updatedMember != nil {
		member = updatedMember
	}
	slog.Info("Recorded payment",
		"member_id", member.ID,
		"period_id", p.ID,
		"amount", allocation.Amount.StringFixed(2),
		"remaining", c.Remaining.StringFixed(2),
		"status", c.Status,
	)
	return &PaymentResult{Contribution: c, Allocation: allocation, Member: member}, nil
}

// replay returns the stored result of an earlier payment with key, or nil
// when there is none.
func (l *Ledger) replay(ctx context.Context, key string) (*PaymentResult, error) {
	a, err := l.store.GetAllocationByKey(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	c, err := l.store.GetContributionByID(ctx, a.ContributionID)
	if err != nil {
		return nil, translate(err)
	}
	m, err := l.store.GetMember(ctx, a.MemberID)
	if err != nil {
		return nil, translate(err)
	}
	return &PaymentResult{Contribution: c, Allocation: a, Member: m, Replayed: true}, nil
}

// RevertPayment undoes a payment in an OPEN period. The allocation row is
// kept and flagged reversed; paid buckets and the loan balance are restored.
func (l *Ledger) RevertPayment(ctx context.Context, allocationID string) (*PaymentResult, error) {
	a, err := l.store.GetAllocation(ctx, allocationID)
	if err != nil {
		return nil, translate(err)
	}
	if a.Reversed {
		return nil, ErrAlreadyReversed
	}
	p, err := l.store.GetPeriod(ctx, a.PeriodID)
	if err != nil {
		return nil, translate(err)
	}
	if !p.IsOpen() {
		return nil, models.ErrPeriodNotOpen
	}
	c, err := l.store.GetContributionByID(ctx, a.ContributionID)
	if err != nil {
		return nil, translate(err)
	}
	member, err := l.store.GetMember(ctx, a.MemberID)
	if err != nil {
		return nil, translate(err)
	}

	c.Paid = c.Paid.Sub(a.Breakdown)
	calculator.Settle(c)

	var updatedMember *models.Member
	if a.Breakdown.LoanPrincipal.IsPositive() {
		updatedMember = cloneMember(member)
		updatedMember.LoanBalance = money.Sum(member.LoanBalance, a.Breakdown.LoanPrincipal)
	}

	err = l.store.RevertPayment(ctx, storage.PaymentParams{Allocation: a, Contribution: c, Member: updatedMember})
	if err != nil {
		return nil, translate(err)
	}
	if updatedMember != nil {
		member = updatedMember
	}

	slog.Info("Reverted payment", "allocation_id", a.ID, "member_id", a.MemberID, "amount", a.Amount.StringFixed(2))
	return &PaymentResult{Contribution: c, Allocation: a, Member: member}, nil
}

// SetAuthoritativeStatus stores an externally computed status that takes
// precedence over local recomputation. A nil status clears it.
func (l *Ledger) SetAuthoritativeStatus(ctx context.Context, contributionID string, status *models.ContributionStatus) (*models.MemberContribution, error) {
	if status != nil && !status.Valid() {
		return nil, models.NewValidationError("INVALID_STATUS", "status", "unknown contribution status: "+string(*status))
	}
	c, err := l.store.GetContributionByID(ctx, contributionID)
	if err != nil {
		return nil, translate(err)
	}
	p, err := l.store.GetPeriod(ctx, c.PeriodID)
	if err != nil {
		return nil, translate(err)
	}
	if !p.IsOpen() {
		return nil, models.ErrPeriodNotOpen
	}

	c.AuthoritativeStatus = status
	if err := l.store.SaveContribution(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func cloneMember(m *models.Member) *models.Member {
	cp := *m
	return &cp
}
