package ledger

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// ErrInvalidPool rejects a cash movement without a known pool.
var ErrInvalidPool = models.NewValidationError("INVALID_POOL", "pool", "cash pool must be HAND or BANK")

// IssueLoan disburses a loan to a member from the group's open period and
// raises the member's loan balance by amount.
func (l *Ledger) IssueLoan(ctx context.Context, memberID string, amount decimal.Decimal, pool models.CashPool, note string) (*models.CashMovement, *models.Member, error) {
	if err := checkMovement(amount, pool); err != nil {
		return nil, nil, err
	}
	member, err := l.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, nil, translate(err)
	}
	p, err := l.EnsureCurrentPeriod(ctx, member.GroupID)
	if err != nil {
		return nil, nil, err
	}

	updated := cloneMember(member)
	updated.LoanBalance = money.Sum(member.LoanBalance, amount)

	mv := &models.CashMovement{
		GroupID:   member.GroupID,
		PeriodID:  p.ID,
		MemberID:  member.ID,
		Kind:      models.MovementLoanDisbursement,
		Pool:      pool,
		Amount:    money.Round(amount),
		Note:      note,
		CreatedAt: l.now().Unix(),
	}
	if err := l.store.RecordCashMovement(ctx, mv, updated); err != nil {
		return nil, nil, translate(err)
	}
	l.metrics.CashMovementRecorded(string(mv.Kind))

	slog.Info("Issued loan", "member_id", member.ID, "amount", mv.Amount.StringFixed(2), "loan_balance", updated.LoanBalance.StringFixed(2))
	return mv, updated, nil
}

// RecordExpense records group spending in the open period.
func (l *Ledger) RecordExpense(ctx context.Context, groupID string, amount decimal.Decimal, pool models.CashPool, note string) (*models.CashMovement, error) {
	if err := checkMovement(amount, pool); err != nil {
		return nil, err
	}
	p, err := l.EnsureCurrentPeriod(ctx, groupID)
	if err != nil {
		return nil, err
	}

	mv := &models.CashMovement{
		GroupID:   groupID,
		PeriodID:  p.ID,
		Kind:      models.MovementExpense,
		Pool:      pool,
		Amount:    money.Round(amount),
		Note:      note,
		CreatedAt: l.now().Unix(),
	}
	if err := l.store.RecordCashMovement(ctx, mv, nil); err != nil {
		return nil, translate(err)
	}
	l.metrics.CashMovementRecorded(string(mv.Kind))

	slog.Info("Recorded expense", "group_id", groupID, "amount", mv.Amount.StringFixed(2), "pool", pool)
	return mv, nil
}

// ListCashMovements returns the outflows recorded in a period.
func (l *Ledger) ListCashMovements(ctx context.Context, periodID string) ([]*models.CashMovement, error) {
	movements, err := l.store.ListCashMovements(ctx, periodID)
	return movements, translate(err)
}

// ListPayments returns the payments of a period, reversed ones included.
func (l *Ledger) ListPayments(ctx context.Context, periodID string) ([]*models.CashAllocation, error) {
	allocations, err := l.store.ListAllocations(ctx, periodID)
	return allocations, translate(err)
}

func checkMovement(amount decimal.Decimal, pool models.CashPool) error {
	if !money.Round(amount).IsPositive() {
		return models.NewValidationError(models.ErrNonPositiveAmount.Code, "amount", "amount must be greater than zero")
	}
	if !pool.Valid() {
		return ErrInvalidPool
	}
	return nil
}
