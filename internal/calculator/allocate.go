package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/money"
)

// AllocationResult is the outcome of a successful Allocate.
type AllocationResult struct {
	// Applied is this payment's breakdown; Applied.Total() equals amount + principal.
	Applied models.Buckets

	// Paid is the member's cumulative paid state after the payment.
	Paid models.Buckets

	// Remaining is what is still owed in the period after the payment.
	Remaining decimal.Decimal

	// LoanBalance is the member's loan balance after the principal repayment.
	LoanBalance decimal.Decimal
}

// ErrPrincipalExceedsLoan rejects a principal repayment larger than the loan.
var ErrPrincipalExceedsLoan = models.NewValidationError("PRINCIPAL_EXCEEDS_LOAN", "principal", "loan principal repayment exceeds the outstanding loan")

// Remaining is max(0, due total - collected), rounded.
func Remaining(due models.Dues, paid models.Buckets) decimal.Decimal {
	return money.NonNegative(money.Round(due.Total().Sub(paid.Collected())))
}

// Allocate spreads amount over the unpaid dues and books principal against
// the loan.
//
// Algorithm:
// - reject amount < 0, and amount == 0 unless principal > 0
// - reject amount > remaining, reporting remaining as the maximum allowed
// - walk contribution, interest, late fee, social fund, loan insurance in
//   that order, each taking min(left, category due - category paid)
// - principal lands in the loan principal bucket, bounded by loanBalance
//
// Nothing is mutated; the caller persists the result.
func Allocate(amount, principal decimal.Decimal, due models.Dues, paid models.Buckets, loanBalance decimal.Decimal) (AllocationResult, error) {
	amount = money.Round(amount)
	principal = money.Round(principal)

	if principal.IsNegative() {
		return AllocationResult{}, models.NewValidationError("NON_POSITIVE_AMOUNT", "principal", "loan principal repayment must not be negative")
	}
	if amount.IsNegative() || (amount.IsZero() && !principal.IsPositive()) {
		return AllocationResult{}, models.ErrNonPositiveAmount
	}
	if principal.GreaterThan(loanBalance) {
		maxAllowed := money.NonNegative(loanBalance)
		return AllocationResult{}, &models.DomainError{
			Kind:       models.KindValidation,
			Code:       ErrPrincipalExceedsLoan.Code,
			Field:      ErrPrincipalExceedsLoan.Field,
			Message:    ErrPrincipalExceedsLoan.Message + ", maximum allowed: " + maxAllowed.StringFixed(2),
			MaxAllowed: &maxAllowed,
		}
	}
	remaining := Remaining(due, paid)
	if amount.GreaterThan(remaining) {
		return AllocationResult{}, models.Overpayment(remaining)
	}

	var applied models.Buckets
	steps := []struct {
		due  decimal.Decimal
		paid decimal.Decimal
		into *decimal.Decimal
	}{
		{due.Contribution, paid.Contribution, &applied.Contribution},
		{due.Interest, paid.Interest, &applied.Interest},
		{due.LateFee, paid.LateFee, &applied.LateFee},
		{due.SocialFund, paid.SocialFund, &applied.SocialFund},
		{due.LoanInsurance, paid.LoanInsurance, &applied.LoanInsurance},
	}
	left := amount
	for _, step := range steps {
		if !left.IsPositive() {
			break
		}
		open := money.NonNegative(money.Round(step.due.Sub(step.paid)))
		take := decimal.Min(left, open)
		*step.into = take
		left = money.Round(left.Sub(take))
	}
	applied.LoanPrincipal = principal

	newPaid := paid.Add(applied)
	return AllocationResult{
		Applied:     applied,
		Paid:        newPaid,
		Remaining:   Remaining(due, newPaid),
		LoanBalance: money.Round(loanBalance.Sub(principal)),
	}, nil
}

// ContributionStatus derives the local status of a contribution.
//
// Fully paid wins over overdue; an overdue balance wins over a partial one.
func ContributionStatus(due models.Dues, paid models.Buckets, daysLate int) models.ContributionStatus {
	switch {
	case money.Settled(Remaining(due, paid)):
		return models.StatusPaid
	case daysLate > 0:
		return models.StatusOverdue
	case paid.Collected().IsPositive():
		return models.StatusPartial
	default:
		return models.StatusPending
	}
}
