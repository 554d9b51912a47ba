package calculator

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

func fakeAmount(f *gofakeit.Faker, max float64) decimal.Decimal {
	return decimal.NewFromFloat(f.Price(0, max)).Round(2)
}

func fakeDues(f *gofakeit.Faker) models.Dues {
	return models.Dues{
		Contribution:  fakeAmount(f, 500),
		Interest:      fakeAmount(f, 200),
		LateFee:       fakeAmount(f, 100),
		SocialFund:    fakeAmount(f, 50),
		LoanInsurance: fakeAmount(f, 50),
	}
}

func TestAllocate_NoLeakage(t *testing.T) {
	f := gofakeit.New(42)

	for i := 0; i < 500; i++ {
		due := fakeDues(f)
		remaining := Remaining(due, models.Buckets{})
		if remaining.IsZero() {
			continue
		}
		amount := decimal.NewFromFloat(f.Float64Range(0.01, remaining.InexactFloat64())).Round(2)
		if !amount.IsPositive() || amount.GreaterThan(remaining) {
			continue
		}
		loan := fakeAmount(f, 5000)
		principal := decimal.Zero
		if loan.IsPositive() && f.Bool() {
			principal = decimal.NewFromFloat(f.Float64Range(0, loan.InexactFloat64())).Round(2)
			if principal.GreaterThan(loan) {
				principal = loan
			}
		}

		res, err := Allocate(amount, principal, due, models.Buckets{}, loan)
		require.NoError(t, err, "amount %s remaining %s", amount, remaining)

		assert.True(t, res.Applied.Total().Equal(amount.Add(principal)),
			"applied %s != amount %s + principal %s", res.Applied.Total(), amount, principal)
		assert.True(t, res.Remaining.Equal(remaining.Sub(amount)))
		assert.False(t, res.LoanBalance.IsNegative())
	}
}

func TestAllocate_NoOverpayment(t *testing.T) {
	f := gofakeit.New(7)

	for i := 0; i < 500; i++ {
		due := fakeDues(f)
		paid := models.Buckets{Contribution: decimal.Min(due.Contribution, fakeAmount(f, 500))}
		remaining := Remaining(due, paid)
		over := remaining.Add(decimal.NewFromFloat(f.Price(0.01, 100)).Round(2))
		if !over.GreaterThan(remaining) {
			continue
		}

		_, err := Allocate(over, decimal.Zero, due, paid, decimal.Zero)
		require.Error(t, err)
		assert.ErrorIs(t, err, models.ErrOverpayment)
	}
}

func TestAllocate_RepeatedPaymentsSettle(t *testing.T) {
	f := gofakeit.New(99)

	for i := 0; i < 100; i++ {
		due := fakeDues(f)
		paid := models.Buckets{}
		for step := 0; step < 20; step++ {
			remaining := Remaining(due, paid)
			if remaining.IsZero() {
				break
			}
			amount := decimal.Min(remaining, decimal.NewFromFloat(f.Price(0.01, 150)).Round(2))
			res, err := Allocate(amount, decimal.Zero, due, paid, decimal.Zero)
			require.NoError(t, err)
			paid = res.Paid
		}
		if rem := Remaining(due, paid); rem.IsPositive() {
			res, err := Allocate(rem, decimal.Zero, due, paid, decimal.Zero)
			require.NoError(t, err)
			paid = res.Paid
		}

		assert.True(t, Remaining(due, paid).IsZero())
		assert.True(t, paid.Collected().Equal(due.Total()))
		assert.Equal(t, models.StatusPaid, ContributionStatus(due, paid, f.Number(0, 30)))
	}
}

func TestSplitCash_PreservesTotal(t *testing.T) {
	f := gofakeit.New(3)

	for i := 0; i < 500; i++ {
		total := fakeAmount(f, 100000)
		ratio := decimal.NewFromFloat(f.Float64Range(0, 1)).Round(4)

		split, err := SplitCash(CashSplitRequest{Total: total, Mode: models.CashSplitAuto, HandRatio: &ratio}, DefaultHandRatio)
		require.NoError(t, err)
		assert.True(t, split.Hand.Add(split.Bank).Equal(total))
		assert.False(t, split.Hand.IsNegative())
		assert.False(t, split.Bank.IsNegative())
	}
}
