// Package money holds the fixed-point helpers shared by every monetary
// computation. All amounts carry two decimal places and are rounded right
// after each arithmetic step so repeated additions cannot drift.
package money

import "github.com/shopspring/decimal"

// Places is the number of decimal places kept for every amount.
const Places = 2

var (
	// Epsilon is the tolerance under which a remaining amount counts as settled.
	// Half a minor unit: after rounding, only 0.00 qualifies.
	Epsilon = decimal.New(5, -3)

	hundred = decimal.NewFromInt(100)
)

// Round rounds d to two decimal places (half away from zero).
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum returns the rounded sum of the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent returns base × pct / 100, rounded.
func Percent(base, pct decimal.Decimal) decimal.Decimal {
	return Round(base.Mul(pct).Div(hundred))
}

// Settled reports whether d is within Epsilon of zero or below it.
func Settled(d decimal.Decimal) bool {
	return d.LessThanOrEqual(Epsilon)
}

// Equal reports whether a and b agree within Epsilon.
func Equal(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Epsilon)
}

// FromString parses s, treating the empty string as zero.
func FromString(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
