package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestLateFeePolicy_Validate(t *testing.T) {
	tests := []struct {
		name    string
		policy  LateFeePolicy
		wantErr bool
	}{
		{"disabled without rule", LateFeePolicy{}, false},
		{"enabled without rule", LateFeePolicy{Enabled: true}, true},
		{"daily fixed", LateFeePolicy{Enabled: true, Rule: DailyFixed{Amount: d("10")}}, false},
		{"negative daily fixed", LateFeePolicy{Enabled: true, Rule: DailyFixed{Amount: d("-1")}}, true},
		{"negative percentage", LateFeePolicy{Enabled: true, Rule: DailyPercentage{Percent: d("-2")}}, true},
		{"no tiers", LateFeePolicy{Enabled: true, Rule: TierBased{}}, true},
		{"tiers out of order are fine", LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{
			{StartDay: 6, Amount: d("2"), IsPercentage: true},
			{StartDay: 1, EndDay: 5, Amount: d("10")},
		}}}, false},
		{"tier starting at zero", LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{{StartDay: 0, EndDay: 3, Amount: d("1")}}}}, true},
		{"tier ending before start", LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{{StartDay: 5, EndDay: 3, Amount: d("1")}}}}, true},
		{"overlapping tiers", LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{
			{StartDay: 1, EndDay: 5, Amount: d("10")},
			{StartDay: 5, EndDay: 9, Amount: d("20")},
		}}}, true},
		{"tier after open-ended tier", LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{
			{StartDay: 1, Amount: d("10")},
			{StartDay: 10, Amount: d("20")},
		}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLateFeeConfig_RoundTrip(t *testing.T) {
	policy := LateFeePolicy{Enabled: true, Rule: TierBased{Tiers: []LateFeeTier{
		{StartDay: 1, EndDay: 5, Amount: d("10")},
		{StartDay: 6, Amount: d("2"), IsPercentage: true},
	}}}

	got, err := ConfigFromPolicy(policy).Policy()
	require.NoError(t, err)
	assert.Equal(t, policy, got)

	_, err = LateFeeConfig{Kind: "HOURLY"}.Policy()
	assert.True(t, IsValidation(err))
}

func TestLateFeeTier_Covers(t *testing.T) {
	bounded := LateFeeTier{StartDay: 3, EndDay: 5}
	assert.False(t, bounded.Covers(2))
	assert.True(t, bounded.Covers(3))
	assert.True(t, bounded.Covers(5))
	assert.False(t, bounded.Covers(6))

	open := LateFeeTier{StartDay: 6}
	assert.True(t, open.Covers(400))

	assert.False(t, LateFeeTier{StartDay: 0, EndDay: 5}.Covers(1))
}

func TestSchedule_Validate(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		field    string
	}{
		{"weekly", Schedule{Frequency: FrequencyWeekly, DayOfWeek: time.Sunday, HasDayOfWeek: true}, ""},
		{"weekly without day", Schedule{Frequency: FrequencyWeekly}, "schedule.day_of_week"},
		{"fortnightly without week", Schedule{Frequency: FrequencyFortnightly, DayOfWeek: time.Monday, HasDayOfWeek: true}, "schedule.week_of_month"},
		{"monthly", Schedule{Frequency: FrequencyMonthly, DayOfMonth: 31}, ""},
		{"monthly without day", Schedule{Frequency: FrequencyMonthly}, "schedule.day_of_month"},
		{"yearly without month", Schedule{Frequency: FrequencyYearly, DayOfMonth: 1}, "schedule.month"},
		{"unknown frequency", Schedule{Frequency: "DAILY"}, "schedule.frequency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schedule.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
		})
	}
}

func TestGroupAndMember_Validate(t *testing.T) {
	g := &Group{
		Name:                "Sakhi",
		Schedule:            Schedule{Frequency: FrequencyMonthly, DayOfMonth: 5},
		MonthlyContribution: d("200"),
	}
	assert.NoError(t, g.Validate())

	g.InterestRate = d("-1")
	assert.True(t, IsValidation(g.Validate()))

	m := &Member{GroupID: "g1", Name: "Asha", FamilySize: 1}
	assert.NoError(t, m.Validate())
	m.FamilySize = 0
	assert.True(t, IsValidation(m.Validate()))
}

func TestBuckets(t *testing.T) {
	b := Buckets{Contribution: d("200"), Interest: d("30"), LoanPrincipal: d("500")}
	assert.Equal(t, "230.00", b.Collected().StringFixed(2))
	assert.Equal(t, "730.00", b.Total().StringFixed(2))

	sum := b.Add(Buckets{LateFee: d("10.005")})
	assert.Equal(t, "10.01", sum.LateFee.StringFixed(2))

	assert.True(t, sum.Sub(sum).Total().IsZero())
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("payment rejected: %w", Overpayment(d("70")))
	assert.ErrorIs(t, err, ErrOverpayment)
	assert.False(t, errors.Is(err, ErrNonPositiveAmount))
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("disk full")))

	var de *DomainError
	require.ErrorAs(t, err, &de)
	require.NotNil(t, de.MaxAllowed)
	assert.Equal(t, "70.00", de.MaxAllowed.StringFixed(2))
}

func TestContribution_EffectiveStatus(t *testing.T) {
	c := &MemberContribution{Status: StatusPartial}
	assert.Equal(t, StatusPartial, c.EffectiveStatus())

	paid := StatusPaid
	c.AuthoritativeStatus = &paid
	assert.Equal(t, StatusPaid, c.EffectiveStatus())

	cp := c.Clone()
	*cp.AuthoritativeStatus = StatusOverdue
	assert.Equal(t, StatusPaid, c.EffectiveStatus())
}
