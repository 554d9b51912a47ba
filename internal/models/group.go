package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a group collects contributions.
type Frequency string

const (
	FrequencyWeekly      Frequency = "WEEKLY"
	FrequencyFortnightly Frequency = "FORTNIGHTLY"
	FrequencyMonthly     Frequency = "MONTHLY"
	FrequencyYearly      Frequency = "YEARLY"
)

// Valid reports whether f is one of the known frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyFortnightly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// Schedule anchors a group's collection day.
//
// Which fields are required depends on Frequency:
//   - WEEKLY: DayOfWeek
//   - FORTNIGHTLY: DayOfWeek and WeekOfMonth (1 or 3 selects weeks {1,3}; 2 or 4 selects {2,4})
//   - MONTHLY: DayOfMonth
//   - YEARLY: Month and DayOfMonth
type Schedule struct {
	Frequency Frequency

	// DayOfWeek is only meaningful when HasDayOfWeek is set, because Sunday is
	// the zero value of time.Weekday.
	DayOfWeek    time.Weekday
	HasDayOfWeek bool

	// DayOfMonth is 1-31; values past the month's end clamp to its last day.
	DayOfMonth int

	// WeekOfMonth is 1-4.
	WeekOfMonth int

	// Month is used by YEARLY schedules.
	Month time.Month
}

// Validate checks that the fields required by the frequency are present.
func (s Schedule) Validate() error {
	if !s.Frequency.Valid() {
		return NewValidationError("INVALID_FREQUENCY", "schedule.frequency", "unknown collection frequency: "+string(s.Frequency))
	}
	switch s.Frequency {
	case FrequencyWeekly:
		if !s.HasDayOfWeek {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.day_of_week", "weekly schedule requires a day of week")
		}
	case FrequencyFortnightly:
		if !s.HasDayOfWeek {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.day_of_week", "fortnightly schedule requires a day of week")
		}
		if s.WeekOfMonth < 1 || s.WeekOfMonth > 4 {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.week_of_month", "fortnightly schedule requires a week of month between 1 and 4")
		}
	case FrequencyMonthly:
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.day_of_month", "monthly schedule requires a day of month between 1 and 31")
		}
	case FrequencyYearly:
		if s.Month < time.January || s.Month > time.December {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.month", "yearly schedule requires a month")
		}
		if s.DayOfMonth < 1 || s.DayOfMonth > 31 {
			return NewValidationError("MISSING_SCHEDULE_FIELD", "schedule.day_of_month", "yearly schedule requires a day of month between 1 and 31")
		}
	}
	return nil
}

// LoanInsurance configures the optional insurance levy on outstanding loans.
type LoanInsurance struct {
	Enabled bool
	// RatePercent is charged on the outstanding loan once per period.
	RatePercent decimal.Decimal
}

// SocialFund configures the optional per-family-member social contribution.
type SocialFund struct {
	Enabled bool
	// PerFamilyMember is multiplied by the member's family size.
	PerFamilyMember decimal.Decimal
}

// Group is a savings group.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group.
	Name string

	Schedule Schedule

	// MonthlyContribution is the flat compulsory contribution due every period,
	// whatever the frequency.
	MonthlyContribution decimal.Decimal

	// InterestRate is the annual loan interest rate in percent.
	InterestRate decimal.Decimal

	LoanInsurance LoanInsurance
	SocialFund    SocialFund
	LateFee       LateFeePolicy

	// CashInHand and CashInBank are the balances the group started with.
	CashInHand decimal.Decimal
	CashInBank decimal.Decimal

	// CurrentPeriodID points at the group's single OPEN period, or is empty
	// before the first period exists. Only the ledger moves it.
	CurrentPeriodID string

	// Version is bumped on every move of CurrentPeriodID.
	Version int64

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Validate checks the group's settings.
func (g *Group) Validate() error {
	if g.Name == "" {
		return NewValidationError("INVALID_GROUP", "name", "group name is required")
	}
	if err := g.Schedule.Validate(); err != nil {
		return err
	}
	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"monthly_contribution", g.MonthlyContribution},
		{"interest_rate", g.InterestRate},
		{"loan_insurance.rate_percent", g.LoanInsurance.RatePercent},
		{"social_fund.per_family_member", g.SocialFund.PerFamilyMember},
		{"cash_in_hand", g.CashInHand},
		{"cash_in_bank", g.CashInBank},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return NewValidationError("INVALID_GROUP", nn.field, nn.field+" must not be negative")
		}
	}
	return g.LateFee.Validate()
}
