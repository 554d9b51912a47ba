package models

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// LateFeeKind names a late-fee rule model.
type LateFeeKind string

const (
	LateFeeDailyFixed      LateFeeKind = "DAILY_FIXED"
	LateFeeDailyPercentage LateFeeKind = "DAILY_PERCENTAGE"
	LateFeeTierBased       LateFeeKind = "TIER_BASED"
)

// LateFeeRule is one of DailyFixed, DailyPercentage or TierBased.
type LateFeeRule interface {
	Kind() LateFeeKind
	validate() error
}

// DailyFixed charges a fixed amount per day late.
type DailyFixed struct {
	Amount decimal.Decimal
}

// DailyPercentage charges a percentage of the contribution due per day late.
type DailyPercentage struct {
	Percent decimal.Decimal
}

// TierBased charges, for each day late, the per-day rate of the tier covering that day.
type TierBased struct {
	Tiers []LateFeeTier
}

// LateFeeTier covers days StartDay..EndDay inclusive. An EndDay of zero
// leaves the tier open-ended.
type LateFeeTier struct {
	StartDay int
	EndDay   int
	// Amount is a fixed per-day fee, or a per-day percent of the
	// contribution due when IsPercentage is set.
	Amount       decimal.Decimal
	IsPercentage bool
}

// Covers reports whether day falls inside the tier. Malformed tiers cover nothing.
func (t LateFeeTier) Covers(day int) bool {
	if t.StartDay < 1 || day < t.StartDay {
		return false
	}
	return t.EndDay == 0 || day <= t.EndDay
}

func (DailyFixed) Kind() LateFeeKind      { return LateFeeDailyFixed }
func (DailyPercentage) Kind() LateFeeKind { return LateFeeDailyPercentage }
func (TierBased) Kind() LateFeeKind       { return LateFeeTierBased }

func (r DailyFixed) validate() error {
	if r.Amount.IsNegative() {
		return NewValidationError("INVALID_LATE_FEE", "late_fee.daily_amount", "daily amount must not be negative")
	}
	return nil
}

func (r DailyPercentage) validate() error {
	if r.Percent.IsNegative() {
		return NewValidationError("INVALID_LATE_FEE", "late_fee.daily_percentage", "daily percentage must not be negative")
	}
	return nil
}

func (r TierBased) validate() error {
	if len(r.Tiers) == 0 {
		return NewValidationError("INVALID_LATE_FEE", "late_fee.tiers", "tier-based rule requires at least one tier")
	}
	tiers := make([]LateFeeTier, len(r.Tiers))
	copy(tiers, r.Tiers)
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].StartDay < tiers[j].StartDay })
	for i, tier := range tiers {
		field := fmt.Sprintf("late_fee.tiers[%d]", i)
		if tier.StartDay < 1 {
			return NewValidationError("INVALID_LATE_FEE", field, "tier start day must be at least 1")
		}
		if tier.EndDay != 0 && tier.EndDay < tier.StartDay {
			return NewValidationError("INVALID_LATE_FEE", field, "tier end day must not be before its start day")
		}
		if tier.Amount.IsNegative() {
			return NewValidationError("INVALID_LATE_FEE", field, "tier amount must not be negative")
		}
		if i > 0 && (tiers[i-1].EndDay == 0 || tier.StartDay <= tiers[i-1].EndDay) {
			return NewValidationError("INVALID_LATE_FEE", field, fmt.Sprintf("tier starting on day %d overlaps the previous tier", tier.StartDay))
		}
	}
	return nil
}

// LateFeePolicy is a group's late-fee setting. A nil Rule charges nothing.
type LateFeePolicy struct {
	Enabled bool
	Rule    LateFeeRule
}

// Active reports whether the policy charges anything at all.
func (p LateFeePolicy) Active() bool {
	return p.Enabled && p.Rule != nil
}

// Validate checks the rule. Disabled policies are still validated when a rule is set.
func (p LateFeePolicy) Validate() error {
	if p.Rule == nil {
		if p.Enabled {
			return NewValidationError("INVALID_LATE_FEE", "late_fee.kind", "enabled late fee requires a rule")
		}
		return nil
	}
	return p.Rule.validate()
}

// LateFeeConfig is the flat form of a LateFeePolicy used for storage and the wire.
type LateFeeConfig struct {
	Enabled         bool                `json:"enabled"`
	Kind            LateFeeKind         `json:"kind,omitempty"`
	DailyAmount     decimal.Decimal     `json:"daily_amount"`
	DailyPercentage decimal.Decimal     `json:"daily_percentage"`
	Tiers           []LateFeeTierConfig `json:"tiers,omitempty"`
}

// LateFeeTierConfig is the flat form of a LateFeeTier.
type LateFeeTierConfig struct {
	StartDay     int             `json:"start_day"`
	EndDay       int             `json:"end_day"`
	Amount       decimal.Decimal `json:"amount"`
	IsPercentage bool            `json:"is_percentage"`
}

// Policy converts the flat config into a validated LateFeePolicy.
func (c LateFeeConfig) Policy() (LateFeePolicy, error) {
	p := LateFeePolicy{Enabled: c.Enabled}
	switch c.Kind {
	case "":
	case LateFeeDailyFixed:
		p.Rule = DailyFixed{Amount: c.DailyAmount}
	case LateFeeDailyPercentage:
		p.Rule = DailyPercentage{Percent: c.DailyPercentage}
	case LateFeeTierBased:
		tiers := make([]LateFeeTier, len(c.Tiers))
		for i, t := range c.Tiers {
			tiers[i] = LateFeeTier{StartDay: t.StartDay, EndDay: t.EndDay, Amount: t.Amount, IsPercentage: t.IsPercentage}
		}
		p.Rule = TierBased{Tiers: tiers}
	default:
		return LateFeePolicy{}, NewValidationError("INVALID_LATE_FEE", "late_fee.kind", "unknown late fee rule: "+string(c.Kind))
	}
	if err := p.Validate(); err != nil {
		return LateFeePolicy{}, err
	}
	return p, nil
}

// ConfigFromPolicy flattens p.
func ConfigFromPolicy(p LateFeePolicy) LateFeeConfig {
	c := LateFeeConfig{Enabled: p.Enabled}
	switch r := p.Rule.(type) {
	case DailyFixed:
		c.Kind = LateFeeDailyFixed
		c.DailyAmount = r.Amount
	case DailyPercentage:
		c.Kind = LateFeeDailyPercentage
		c.DailyPercentage = r.Percent
	case TierBased:
		c.Kind = LateFeeTierBased
		c.Tiers = make([]LateFeeTierConfig, len(r.Tiers))
		for i, t := range r.Tiers {
			c.Tiers[i] = LateFeeTierConfig{StartDay: t.StartDay, EndDay: t.EndDay, Amount: t.Amount, IsPercentage: t.IsPercentage}
		}
	}
	return c
}
