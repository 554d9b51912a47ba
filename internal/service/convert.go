package service

import (
	"time"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/calculator"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/pkg/api"
)

func groupFromSettings(s api.GroupSettings) (*models.Group, error) {
	lateFee := models.LateFeeConfig{
		Enabled:         s.LateFee.Enabled,
		Kind:            models.LateFeeKind(s.LateFee.Kind),
		DailyAmount:     s.LateFee.DailyAmount,
		DailyPercentage: s.LateFee.DailyPercentage,
	}
	for _, t := range s.LateFee.Tiers {
		lateFee.Tiers = append(lateFee.Tiers, models.LateFeeTierConfig{
			StartDay:     t.StartDay,
			EndDay:       t.EndDay,
			Amount:       t.Amount,
			IsPercentage: t.IsPercentage,
		})
	}
	policy, err := lateFee.Policy()
	if err != nil {
		return nil, err
	}

	schedule := models.Schedule{
		Frequency:   models.Frequency(s.Schedule.Frequency),
		DayOfMonth:  s.Schedule.DayOfMonth,
		WeekOfMonth: s.Schedule.WeekOfMonth,
		Month:       time.Month(s.Schedule.Month),
	}
	if s.Schedule.DayOfWeek != nil {
		schedule.DayOfWeek = time.Weekday(*s.Schedule.DayOfWeek)
		schedule.HasDayOfWeek = true
	}

	return &models.Group{
		Name:                s.Name,
		Schedule:            schedule,
		MonthlyContribution: s.MonthlyContribution,
		InterestRate:        s.InterestRate,
		LoanInsurance:       models.LoanInsurance{Enabled: s.LoanInsuranceEnabled, RatePercent: s.LoanInsuranceRate},
		SocialFund:          models.SocialFund{Enabled: s.SocialFundEnabled, PerFamilyMember: s.SocialFundPerFamilyMember},
		LateFee:             policy,
		CashInHand:          s.CashInHand,
		CashInBank:          s.CashInBank,
	}, nil
}

func toAPIGroup(g *models.Group) *api.Group {
	cfg := models.ConfigFromPolicy(g.LateFee)
	lateFee := api.LateFee{
		Enabled:         cfg.Enabled,
		Kind:            string(cfg.Kind),
		DailyAmount:     cfg.DailyAmount,
		DailyPercentage: cfg.DailyPercentage,
	}
	for _, t := range cfg.Tiers {
		lateFee.Tiers = append(lateFee.Tiers, api.LateFeeTier{
			StartDay:     t.StartDay,
			EndDay:       t.EndDay,
			Amount:       t.Amount,
			IsPercentage: t.IsPercentage,
		})
	}

	schedule := api.Schedule{
		Frequency:   string(g.Schedule.Frequency),
		DayOfMonth:  g.Schedule.DayOfMonth,
		WeekOfMonth: g.Schedule.WeekOfMonth,
		Month:       int(g.Schedule.Month),
	}
	if g.Schedule.HasDayOfWeek {
		dow := int(g.Schedule.DayOfWeek)
		schedule.DayOfWeek = &dow
	}

	return &api.Group{
		ID: g.ID,
		GroupSettings: api.GroupSettings{
			Name:                      g.Name,
			Schedule:                  schedule,
			MonthlyContribution:       g.MonthlyContribution,
			InterestRate:              g.InterestRate,
			LoanInsuranceEnabled:      g.LoanInsurance.Enabled,
			LoanInsuranceRate:         g.LoanInsurance.RatePercent,
			SocialFundEnabled:         g.SocialFund.Enabled,
			SocialFundPerFamilyMember: g.SocialFund.PerFamilyMember,
			LateFee:                   lateFee,
			CashInHand:                g.CashInHand,
			CashInBank:                g.CashInBank,
		},
		CurrentPeriodID: g.CurrentPeriodID,
		Version:         g.Version,
		CreatedAt:       g.CreatedAt,
	}
}

func toAPIMember(m *models.Member) *api.Member {
	if m == nil {
		return nil
	}
	return &api.Member{
		ID:          m.ID,
		GroupID:     m.GroupID,
		Name:        m.Name,
		FamilySize:  m.FamilySize,
		LoanBalance: m.LoanBalance,
		Version:     m.Version,
		CreatedAt:   m.CreatedAt,
	}
}

func toAPITotals(t *models.PeriodTotals) *api.PeriodTotals {
	if t == nil {
		return nil
	}
	return &api.PeriodTotals{
		TotalCollection:      t.TotalCollection,
		NewContributions:     t.NewContributions,
		InterestEarned:       t.InterestEarned,
		LateFeesCollected:    t.LateFeesCollected,
		SocialFundCollected:  t.SocialFundCollected,
		InsuranceCollected:   t.InsuranceCollected,
		LoanPrincipalRepaid:  t.LoanPrincipalRepaid,
		Expenses:             t.Expenses,
		LoansDisbursed:       t.LoansDisbursed,
		EndingCashInHand:     t.EndingCashInHand,
		EndingCashInBank:     t.EndingCashInBank,
		LoanOutstanding:      t.LoanOutstanding,
		SocialFundBalance:    t.SocialFundBalance,
		InsuranceFundBalance: t.InsuranceFundBalance,
		GroupStanding:        t.GroupStanding,
		SharePerMember:       t.SharePerMember,
		MemberCount:          t.MemberCount,
		MembersPresent:       t.MembersPresent,
	}
}

func toAPIPeriod(p *models.Period) *api.Period {
	if p == nil {
		return nil
	}
	out := &api.Period{
		ID:                   p.ID,
		GroupID:              p.GroupID,
		Sequence:             p.Sequence,
		StartDate:            p.StartDate.Format(api.DateLayout),
		State:                string(p.State),
		StandingAtStart:      p.StandingAtStart,
		CashInHandAtStart:    p.CashInHandAtStart,
		CashInBankAtStart:    p.CashInBankAtStart,
		SocialFundAtStart:    p.SocialFundAtStart,
		InsuranceFundAtStart: p.InsuranceFundAtStart,
		Totals:               toAPITotals(p.Totals),
		Version:              p.Version,
	}
	if p.EndDate != nil {
		out.EndDate = p.EndDate.Format(api.DateLayout)
	}
	return out
}

func toAPIBuckets(b models.Buckets) api.Buckets {
	return api.Buckets{
		Contribution:  b.Contribution,
		Interest:      b.Interest,
		LateFee:       b.LateFee,
		SocialFund:    b.SocialFund,
		LoanInsurance: b.LoanInsurance,
		LoanPrincipal: b.LoanPrincipal,
	}
}

func toAPIContribution(c *models.MemberContribution) *api.Contribution {
	if c == nil {
		return nil
	}
	out := &api.Contribution{
		ID:       c.ID,
		PeriodID: c.PeriodID,
		MemberID: c.MemberID,
		Due: api.Dues{
			Contribution:  c.Due.Contribution,
			Interest:      c.Due.Interest,
			LateFee:       c.Due.LateFee,
			SocialFund:    c.Due.SocialFund,
			LoanInsurance: c.Due.LoanInsurance,
			Total:         c.Due.Total(),
		},
		Paid:            toAPIBuckets(c.Paid),
		TotalPaid:       c.TotalPaid,
		Remaining:       c.Remaining,
		Status:          string(c.Status),
		EffectiveStatus: string(c.EffectiveStatus()),
		DaysLate:        c.DaysLate,
		DueDate:         c.DueDate.Format(api.DateLayout),
		Version:         c.Version,
	}
	if c.AuthoritativeStatus != nil {
		out.AuthoritativeStatus = string(*c.AuthoritativeStatus)
	}
	return out
}

func toAPIAllocation(a *models.CashAllocation) *api.Allocation {
	if a == nil {
		return nil
	}
	return &api.Allocation{
		ID:             a.ID,
		PeriodID:       a.PeriodID,
		ContributionID: a.ContributionID,
		MemberID:       a.MemberID,
		IdempotencyKey: a.IdempotencyKey,
		Amount:         a.Amount,
		Hand:           a.Hand,
		Bank:           a.Bank,
		Mode:           string(a.Mode),
		Breakdown:      toAPIBuckets(a.Breakdown),
		Reversed:       a.Reversed,
		CreatedAt:      a.CreatedAt,
	}
}

func toAPIMovement(mv *models.CashMovement) *api.CashMovement {
	if mv == nil {
		return nil
	}
	return &api.CashMovement{
		ID:        mv.ID,
		GroupID:   mv.GroupID,
		PeriodID:  mv.PeriodID,
		MemberID:  mv.MemberID,
		Kind:      string(mv.Kind),
		Pool:      string(mv.Pool),
		Amount:    mv.Amount,
		Note:      mv.Note,
		CreatedAt: mv.CreatedAt,
	}
}

func cashSplitRequest(s *api.CashSplit) calculator.CashSplitRequest {
	if s == nil {
		return calculator.CashSplitRequest{Mode: models.CashSplitAuto}
	}
	return calculator.CashSplitRequest{
		Mode:      models.CashSplitMode(s.Mode),
		HandRatio: s.HandRatio,
		Hand:      s.Hand,
		Bank:      s.Bank,
	}
}

// parseDate parses an optional wire date. Empty input yields nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(api.DateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
