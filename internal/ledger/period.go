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
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

// CloseResult is the outcome of ClosePeriod.
type CloseResult struct {
	// Period is the period as stored after the call.
	Period *models.Period

	// Successor is the group's current OPEN period after the call, if any.
	Successor *models.Period

	// AlreadyClosed is set when the period was not the group's open period
	// any more. The caller should refresh; nothing was written.
	AlreadyClosed bool
}

// ReopenResult is the outcome of ReopenPeriod.
type ReopenResult struct {
	Period *models.Period

	// DeletedSuccessorID is the period removed by the reopen.
	DeletedSuccessorID string

	// AlreadyOpen is set when the period already was the group's open period.
	AlreadyOpen bool
}

// EnsureCurrentPeriod returns the group's OPEN period, creating the first
// one when the group has none.
func (l *Ledger) EnsureCurrentPeriod(ctx context.Context, groupID string) (*models.Period, error) {
	g, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, translate(err)
	}
	if g.CurrentPeriodID != "" {
		p, err := l.store.GetPeriod(ctx, g.CurrentPeriodID)
		return p, translate(err)
	}
	return l.createInitialPeriod(ctx, g)
}

// createInitialPeriod opens sequence 1 with the standing seeded from the
// group's starting cash and its members' loans.
func (l *Ledger) createInitialPeriod(ctx context.Context, g *models.Group) (*models.Period, error) {
	members, err := l.store.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, translate(err)
	}

	p := &models.Period{
		GroupID:              g.ID,
		Sequence:             1,
		StartDate:            calculator.DateOf(l.now()),
		State:                models.PeriodOpen,
		StandingAtStart:      calculator.InitialStanding(g, members),
		CashInHandAtStart:    g.CashInHand,
		CashInBankAtStart:    g.CashInBank,
		SocialFundAtStart:    decimal.Zero,
		InsuranceFundAtStart: decimal.Zero,
		CreatedAt:            l.now().Unix(),
	}
	err = l.store.CreateInitialPeriod(ctx, p, g.Version)
	if errors.Is(err, storage.ErrConflict) {
		// Someone else opened it first.
		g, err = l.store.GetGroup(ctx, g.ID)
		if err != nil {
			return nil, translate(err)
		}
		if g.CurrentPeriodID == "" {
			return nil, models.ErrStaleState
		}
		p, err := l.store.GetPeriod(ctx, g.CurrentPeriodID)
		return p, translate(err)
	}
	if err != nil {
		return nil, translate(err)
	}

	slog.Info("Opened first period", "group_id", g.ID, "period_id", p.ID, "standing", p.StandingAtStart.StringFixed(2))
	return p, nil
}

// CurrentPeriod returns the group's OPEN period without creating one.
func (l *Ledger) CurrentPeriod(ctx context.Context, groupID string) (*models.Period, error) {
	g, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, translate(err)
	}
	if g.CurrentPeriodID == "" {
		return nil, models.ErrNoActivePeriod
	}
	p, err := l.store.GetPeriod(ctx, g.CurrentPeriodID)
	return p, translate(err)
}

// ListPeriods returns the group's periods ordered by sequence.
func (l *Ledger) ListPeriods(ctx context.Context, groupID string) ([]*models.Period, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, translate(err)
	}
	periods, err := l.store.ListPeriods(ctx, groupID)
	return periods, translate(err)
}

// GetPeriod returns a period by ID.
func (l *Ledger) GetPeriod(ctx context.Context, periodID string) (*models.Period, error) {
	p, err := l.store.GetPeriod(ctx, periodID)
	return p, translate(err)
}

// ClosePeriod freezes the period's totals and opens its successor.
//
// Closing is serialized per group. A period that is no longer the group's
// open period, including one lost to a concurrent close, yields
// AlreadyClosed rather than an error.
func (l *Ledger) ClosePeriod(ctx context.Context, periodID string) (*CloseResult, error) {
	start := time.Now()
	res, err := l.closePeriod(ctx, periodID)

	outcome := metrics.OutcomeOK
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		if models.IsConflict(err) {
			outcome = metrics.OutcomeConflict
		}
	case res.AlreadyClosed:
		outcome = metrics.OutcomeAlreadyClosed
	}
	l.metrics.PeriodClosed(outcome, time.Since(start))
	return res, err
}

func (l *Ledger) closePeriod(ctx context.Context, periodID string) (*CloseResult, error) {
	p, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, translate(err)
	}

	release, err := l.locker.Acquire(ctx, groupLockName(p.GroupID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(); err != nil {
			slog.Warn("Failed to release group lock", "group_id", p.GroupID, "error", err)
		}
	}()

	// Re-read under the lock.
	g, err := l.store.GetGroup(ctx, p.GroupID)
	if err != nil {
		return nil, translate(err)
	}
	if p, err = l.store.GetPeriod(ctx, periodID); err != nil {
		return nil, translate(err)
	}
	if !p.IsOpen() || g.CurrentPeriodID != p.ID {
		return l.alreadyClosed(ctx, p.GroupID, periodID)
	}

	totals, err := l.aggregate(ctx, p)
	if err != nil {
		return nil, err
	}

	successor := &models.Period{
		GroupID:              g.ID,
		Sequence:             p.Sequence + 1,
		StartDate:            calculator.NextPeriodStart(g.Schedule.Frequency, p.StartDate),
		State:                models.PeriodOpen,
		StandingAtStart:      totals.GroupStanding,
		CashInHandAtStart:    totals.EndingCashInHand,
		CashInBankAtStart:    totals.EndingCashInBank,
		SocialFundAtStart:    totals.SocialFundBalance,
		InsuranceFundAtStart: totals.InsuranceFundBalance,
		CreatedAt:            l.now().Unix(),
	}
	err = l.store.ClosePeriod(ctx, storage.ClosePeriodParams{
		GroupID:               g.ID,
		ExpectedGroupVersion:  g.Version,
		PeriodID:              p.ID,
		ExpectedPeriodVersion: p.Version,
		EndDate:               calculator.DateOf(l.now()),
		Totals:                totals,
		Successor:             successor,
	})
	if errors.Is(err, storage.ErrConflict) {
		return l.alreadyClosed(ctx, p.GroupID, periodID)
	}
	if err != nil {
		return nil, translate(err)
	}

	closed, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, translate(err)
	}
	slog.Info("Closed period",
		"group_id", g.ID,
		"period_id", p.ID,
		"sequence", p.Sequence,
		"standing", totals.GroupStanding.StringFixed(2),
		"successor_id", successor.ID,
	)
	return &CloseResult{Period: closed, Successor: successor}, nil
}

func (l *Ledger) alreadyClosed(ctx context.Context, groupID, periodID string) (*CloseResult, error) {
	p, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, translate(err)
	}
	res := &CloseResult{Period: p, AlreadyClosed: true}
	if g, err := l.store.GetGroup(ctx, groupID); err == nil && g.CurrentPeriodID != "" {
		if cur, err := l.store.GetPeriod(ctx, g.CurrentPeriodID); err == nil {
			res.Successor = cur
		}
	}
	return res, nil
}

// ReopenPeriod turns the most recently closed period back into the group's
// open period and deletes its successor. The successor must not hold any
// payment or cash movement.
func (l *Ledger) ReopenPeriod(ctx context.Context, periodID string) (*ReopenResult, error) {
	res, err := l.reopenPeriod(ctx, periodID)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
		if models.IsConflict(err) {
			outcome = metrics.OutcomeConflict
		}
	}
	l.metrics.PeriodReopened(outcome)
	return res, err
}

func (l *Ledger) reopenPeriod(ctx context.Context, periodID string) (*ReopenResult, error) {
	p, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, translate(err)
	}

	release, err := l.locker.Acquire(ctx, groupLockName(p.GroupID))
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(); err != nil {
			slog.Warn("Failed to release group lock", "group_id", p.GroupID, "error", err)
		}
	}()

	g, err := l.store.GetGroup(ctx, p.GroupID)
	if err != nil {
		return nil, translate(err)
	}
	if p, err = l.store.GetPeriod(ctx, periodID); err != nil {
		return nil, translate(err)
	}
	if p.IsOpen() {
		if g.CurrentPeriodID == p.ID {
			return &ReopenResult{Period: p, AlreadyOpen: true}, nil
		}
		return nil, models.ErrNotLatestClosed
	}
	if g.CurrentPeriodID == "" {
		return nil, models.ErrNotLatestClosed
	}

	successor, err := l.store.GetPeriod(ctx, g.CurrentPeriodID)
	if err != nil {
		return nil, translate(err)
	}
	if successor.Sequence != p.Sequence+1 || !successor.IsOpen() {
		return nil, models.ErrNotLatestClosed
	}

	activity, err := l.store.PeriodActivity(ctx, successor.ID)
	if err != nil {
		return nil, translate(err)
	}
	if !activity.Empty() {
		return nil, models.ErrSuccessorActive
	}

	err = l.store.ReopenPeriod(ctx, storage.ReopenPeriodParams{
		GroupID:              g.ID,
		ExpectedGroupVersion: g.Version,
		PeriodID:             p.ID,
		SuccessorID:          successor.ID,
	})
	if err != nil {
		return nil, translate(err)
	}

	reopened, err := l.store.GetPeriod(ctx, periodID)
	if err != nil {
		return nil, translate(err)
	}
	slog.Info("Reopened period",
		"group_id", g.ID,
		"period_id", p.ID,
		"sequence", p.Sequence,
		"deleted_successor_id", successor.ID,
	)
	return &ReopenResult{Period: reopened, DeletedSuccessorID: successor.ID}, nil
}

// PreviewStanding computes the totals the group's open period would close
// with right now, without writing anything.
func (l *Ledger) PreviewStanding(ctx context.Context, groupID string) (*models.Period, models.PeriodTotals, error) {
	p, err := l.CurrentPeriod(ctx, groupID)
	if err != nil {
		return nil, models.PeriodTotals{}, err
	}
	totals, err := l.aggregate(ctx, p)
	if err != nil {
		return nil, models.PeriodTotals{}, err
	}
	return p, totals, nil
}

func (l *Ledger) aggregate(ctx context.Context, p *models.Period) (models.PeriodTotals, error) {
	members, err := l.store.ListMembers(ctx, p.GroupID)
	if err != nil {
		return models.PeriodTotals{}, translate(err)
	}
	contributions, err := l.store.ListContributions(ctx, p.ID)
	if err != nil {
		return models.PeriodTotals{}, translate(err)
	}
	allocations, err := l.store.ListAllocations(ctx, p.ID)
	if err != nil {
		return models.PeriodTotals{}, translate(err)
	}
	movements, err := l.store.ListCashMovements(ctx, p.ID)
	if err != nil {
		return models.PeriodTotals{}, translate(err)
	}
	return calculator.Aggregate(calculator.StandingInput{
		Period:        p,
		Members:       members,
		Contributions: contributions,
		Allocations:   allocations,
		Movements:     movements,
	}), nil
}
