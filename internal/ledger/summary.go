package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/calculator"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

// GetDueSummary returns one contribution per member of the group in the
// period. An empty periodID selects the group's open period, creating the
// first one if needed.
//
// In an OPEN period, members seen for the first time get their contribution
// created with dues fixed as of asOf. The late fee of every returned
// contribution is re-derived as of asOf (nil means now) without being
// stored. CLOSED periods are returned as frozen.
func (l *Ledger) GetDueSummary(ctx context.Context, groupID, periodID string, asOf *time.Time) ([]*models.MemberContribution, error) {
	g, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, translate(err)
	}

	var p *models.Period
	if periodID == "" {
		p, err = l.EnsureCurrentPeriod(ctx, groupID)
	} else {
		p, err = l.store.GetPeriod(ctx, periodID)
		err = translate(err)
	}
	if err != nil {
		return nil, err
	}
	if p.GroupID != g.ID {
		return nil, models.NewNotFoundError(models.ErrNotFound.Code, "period "+p.ID+" does not belong to group "+g.ID)
	}

	if !p.IsOpen() {
		contributions, err := l.store.ListContributions(ctx, p.ID)
		return contributions, translate(err)
	}

	at := l.now()
	if asOf != nil {
		at = asOf.UTC()
	}

	members, err := l.store.ListMembers(ctx, g.ID)
	if err != nil {
		return nil, translate(err)
	}

	summary := make([]*models.MemberContribution, 0, len(members))
	for _, m := range members {
		c, err := l.observe(ctx, g, p, m, at)
		if err != nil {
			return nil, err
		}
		summary = append(summary, c)
	}
	return summary, nil
}

// observe returns the member's contribution with its late fee refreshed as
// of at, creating and storing it on first sight.
func (l *Ledger) observe(ctx context.Context, g *models.Group, p *models.Period, m *models.Member, at time.Time) (*models.MemberContribution, error) {
	due, err := calculator.ComputeDue(calculator.DueInput{Group: g, Member: m, PeriodStart: &p.StartDate, AsOf: at})
	if err != nil {
		return nil, err
	}

	c, err := l.store.GetContribution(ctx, p.ID, m.ID)
	if errors.Is(err, storage.ErrNotFound) {
		c = newContribution(p, m, due, l.now())
		err = l.store.SaveContribution(ctx, c)
		if errors.Is(err, storage.ErrConflict) {
			// Created concurrently; use the stored one.
			c, err = l.store.GetContribution(ctx, p.ID, m.ID)
		}
		if err != nil {
			return nil, translate(err)
		}
	} else if err != nil {
		return nil, translate(err)
	}

	calculator.RefreshLateFee(c, due)
	return c, nil
}

// newContribution builds an unsaved contribution with dues fixed from due.
func newContribution(p *models.Period, m *models.Member, due calculator.DueSummary, now time.Time) *models.MemberContribution {
	c := &models.MemberContribution{
		PeriodID:  p.ID,
		MemberID:  m.ID,
		Due:       due.Due,
		DueDate:   due.DueDate,
		DaysLate:  due.DaysLate,
		CreatedAt: now.Unix(),
	}
	calculator.Settle(c)
	return c
}
