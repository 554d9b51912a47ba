package ledger

import (
	"context"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

// CreateGroup validates and stores a new group. Its first period is opened
// lazily, once members are known.
func (l *Ledger) CreateGroup(ctx context.Context, g *models.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	g.CurrentPeriodID = ""
	g.Version = 0
	if g.CreatedAt == 0 {
		g.CreatedAt = l.now().Unix()
	}
	return translate(l.store.CreateGroup(ctx, g))
}

// GetGroup returns a group by ID.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := l.store.GetGroup(ctx, groupID)
	return g, translate(err)
}

// ListGroups returns every group.
func (l *Ledger) ListGroups(ctx context.Context) ([]*models.Group, error) {
	groups, err := l.store.ListGroups(ctx)
	return groups, translate(err)
}

// UpdateGroupSettings replaces the settings of an existing group.
// Dues already fixed on existing contributions are not recomputed.
func (l *Ledger) UpdateGroupSettings(ctx context.Context, g *models.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return translate(l.store.UpdateGroupSettings(ctx, g))
}

// AddMember adds a member to an existing group.
func (l *Ledger) AddMember(ctx context.Context, m *models.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, err := l.store.GetGroup(ctx, m.GroupID); err != nil {
		return translate(err)
	}
	m.Version = 0
	if m.CreatedAt == 0 {
		m.CreatedAt = l.now().Unix()
	}
	return translate(l.store.CreateMember(ctx, m))
}

// ListMembers returns the members of a group.
func (l *Ledger) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	members, err := l.store.ListMembers(ctx, groupID)
	return members, translate(err)
}
