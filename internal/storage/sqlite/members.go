package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
)

const memberColumns = "id, group_id, name, family_size, loan_balance, version, created_at"

// CreateMember persists a new member.
func (s *SQLiteStore) CreateMember(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.New().String()
	}
	if member.CreatedAt == 0 {
		member.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members ("+memberColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		member.ID, member.GroupID, member.Name, member.FamilySize, member.LoanBalance, member.Version, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// GetMember retrieves a member by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, memberID string) (*models.Member, error) {
	m := &models.Member{}
	err := s.db.QueryRowContext(ctx, "SELECT "+memberColumns+" FROM members WHERE id = ?", memberID).
		Scan(&m.ID, &m.GroupID, &m.Name, &m.FamilySize, &m.LoanBalance, &m.Version, &m.CreatedAt)
	if err != nil {
		return nil, notFound(err, "member", memberID)
	}
	return m, nil
}

// ListMembers returns the members of a group in joining order.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID string) ([]*models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM members WHERE group_id = ? ORDER BY created_at, name, id",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.Member
	for rows.Next() {
		m := &models.Member{}
		if err := rows.Scan(&m.ID, &m.GroupID, &m.Name, &m.FamilySize, &m.LoanBalance, &m.Version, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// updateMemberLoan writes the member's loan balance if its version still matches.
func updateMemberLoan(ctx context.Context, q execer, m *models.Member) error {
	res, err := q.ExecContext(ctx,
		"UPDATE members SET loan_balance = ?, version = version + 1 WHERE id = ? AND version = ?",
		m.LoanBalance, m.ID, m.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return expectOne(res, "member "+m.ID)
}
