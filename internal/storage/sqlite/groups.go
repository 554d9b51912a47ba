package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

const groupColumns = `id, name, frequency, day_of_week, day_of_month, week_of_month, month,
	monthly_contribution, interest_rate, insurance_enabled, insurance_rate,
	social_enabled, social_per_member, late_fee, cash_in_hand, cash_in_bank,
	current_period_id, version, created_at`

// CreateGroup persists a new group.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	lateFee, err := json.Marshal(models.ConfigFromPolicy(group.LateFee))
	if err != nil {
		return fmt.Errorf("failed to encode late fee: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO groups (`+groupColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		group.ID, group.Name, string(group.Schedule.Frequency), dayOfWeek(group.Schedule),
		group.Schedule.DayOfMonth, group.Schedule.WeekOfMonth, int(group.Schedule.Month),
		group.MonthlyContribution, group.InterestRate,
		boolToInt(group.LoanInsurance.Enabled), group.LoanInsurance.RatePercent,
		boolToInt(group.SocialFund.Enabled), group.SocialFund.PerFamilyMember,
		string(lateFee), group.CashInHand, group.CashInBank,
		group.CurrentPeriodID, group.Version, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+groupColumns+" FROM groups WHERE id = ?", groupID)
	group, err := scanGroup(row)
	if err != nil {
		return nil, notFound(err, "group", groupID)
	}
	return group, nil
}

// ListGroups returns every group, oldest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+groupColumns+" FROM groups ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// UpdateGroupSettings writes the group's settings.
func (s *SQLiteStore) UpdateGroupSettings(ctx context.Context, group *models.Group) error {
	lateFee, err := json.Marshal(models.ConfigFromPolicy(group.LateFee))
	if err != nil {
		return fmt.Errorf("failed to encode late fee: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE groups SET name = ?, frequency = ?, day_of_week = ?, day_of_month = ?,
		     week_of_month = ?, month = ?, monthly_contribution = ?, interest_rate = ?,
		     insurance_enabled = ?, insurance_rate = ?, social_enabled = ?,
		     social_per_member = ?, late_fee = ?
		 WHERE id = ?`,
		group.Name, string(group.Schedule.Frequency), dayOfWeek(group.Schedule),
		group.Schedule.DayOfMonth, group.Schedule.WeekOfMonth, int(group.Schedule.Month),
		group.MonthlyContribution, group.InterestRate,
		boolToInt(group.LoanInsurance.Enabled), group.LoanInsurance.RatePercent,
		boolToInt(group.SocialFund.Enabled), group.SocialFund.PerFamilyMember,
		string(lateFee), group.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("group %s: %w", group.ID, storage.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGroup(row scanner) (*models.Group, error) {
	var (
		g                              models.Group
		frequency, lateFee             string
		dow                            sql.NullInt64
		month                          int
		insuranceEnabled, socialEnable int
	)
	err := row.Scan(&g.ID, &g.Name, &frequency, &dow, &g.Schedule.DayOfMonth, &g.Schedule.WeekOfMonth, &month,
		&g.MonthlyContribution, &g.InterestRate, &insuranceEnabled, &g.LoanInsurance.RatePercent,
		&socialEnable, &g.SocialFund.PerFamilyMember, &lateFee, &g.CashInHand, &g.CashInBank,
		&g.CurrentPeriodID, &g.Version, &g.CreatedAt)
	if err != nil {
		return nil, err
	}

	g.Schedule.Frequency = models.Frequency(frequency)
	g.Schedule.Month = time.Month(month)
	if dow.Valid {
		g.Schedule.DayOfWeek = time.Weekday(dow.Int64)
		g.Schedule.HasDayOfWeek = true
	}
	g.LoanInsurance.Enabled = insuranceEnabled == 1
	g.SocialFund.Enabled = socialEnable == 1

	var cfg models.LateFeeConfig
	if err := json.Unmarshal([]byte(lateFee), &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode late fee of group %s: %w", g.ID, err)
	}
	// Stored rules were validated on write; a rule that no longer validates
	// charges nothing rather than blocking reads.
	if g.LateFee, err = cfg.Policy(); err != nil {
		g.LateFee = models.LateFeePolicy{}
	}
	return &g, nil
}

func dayOfWeek(s models.Schedule) any {
	if !s.HasDayOfWeek {
		return nil
	}
	return int(s.DayOfWeek)
}
