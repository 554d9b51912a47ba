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

const periodColumns = `id, group_id, sequence, start_date, end_date, state,
	standing_at_start, cash_in_hand_at_start, cash_in_bank_at_start,
	social_fund_at_start, insurance_fund_at_start, totals, version, created_at`

// GetPeriod retrieves a period by ID.
func (s *SQLiteStore) GetPeriod(ctx context.Context, periodID string) (*models.Period, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+periodColumns+" FROM periods WHERE id = ?", periodID)
	p, err := scanPeriod(row)
	if err != nil {
		return nil, notFound(err, "period", periodID)
	}
	return p, nil
}

// ListPeriods returns a group's periods ordered by sequence.
func (s *SQLiteStore) ListPeriods(ctx context.Context, groupID string) ([]*models.Period, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+periodColumns+" FROM periods WHERE group_id = ? ORDER BY sequence",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.Period
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate periods: %w", err)
	}
	return periods, nil
}

// CreateInitialPeriod inserts the first period of a group that has none.
func (s *SQLiteStore) CreateInitialPeriod(ctx context.Context, period *models.Period, expectedGroupVersion int64) error {
	prepareNewPeriod(period)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET current_period_id = ?, version = version + 1
		 WHERE id = ? AND version = ? AND current_period_id = ''`,
		period.ID, period.GroupID, expectedGroupVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := expectOne(res, "group "+period.GroupID); err != nil {
		return err
	}

	if err := insertPeriod(ctx, tx, period); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ClosePeriod freezes a period and opens its successor.
func (s *SQLiteStore) ClosePeriod(ctx context.Context, params storage.ClosePeriodParams) error {
	totals, err := json.Marshal(params.Totals)
	if err != nil {
		return fmt.Errorf("failed to encode totals: %w", err)
	}
	prepareNewPeriod(params.Successor)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The group must still point at this period with the version we read.
	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET current_period_id = ?, version = version + 1
		 WHERE id = ? AND version = ? AND current_period_id = ?`,
		params.Successor.ID, params.GroupID, params.ExpectedGroupVersion, params.PeriodID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := expectOne(res, "group "+params.GroupID); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE periods SET state = 'CLOSED', end_date = ?, totals = ?, version = version + 1
		 WHERE id = ? AND state = 'OPEN' AND version = ?`,
		params.EndDate.Unix(), string(totals), params.PeriodID, params.ExpectedPeriodVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to close period: %w", err)
	}
	if err := expectOne(res, "period "+params.PeriodID); err != nil {
		return err
	}

	if err := insertPeriod(ctx, tx, params.Successor); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ReopenPeriod undoes a close whose successor has seen no activity.
func (s *SQLiteStore) ReopenPeriod(ctx context.Context, params storage.ReopenPeriodParams) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	activity, err := periodActivity(ctx, tx, params.SuccessorID)
	if err != nil {
		return err
	}
	if !activity.Empty() {
		return fmt.Errorf("period %s: %w", params.SuccessorID, storage.ErrHasActivity)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE groups SET current_period_id = ?, version = version + 1
		 WHERE id = ? AND version = ? AND current_period_id = ?`,
		params.PeriodID, params.GroupID, params.ExpectedGroupVersion, params.SuccessorID,
	)
	if err != nil {
		return fmt.Errorf("failed to update group: %w", err)
	}
	if err := expectOne(res, "group "+params.GroupID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM member_contributions WHERE period_id = ?", params.SuccessorID); err != nil {
		return fmt.Errorf("failed to delete successor contributions: %w", err)
	}
	res, err = tx.ExecContext(ctx, "DELETE FROM periods WHERE id = ? AND state = 'OPEN'", params.SuccessorID)
	if err != nil {
		return fmt.Errorf("failed to delete successor period: %w", err)
	}
	if err := expectOne(res, "period "+params.SuccessorID); err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		`UPDATE periods SET state = 'OPEN', end_date = NULL, totals = NULL, version = version + 1
		 WHERE id = ? AND state = 'CLOSED'`,
		params.PeriodID,
	)
	if err != nil {
		return fmt.Errorf("failed to reopen period: %w", err)
	}
	if err := expectOne(res, "period "+params.PeriodID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// PeriodActivity counts payments and cash movements recorded against a period.
func (s *SQLiteStore) PeriodActivity(ctx context.Context, periodID string) (storage.Activity, error) {
	return periodActivity(ctx, s.db, periodID)
}

func periodActivity(ctx context.Context, q execer, periodID string) (storage.Activity, error) {
	var a storage.Activity
	err := q.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM cash_allocations WHERE period_id = ?),
		        (SELECT COUNT(*) FROM cash_movements WHERE period_id = ?)`,
		periodID, periodID,
	).Scan(&a.Payments, &a.Movements)
	if err != nil {
		return storage.Activity{}, fmt.Errorf("failed to count period activity: %w", err)
	}
	return a, nil
}

func prepareNewPeriod(p *models.Period) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().Unix()
	}
	p.State = models.PeriodOpen
	p.EndDate = nil
	p.Totals = nil
}

func insertPeriod(ctx context.Context, q execer, p *models.Period) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO periods (`+periodColumns+`)
		 VALUES (?, ?, ?, ?, NULL, ?, ?, ?, ?, ?, ?, NULL, ?, ?)`,
		p.ID, p.GroupID, p.Sequence, p.StartDate.Unix(), string(p.State),
		p.StandingAtStart, p.CashInHandAtStart, p.CashInBankAtStart,
		p.SocialFundAtStart, p.InsuranceFundAtStart, p.Version, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("period %d of group %s already exists: %w", p.Sequence, p.GroupID, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert period: %w", err)
	}
	return nil
}

func scanPeriod(row scanner) (*models.Period, error) {
	var (
		p         models.Period
		startDate int64
		endDate   sql.NullInt64
		state     string
		totals    sql.NullString
	)
	err := row.Scan(&p.ID, &p.GroupID, &p.Sequence, &startDate, &endDate, &state,
		&p.StandingAtStart, &p.CashInHandAtStart, &p.CashInBankAtStart,
		&p.SocialFundAtStart, &p.InsuranceFundAtStart, &totals, &p.Version, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	p.StartDate = time.Unix(startDate, 0).UTC()
	if endDate.Valid {
		end := time.Unix(endDate.Int64, 0).UTC()
		p.EndDate = &end
	}
	p.State = models.PeriodState(state)
	if totals.Valid {
		p.Totals = &models.PeriodTotals{}
		if err := json.Unmarshal([]byte(totals.String), p.Totals); err != nil {
			return nil, fmt.Errorf("failed to decode totals of period %s: %w", p.ID, err)
		}
	}
	return &p, nil
}
