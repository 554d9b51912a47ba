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

const allocationColumns = `id, period_id, contribution_id, member_id, idempotency_key,
	amount, hand, bank, mode, breakdown, reversed, created_at`

const movementColumns = "id, group_id, period_id, member_id, kind, pool, amount, note, created_at"

// ApplyPayment records a payment, its contribution update and the member's
// loan balance in one transaction.
func (s *SQLiteStore) ApplyPayment(ctx context.Context, params storage.PaymentParams) error {
	a, c := params.Allocation, params.Contribution
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	breakdown, err := json.Marshal(a.Breakdown)
	if err != nil {
		return fmt.Errorf("failed to encode breakdown: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpenPeriod(ctx, tx, c.PeriodID); err != nil {
		return err
	}
	if err := writeContribution(ctx, tx, c); err != nil {
		return err
	}
	if params.Member != nil {
		if err := updateMemberLoan(ctx, tx, params.Member); err != nil {
			return err
		}
	}

	a.ContributionID = c.ID
	var key any
	if a.IdempotencyKey != "" {
		key = a.IdempotencyKey
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO cash_allocations (`+allocationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		a.ID, a.PeriodID, a.ContributionID, a.MemberID, key,
		a.Amount, a.Hand, a.Bank, string(a.Mode), string(breakdown), a.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("payment %q already recorded: %w", a.IdempotencyKey, storage.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert allocation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	c.Version++
	if params.Member != nil {
		params.Member.Version++
	}
	return nil
}

// RevertPayment flags a payment reversed and writes the restored state.
func (s *SQLiteStore) RevertPayment(ctx context.Context, params storage.PaymentParams) error {
	c := params.Contribution

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpenPeriod(ctx, tx, c.PeriodID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE cash_allocations SET reversed = 1 WHERE id = ? AND reversed = 0",
		params.Allocation.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to reverse allocation: %w", err)
	}
	if err := expectOne(res, "allocation "+params.Allocation.ID); err != nil {
		return err
	}

	if err := writeContribution(ctx, tx, c); err != nil {
		return err
	}
	if params.Member != nil {
		if err := updateMemberLoan(ctx, tx, params.Member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	params.Allocation.Reversed = true
	c.Version++
	if params.Member != nil {
		params.Member.Version++
	}
	return nil
}

// GetAllocation retrieves a payment by ID.
func (s *SQLiteStore) GetAllocation(ctx context.Context, allocationID string) (*models.CashAllocation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+allocationColumns+" FROM cash_allocations WHERE id = ?", allocationID)
	a, err := scanAllocation(row)
	if err != nil {
		return nil, notFound(err, "allocation", allocationID)
	}
	return a, nil
}

// GetAllocationByKey retrieves a payment by its idempotency key.
func (s *SQLiteStore) GetAllocationByKey(ctx context.Context, idempotencyKey string) (*models.CashAllocation, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+allocationColumns+" FROM cash_allocations WHERE idempotency_key = ?", idempotencyKey)
	a, err := scanAllocation(row)
	if err != nil {
		return nil, notFound(err, "allocation with key", idempotencyKey)
	}
	return a, nil
}

// ListAllocations returns the payments of a period, reversed ones included.
func (s *SQLiteStore) ListAllocations(ctx context.Context, periodID string) ([]*models.CashAllocation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+allocationColumns+" FROM cash_allocations WHERE period_id = ? ORDER BY created_at, id",
		periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var allocations []*models.CashAllocation
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		allocations = append(allocations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate allocations: %w", err)
	}
	return allocations, nil
}

// RecordCashMovement records an outflow and the member's new loan balance.
func (s *SQLiteStore) RecordCashMovement(ctx context.Context, movement *models.CashMovement, member *models.Member) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	if movement.CreatedAt == 0 {
		movement.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := requireOpenPeriod(ctx, tx, movement.PeriodID); err != nil {
		return err
	}

	var memberID, note any
	if movement.MemberID != "" {
		memberID = movement.MemberID
	}
	if movement.Note != "" {
		note = movement.Note
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO cash_movements ("+movementColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		movement.ID, movement.GroupID, movement.PeriodID, memberID,
		string(movement.Kind), string(movement.Pool), movement.Amount, note, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash movement: %w", err)
	}

	if member != nil {
		if err := updateMemberLoan(ctx, tx, member); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	if member != nil {
		member.Version++
	}
	return nil
}

// ListCashMovements returns the outflows of a period.
func (s *SQLiteStore) ListCashMovements(ctx context.Context, periodID string) ([]*models.CashMovement, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+movementColumns+" FROM cash_movements WHERE period_id = ? ORDER BY created_at, id",
		periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash movements: %w", err)
	}
	defer rows.Close()

	var movements []*models.CashMovement
	for rows.Next() {
		var (
			mv             models.CashMovement
			kind, pool     string
			memberID, note sql.NullString
		)
		if err := rows.Scan(&mv.ID, &mv.GroupID, &mv.PeriodID, &memberID, &kind, &pool, &mv.Amount, &note, &mv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cash movement: %w", err)
		}
		mv.MemberID = memberID.String
		mv.Note = note.String
		mv.Kind = models.MovementKind(kind)
		mv.Pool = models.CashPool(pool)
		movements = append(movements, &mv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cash movements: %w", err)
	}
	return movements, nil
}

func scanAllocation(row scanner) (*models.CashAllocation, error) {
	var (
		a               models.CashAllocation
		key             sql.NullString
		mode, breakdown string
		reversed        int
	)
	err := row.Scan(&a.ID, &a.PeriodID, &a.ContributionID, &a.MemberID, &key,
		&a.Amount, &a.Hand, &a.Bank, &mode, &breakdown, &reversed, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.IdempotencyKey = key.String
	a.Mode = models.CashSplitMode(mode)
	a.Reversed = reversed == 1
	if err := json.Unmarshal([]byte(breakdown), &a.Breakdown); err != nil {
		return nil, fmt.Errorf("failed to decode breakdown of allocation %s: %w", a.ID, err)
	}
	return &a, nil
}
