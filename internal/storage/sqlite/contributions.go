package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

const contributionColumns = `id, period_id, member_id,
	due_contribution, due_interest, due_late_fee, due_social_fund, due_loan_insurance,
	paid_contribution, paid_interest, paid_late_fee, paid_social_fund, paid_loan_insurance, paid_loan_principal,
	total_paid, remaining, status, authoritative_status, days_late, due_date,
	version, created_at, updated_at`

// GetContribution retrieves the contribution of a member in a period.
func (s *SQLiteStore) GetContribution(ctx context.Context, periodID, memberID string) (*models.MemberContribution, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+contributionColumns+" FROM member_contributions WHERE period_id = ? AND member_id = ?",
		periodID, memberID,
	)
	c, err := scanContribution(row)
	if err != nil {
		return nil, notFound(err, "contribution of member", memberID)
	}
	return c, nil
}

// GetContributionByID retrieves a contribution by ID.
func (s *SQLiteStore) GetContributionByID(ctx context.Context, contributionID string) (*models.MemberContribution, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+contributionColumns+" FROM member_contributions WHERE id = ?", contributionID)
	c, err := scanContribution(row)
	if err != nil {
		return nil, notFound(err, "contribution", contributionID)
	}
	return c, nil
}

// ListContributions returns every contribution recorded in a period.
func (s *SQLiteStore) ListContributions(ctx context.Context, periodID string) ([]*models.MemberContribution, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+contributionColumns+" FROM member_contributions WHERE period_id = ? ORDER BY created_at, id",
		periodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []*models.MemberContribution
	for rows.Next() {
		c, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}

// SaveContribution inserts or updates a contribution outside a payment.
func (s *SQLiteStore) SaveContribution(ctx context.Context, c *models.MemberContribution) error {
	if err := writeContribution(ctx, s.db, c); err != nil {
		return err
	}
	c.Version++
	return nil
}

// writeContribution inserts c when its version is zero, otherwise updates it
// if the stored version matches. It does not touch c.Version.
func writeContribution(ctx context.Context, q execer, c *models.MemberContribution) error {
	now := time.Now().Unix()
	c.UpdatedAt = now

	var authoritative any
	if c.AuthoritativeStatus != nil {
		authoritative = string(*c.AuthoritativeStatus)
	}

	if c.Version == 0 {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		if c.CreatedAt == 0 {
			c.CreatedAt = now
		}
		_, err := q.ExecContext(ctx,
			`INSERT INTO member_contributions (`+contributionColumns+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)`,
			c.ID, c.PeriodID, c.MemberID,
			c.Due.Contribution, c.Due.Interest, c.Due.LateFee, c.Due.SocialFund, c.Due.LoanInsurance,
			c.Paid.Contribution, c.Paid.Interest, c.Paid.LateFee, c.Paid.SocialFund, c.Paid.LoanInsurance, c.Paid.LoanPrincipal,
			c.TotalPaid, c.Remaining, string(c.Status), authoritative, c.DaysLate, c.DueDate.Unix(),
			c.CreatedAt, c.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("contribution of member %s already exists: %w", c.MemberID, storage.ErrConflict)
		}
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
		return nil
	}

	res, err := q.ExecContext(ctx,
		`UPDATE member_contributions SET
		     due_contribution = ?, due_interest = ?, due_late_fee = ?, due_social_fund = ?, due_loan_insurance = ?,
		     paid_contribution = ?, paid_interest = ?, paid_late_fee = ?, paid_social_fund = ?,
		     paid_loan_insurance = ?, paid_loan_principal = ?,
		     total_paid = ?, remaining = ?, status = ?, authoritative_status = ?, days_late = ?, due_date = ?,
		     version = version + 1, updated_at = ?
		 WHERE id = ? AND version = ?`,
		c.Due.Contribution, c.Due.Interest, c.Due.LateFee, c.Due.SocialFund, c.Due.LoanInsurance,
		c.Paid.Contribution, c.Paid.Interest, c.Paid.LateFee, c.Paid.SocialFund,
		c.Paid.LoanInsurance, c.Paid.LoanPrincipal,
		c.TotalPaid, c.Remaining, string(c.Status), authoritative, c.DaysLate, c.DueDate.Unix(),
		c.UpdatedAt, c.ID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update contribution: %w", err)
	}
	return expectOne(res, "contribution "+c.ID)
}

func scanContribution(row scanner) (*models.MemberContribution, error) {
	var (
		c             models.MemberContribution
		status        string
		authoritative sql.NullString
		dueDate       int64
	)
	err := row.Scan(&c.ID, &c.PeriodID, &c.MemberID,
		&c.Due.Contribution, &c.Due.Interest, &c.Due.LateFee, &c.Due.SocialFund, &c.Due.LoanInsurance,
		&c.Paid.Contribution, &c.Paid.Interest, &c.Paid.LateFee, &c.Paid.SocialFund, &c.Paid.LoanInsurance, &c.Paid.LoanPrincipal,
		&c.TotalPaid, &c.Remaining, &status, &authoritative, &c.DaysLate, &dueDate,
		&c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Status = models.ContributionStatus(status)
	if authoritative.Valid {
		s := models.ContributionStatus(authoritative.String)
		c.AuthoritativeStatus = &s
	}
	c.DueDate = time.Unix(dueDate, 0).UTC()
	return &c, nil
}
