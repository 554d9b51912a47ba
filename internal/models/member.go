package models

import "github.com/shopspring/decimal"

// Member is a participant of one group.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	GroupID string
	Name    string

	// FamilySize is at least 1 and scales the social fund due.
	FamilySize int

	// LoanBalance is the outstanding loan principal, never negative.
	LoanBalance decimal.Decimal

	// Version is bumped on every loan balance change.
	Version int64

	// CreatedAt is the Unix timestamp when the member joined.
	CreatedAt int64
}

// Validate checks the member's fields.
func (m *Member) Validate() error {
	if m.GroupID == "" {
		return NewValidationError("INVALID_MEMBER", "group_id", "member must belong to a group")
	}
	if m.Name == "" {
		return NewValidationError("INVALID_MEMBER", "name", "member name is required")
	}
	if m.FamilySize < 1 {
		return NewValidationError("INVALID_MEMBER", "family_size", "family size must be at least 1")
	}
	if m.LoanBalance.IsNegative() {
		return NewValidationError("INVALID_MEMBER", "loan_balance", "loan balance must not be negative")
	}
	return nil
}
