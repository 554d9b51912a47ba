package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrorKind classifies a DomainError for callers.
type ErrorKind int

const (
	// KindValidation means the input was rejected before anything was written.
	KindValidation ErrorKind = iota + 1
	// KindConflict means the state moved under the caller; refresh and retry.
	KindConflict
	// KindNotFound means a referenced record does not exist.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// DomainError is a classified engine error.
type DomainError struct {
	Kind    ErrorKind
	Code    string
	Message string

	// Field names the offending input, for field-level feedback.
	Field string

	// MaxAllowed is set on overpayment rejections.
	MaxAllowed *decimal.Decimal
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches DomainErrors by code, so sentinel values work with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewValidationError creates a validation error for field.
func NewValidationError(code, field, message string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Field: field, Message: message}
}

// NewConflictError creates a conflict error.
func NewConflictError(code, message string) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *DomainError {
	return &DomainError{Kind: KindNotFound, Code: code, Message: message}
}

// Common domain errors
var (
	ErrNonPositiveAmount = NewValidationError("NON_POSITIVE_AMOUNT", "amount", "payment amount must be greater than zero")
	ErrOverpayment       = NewValidationError("OVERPAYMENT", "amount", "payment amount exceeds remaining amount")
	ErrInvalidCashSplit  = NewValidationError("INVALID_CASH_SPLIT", "cash_split", "cash split does not match the amount paid")
	ErrNoActivePeriod    = NewConflictError("NO_ACTIVE_PERIOD", "group has no open period")
	ErrPeriodNotOpen     = NewConflictError("PERIOD_NOT_OPEN", "period is not open")
	ErrNotLatestClosed   = NewConflictError("NOT_LATEST_CLOSED", "only the most recently closed period can be reopened")
	ErrSuccessorActive   = NewConflictError("SUCCESSOR_HAS_ACTIVITY", "the following period already has payments or cash movements")
	ErrStaleState        = NewConflictError("STALE_STATE", "record was modified by another request")
	ErrNotFound          = NewNotFoundError("NOT_FOUND", "resource not found")
)

// KindOf returns the kind of err if it wraps a DomainError, or zero.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool { return KindOf(err) == KindConflict }

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// Overpayment returns an overpayment error carrying the maximum allowed amount.
func Overpayment(maxAllowed decimal.Decimal) *DomainError {
	return &DomainError{
		Kind:       KindValidation,
		Code:       ErrOverpayment.Code,
		Field:      ErrOverpayment.Field,
		Message:    "payment amount exceeds remaining amount, maximum allowed: " + maxAllowed.StringFixed(2),
		MaxAllowed: &maxAllowed,
	}
}
