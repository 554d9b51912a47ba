// Package ledger is the only writer of period and contribution state. It
// orchestrates the pure calculators against a storage.Store: the period state
// machine, due summaries, payments and cash movements.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PixelCode01/SHG-Mangement-sub000/internal/calculator"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/lock"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/metrics"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/models"
	"github.com/PixelCode01/SHG-Mangement-sub000/internal/storage"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Ledger reconciles contributions of savings groups.
type Ledger struct {
	store     storage.Store
	clock     Clock
	locker    lock.Locker
	metrics   *metrics.Metrics
	handRatio decimal.Decimal
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithLocker replaces the in-process group locker.
func WithLocker(lk lock.Locker) Option {
	return func(l *Ledger) { l.locker = lk }
}

// WithMetrics records ledger activity in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) { l.metrics = m }
}

// WithHandRatio sets the default share of AUTO cash splits kept in hand.
func WithHandRatio(r decimal.Decimal) Option {
	return func(l *Ledger) { l.handRatio = r }
}

// New creates a Ledger on store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		clock:     SystemClock{},
		locker:    lock.NewLocalLocker(),
		handRatio: calculator.DefaultHandRatio,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC()
}

func groupLockName(groupID string) string {
	return "group:" + groupID
}

// translate maps storage sentinels onto domain errors, keeping the cause.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return fmt.Errorf("%w: %v", models.ErrStaleState, err)
	case errors.Is(err, storage.ErrHasActivity):
		return fmt.Errorf("%w: %v", models.ErrSuccessorActive, err)
	}
	return err
}
