// Package lock provides short-lived named mutual exclusion. The ledger takes
// one lock per group while closing or reopening a period.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotHeld is returned when releasing a lock that is no longer owned.
var ErrNotHeld = errors.New("lock not held")

// Locker acquires named locks. Acquire blocks until the lock is held or ctx
// is done, and returns a release function.
type Locker interface {
	Acquire(ctx context.Context, name string) (release func() error, err error)
}

// LocalLocker is an in-process Locker for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewLocalLocker creates an empty LocalLocker.
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]chan struct{})}
}

// Acquire implements Locker.
func (l *LocalLocker) Acquire(ctx context.Context, name string) (func() error, error) {
	l.mu.Lock()
	ch, ok := l.locks[name]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[name] = ch
	}
	l.mu.Unlock()

	select {
	case ch <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() error {
		released := false
		once.Do(func() {
			<-ch
			released = true
		})
		if !released {
			return ErrNotHeld
		}
		return nil
	}, nil
}
