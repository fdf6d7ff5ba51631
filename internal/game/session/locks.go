// Package session owns per-player runtime state outside the combat engine:
// the encounter lock table and the live status feeds.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// ErrEncounterInProgress is returned when a player already has an encounter
// in flight.
var ErrEncounterInProgress = errors.New("encounter already in progress")

// Locks is a per-player try-lock table. At most one holder exists per player
// ID at a time. All methods are safe for concurrent use.
type Locks struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{active: make(map[string]struct{})}
}

// Acquire takes the lock for playerID without blocking.
//
// Postcondition: on success the returned release func must be called exactly
// once; further calls are no-ops. On failure the error wraps
// ErrEncounterInProgress.
func (l *Locks) Acquire(playerID string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.active[playerID]; held {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrEncounterInProgress)
	}
	l.active[playerID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.active, playerID)
			l.mu.Unlock()
		})
	}, nil
}

// With runs fn while holding playerID's lock. The lock is released when fn
// returns or panics.
func (l *Locks) With(playerID string, fn func() error) error {
	release, err := l.Acquire(playerID)
	if err != nil {
		return err
	}
	defer release()
	return fn()
}

// Held reports whether playerID currently holds a lock.
func (l *Locks) Held(playerID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, held := l.active[playerID]
	return held
}

// Len returns the number of held locks.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.active)
}
