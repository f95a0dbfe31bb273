package state

import (
	"fmt"
	"sync"
)

// Store is the single source of truth for grid state. It hands out
// immutable snapshots and applies transitions through Mutate.
type Store struct {
	mu   sync.RWMutex
	snap *Grid

	subMu sync.Mutex
	subs  []func(*Grid)
}

// NewStore seeds the store with an initial snapshot.
func NewStore(initial *Grid) *Store {
	if initial == nil {
		initial = &Grid{}
	}
	return &Store{snap: initial}
}

// Snapshot returns the current snapshot. Snapshots are immutable by
// contract; callers must not modify the returned value.
func (s *Store) Snapshot() *Grid {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Subscribe registers a side-effect invoked with each new snapshot.
// Subscribers run synchronously after a successful mutation, in
// registration order; they must be pure functions of the snapshot.
func (s *Store) Subscribe(fn func(*Grid)) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subs = append(s.subs, fn)
}

// Mutate applies transform to a draft clone of the current snapshot.
// The draft replaces the snapshot only when it structurally differs
// from the original; subscribers are notified only in that case.
// A transform that panics leaves the previous snapshot intact and the
// panic is surfaced as the returned error.
func (s *Store) Mutate(transform func(*Grid)) (changed bool, err error) {
	s.mu.Lock()
	prev := s.snap
	draft := prev.Clone()

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("state transform panicked: %v", r)
			}
		}()
		transform(draft)
	}()

	if err != nil || draft.Equal(prev) {
		s.mu.Unlock()
		return false, err
	}

	s.snap = draft
	s.mu.Unlock()

	s.subMu.Lock()
	subs := s.subs
	s.subMu.Unlock()
	for _, fn := range subs {
		fn(draft)
	}
	return true, nil
}
