package ledger

import (
	"sync"

	"EconomySentinel/internal/model"
)

// Store holds the last-known resource values for immediate display.
// Owned exclusively by the economy manager; UI collaborators read
// snapshots and subscribe to change notifications.
type Store struct {
	mu     sync.Mutex
	values model.Ledger
}

// NewStore creates a store seeded with initial values. Unknown resources
// in initial are ignored; known resources missing from it start at zero.
func NewStore(initial model.Ledger) *Store {
	values := model.NewLedger()
	for _, r := range model.CanonicalOrder {
		if v, ok := initial[r]; ok && v > 0 {
			values[r] = v
		}
	}
	return &Store{values: values}
}

// Get returns the current value of a single resource.
func (s *Store) Get(r model.Resource) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[r]
}

// Snapshot returns a copy of the full ledger.
func (s *Store) Snapshot() model.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values.Clone()
}

// Add increases a resource by amount and returns the new value.
// The upper bound is enforced by the validator before mutation,
// not reapplied here.
func (s *Store) Add(r model.Resource, amount int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[r] += amount
	return s.values[r]
}

// Deduct decreases a resource by amount, clamping at zero, and
// returns the new value.
func (s *Store) Deduct(r model.Resource, amount int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[r] - amount
	if v < 0 {
		v = 0
	}
	s.values[r] = v
	return v
}

// Replace overwrites the resources present in truth, leaving all other
// keys untouched. Values are set, never added, so applying the same
// server confirmation twice cannot double-apply a delta.
func (s *Store) Replace(truth model.Ledger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for r, v := range truth {
		if v < 0 {
			v = 0
		}
		s.values[r] = v
	}
}
