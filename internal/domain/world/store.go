package world

import "sync"

// Store holds the current world snapshot. Readers get clones;
// Commit swaps the snapshot atomically. The calendar loop is the only
// caller of Commit, which is what keeps a day's update all-or-nothing.
type Store struct {
	mu      sync.RWMutex
	current *World
}

func NewStore(w *World) *Store {
	return &Store{current: w.Clone()}
}

// Snapshot returns a deep copy safe to mutate.
func (s *Store) Snapshot() *World {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Commit replaces the current snapshot.
func (s *Store) Commit(w *World) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = w
}
