// Package subs holds the in-memory subscription set.
//
// The set is hydrated from the store at startup and replaced wholesale
// whenever the external harvester completes a scan. Filtering is only
// meaningful once a harvest has populated it; an empty set is a normal
// (if noisy) state, not an error.
package subs

import (
	"sync"

	"github.com/abelbrown/winnow/internal/logging"
	"github.com/abelbrown/winnow/internal/store"
	"github.com/abelbrown/winnow/internal/textnorm"
)

// Set is a normalized channel-name set backed by the store.
// Thread-safe.
type Set struct {
	mu    sync.RWMutex
	names map[string]struct{}
	st    *store.Store // nil in tests that don't need persistence
}

// New creates an empty, unpersisted Set.
func New() *Set {
	return &Set{names: make(map[string]struct{})}
}

// Load hydrates a Set from the store. Missing or unreadable persisted
// state degrades to an empty set with a diagnostic.
func Load(st *store.Store) *Set {
	s := &Set{names: make(map[string]struct{}), st: st}

	names, err := st.Subscriptions()
	if err != nil {
		logging.Warn("Could not load subscriptions, starting empty", "error", err)
		return s
	}
	for _, name := range names {
		s.names[textnorm.Normalize(name)] = struct{}{}
	}
	if len(s.names) == 0 {
		logging.Info("No stored subscriptions; run a subscription scan to populate the set")
	} else {
		logging.Info("Loaded subscriptions", "count", len(s.names))
	}
	return s
}

// Contains reports whether the normalized form of name is subscribed.
func (s *Set) Contains(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[textnorm.Normalize(name)]
	return ok
}

// Len returns the number of subscribed channels.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Names returns the normalized names, unordered.
func (s *Set) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.names))
	for name := range s.names {
		out = append(out, name)
	}
	return out
}

// Replace swaps the set for the given names (normalizing each) and
// persists the result. A harvest always supersedes the previous set;
// there is no partial merge. A persistence failure is logged and the
// in-memory replacement still takes effect.
func (s *Set) Replace(names []string) {
	next := make(map[string]struct{}, len(names))
	for _, name := range names {
		n := textnorm.Normalize(name)
		if n != "" {
			next[n] = struct{}{}
		}
	}

	s.mu.Lock()
	s.names = next
	st := s.st
	s.mu.Unlock()

	logging.Info("Subscription set replaced", "count", len(next))

	if st != nil {
		flat := make([]string, 0, len(next))
		for name := range next {
			flat = append(flat, name)
		}
		if err := st.ReplaceSubscriptions(flat); err != nil {
			logging.Error("Failed to persist subscriptions", "error", err)
		}
	}
}
