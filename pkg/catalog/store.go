// Package catalog holds the in-memory record collections: the append-only
// canonical set of everything loaded this session and the derived visible
// subset the presentation layer reads.
package catalog

import (
	"sync"

	"github.com/pokeapi-tools/pokedex-client/pkg/pokeapi"
)

// Store owns the canonical and visible collections. The canonical
// collection is only ever appended to (by the loader, in batch-completion
// order); the visible collection is fully replaced on every filter
// recomputation, never mutated in place.
//
// The reference model is single-threaded; here a loader goroutine appends
// while HTTP handlers read, so access is guarded.
type Store struct {
	mu        sync.RWMutex
	canonical []pokeapi.Pokemon
	visible   []pokeapi.Pokemon
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Append adds successfully fetched records to the canonical collection.
// Arrival order is preserved and duplicates are retained: listing
// uniqueness is never validated, so a repeated id is kept as-is.
func (s *Store) Append(records []pokeapi.Pokemon) {
	if len(records) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canonical = append(s.canonical, records...)
}

// Canonical returns a copy of the canonical collection.
func (s *Store) Canonical() []pokeapi.Pokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pokeapi.Pokemon, len(s.canonical))
	copy(out, s.canonical)
	return out
}

// SetVisible replaces the visible collection. The input is copied so later
// caller mutations cannot leak into the store.
func (s *Store) SetVisible(records []pokeapi.Pokemon) {
	cp := make([]pokeapi.Pokemon, len(records))
	copy(cp, records)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = cp
}

// Visible returns a copy of the visible collection.
func (s *Store) Visible() []pokeapi.Pokemon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pokeapi.Pokemon, len(s.visible))
	copy(out, s.visible)
	return out
}

// Len returns the size of the canonical collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.canonical)
}

// VisibleLen returns the size of the visible collection.
func (s *Store) VisibleLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.visible)
}
