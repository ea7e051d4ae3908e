package filter

import (
	"sync"

	"github.com/pokeapi-tools/pokedex-client/pkg/catalog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller couples a catalog store with the current filter state and
// exposes the command handlers the presentation layer calls. It is an
// explicitly owned context object - there is no ambient singleton - and
// it is the only writer of the store's visible collection.
type Controller struct {
	store  *catalog.Store
	mu     sync.Mutex
	state  State
	logger zerolog.Logger
}

// NewController creates a controller over the given store with an
// all-empty initial state.
func NewController(store *catalog.Store) *Controller {
	c := &Controller{
		store:  store,
		logger: log.With().Str("component", "filter-controller").Logger(),
	}
	c.recompute()
	return c
}

// State returns the current filter state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// OnSegmentChange applies a segment change ("" clears the facet). The
// search term is cleared as part of the transition.
func (c *Controller) OnSegmentChange(key string) {
	c.mu.Lock()
	c.state = c.state.WithSegment(key)
	c.mu.Unlock()

	c.logger.Debug().Str("segment", key).Msg("Segment changed")
	c.recompute()
}

// OnCategoryChange applies a category change ("" clears the facet). The
// search term is cleared as part of the transition.
func (c *Controller) OnCategoryChange(category string) {
	c.mu.Lock()
	c.state = c.state.WithCategory(category)
	c.mu.Unlock()

	c.logger.Debug().Str("category", category).Msg("Category changed")
	c.recompute()
}

// OnSearchInput applies a search term change. Segment and category stay
// active; clearing the term falls back to them.
func (c *Controller) OnSearchInput(term string) {
	c.mu.Lock()
	c.state = c.state.WithTerm(term)
	c.mu.Unlock()

	c.recompute()
}

// ClearSearch clears the search term.
func (c *Controller) ClearSearch() {
	c.OnSearchInput("")
}

// Refresh re-derives the visible collection from the current canonical
// collection without changing state. Called after each load batch so new
// records show up under the active filters.
func (c *Controller) Refresh() {
	c.recompute()
}

func (c *Controller) recompute() {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	visible := Recompute(c.store.Canonical(), state)
	c.store.SetVisible(visible)
}
