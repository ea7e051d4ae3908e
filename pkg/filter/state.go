package filter

// State holds the three independent filter facets. The zero value means
// no segment, no category, no search term.
//
// Lifecycle: created at startup, changed only through the With*/Clear
// transitions, never persisted.
type State struct {
	// Segment is a segment key ("" for none). Unknown keys act as no
	// constraint rather than erroring.
	Segment string

	// Category is a type tag ("" for none).
	Category string

	// Term is the free-text search term ("" for none). An empty term is
	// "no search constraint", not "match nothing".
	Term string
}

// WithSegment returns a state with the segment changed. Changing segment
// clears the search term: that coupling is a UX policy of the filter
// transitions, not of the engine, which keeps Recompute pure.
func (s State) WithSegment(key string) State {
	s.Segment = key
	s.Term = ""
	return s
}

// WithCategory returns a state with the category changed. Like
// WithSegment, it clears the search term.
func (s State) WithCategory(category string) State {
	s.Category = category
	s.Term = ""
	return s
}

// WithTerm returns a state with the search term changed. Segment and
// category are untouched, so clearing the term falls back to whatever
// facets are currently active.
func (s State) WithTerm(term string) State {
	s.Term = term
	return s
}

// ClearTerm is equivalent to WithTerm("").
func (s State) ClearTerm() State {
	return s.WithTerm("")
}
