package filter

import (
	"strconv"
	"strings"

	"github.com/pokeapi-tools/pokedex-client/pkg/pokeapi"
)

// Recompute derives the visible subset from the canonical collection and
// the filter state. It is a pure function: deterministic, idempotent, and
// free of side effects.
//
// Predicates compose in a fixed order - segment, then category, then
// term - because the search term is defined over the already
// segment-and-category-filtered base, not over the full canonical set.
// Output order is canonical order; no re-sorting, no relevance ranking.
func Recompute(canonical []pokeapi.Pokemon, state State) []pokeapi.Pokemon {
	out := make([]pokeapi.Pokemon, 0, len(canonical))

	segment, haveSegment := SegmentByKey(state.Segment)
	term := strings.ToLower(strings.TrimSpace(state.Term))

	for _, p := range canonical {
		if haveSegment && !segment.Contains(p.ID) {
			continue
		}
		if state.Category != "" && !p.HasType(state.Category) {
			continue
		}
		if term != "" && !matchesTerm(&p, term) {
			continue
		}
		out = append(out, p)
	}

	return out
}

// matchesTerm reports whether a record matches a folded, non-empty search
// term: as a substring of the folded name, of the decimal id, or of the
// zero-padded 4-digit id ("07" matches id 7 via "0007").
func matchesTerm(p *pokeapi.Pokemon, term string) bool {
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strconv.Itoa(p.ID), term) {
		return true
	}
	return strings.Contains(p.Number(), term)
}
