// Package suggest offers nearest-name suggestions for failed lookups.
package suggest

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Nearest returns the candidate closest to query by edit distance, with
// the distance capped relative to the candidate's length so short names
// don't match everything. Exact substrings win outright. Returns false
// when nothing is close enough.
func Nearest(candidates []string, query string) (string, bool) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "", false
	}

	best := ""
	bestDist := -1

	for _, cand := range candidates {
		folded := strings.ToLower(cand)
		if folded == query {
			return cand, true
		}
		if strings.Contains(folded, query) {
			return cand, true
		}

		dist := levenshtein.ComputeDistance(query, folded)
		if dist > distanceLimit(len(folded)) {
			continue
		}
		if bestDist == -1 || dist < bestDist {
			best = cand
			bestDist = dist
		}
	}

	return best, best != ""
}

// distanceLimit scales the acceptable edit distance with name length.
func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
