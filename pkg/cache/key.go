package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key represents a unique identifier for a cached PokeAPI response.
type Key struct {
	// Resource is the URL path below the host (e.g. "api/v2/pokemon/7")
	Resource string

	// Query are the request query parameters (e.g. {"limit": "1010"})
	Query url.Values
}

// KeyForURL derives a Key from a request URL. Invalid URLs fall back to
// the raw string as resource so the key is still deterministic.
func KeyForURL(raw string) Key {
	u, err := url.Parse(raw)
	if err != nil {
		return Key{Resource: raw}
	}
	return Key{
		Resource: strings.Trim(u.Path, "/"),
		Query:    u.Query(),
	}
}

// String generates a deterministic cache key string.
// Format: pokeapi:resource:query1=val1:query2=val2
//
// Example:
//
//	pokeapi:api/v2/pokemon:limit=1010
func (k Key) String() string {
	parts := []string{"pokeapi"}

	if k.Resource != "" {
		parts = append(parts, k.Resource)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
