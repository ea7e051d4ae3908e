package cache

import (
	"time"
)

// Entry represents a cached PokeAPI response.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`

	// CachedAt is when the response was cached
	CachedAt time.Time `json:"cached_at"`
}

// IsStale returns true once the freshness window has passed. A stale entry
// with an ETag can still be revalidated.
func (e *Entry) IsStale() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until the entry becomes stale.
// Returns 0 if already stale.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
