package cache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// RevalidateWindow is the grace period a stale entry remains in Redis so
// it can be revalidated with If-None-Match instead of refetched.
const RevalidateWindow = 24 * time.Hour

// NewEntry builds a cache entry from a successful response and its body.
// Freshness comes from Cache-Control max-age, then the Expires header,
// then defaultTTL.
func NewEntry(resp *http.Response, body []byte, defaultTTL time.Duration) *Entry {
	entry := &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		CachedAt:   time.Now(),
	}
	entry.Expires = parseFreshness(resp.Header, defaultTTL)
	return entry
}

// parseFreshness derives the staleness deadline from response headers.
func parseFreshness(headers http.Header, defaultTTL time.Duration) time.Time {
	if maxAge, ok := parseMaxAge(headers.Get("Cache-Control")); ok {
		return time.Now().Add(maxAge)
	}

	if expiresStr := headers.Get("Expires"); expiresStr != "" {
		if expires, err := http.ParseTime(expiresStr); err == nil && expires.After(time.Now()) {
			return expires
		}
	}

	return time.Now().Add(defaultTTL)
}

// parseMaxAge extracts a max-age directive from a Cache-Control header.
func parseMaxAge(cacheControl string) (time.Duration, bool) {
	for _, directive := range strings.Split(cacheControl, ",") {
		directive = strings.TrimSpace(directive)
		if !strings.HasPrefix(directive, "max-age=") {
			continue
		}
		seconds, err := strconv.Atoi(strings.TrimPrefix(directive, "max-age="))
		if err != nil || seconds <= 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	return 0, false
}

// ShouldRevalidate determines if a stale entry can be revalidated with a
// conditional request.
func ShouldRevalidate(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.IsStale() && entry.ETag != ""
}

// AddConditionalHeaders adds If-None-Match to the request if the entry
// carries an ETag.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if entry == nil || req == nil {
		return
	}
	if entry.ETag != "" {
		req.Header.Set("If-None-Match", entry.ETag)
	}
}
