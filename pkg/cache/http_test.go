package cache

import (
	"net/http"
	"testing"
	"time"
)

func TestNewEntry_MaxAge(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		Header: http.Header{
			"Cache-Control": []string{"public, max-age=300"},
			"Etag":          []string{`"abc123"`},
		},
	}

	entry := NewEntry(resp, []byte(`{"id":7}`), time.Hour)

	if string(entry.Data) != `{"id":7}` {
		t.Errorf("Data = %s", entry.Data)
	}
	if entry.ETag != `"abc123"` {
		t.Errorf("ETag = %q", entry.ETag)
	}

	ttl := entry.TTL()
	if ttl < 4*time.Minute || ttl > 5*time.Minute {
		t.Errorf("TTL = %v, want roughly 5m from max-age", ttl)
	}
}

func TestNewEntry_ExpiresHeader(t *testing.T) {
	expires := time.Now().Add(20 * time.Minute).UTC()
	resp := &http.Response{
		StatusCode: 200,
		Header: http.Header{
			"Expires": []string{expires.Format(http.TimeFormat)},
		},
	}

	entry := NewEntry(resp, nil, time.Hour)

	ttl := entry.TTL()
	if ttl < 18*time.Minute || ttl > 20*time.Minute {
		t.Errorf("TTL = %v, want roughly 20m from Expires header", ttl)
	}
}

func TestNewEntry_DefaultTTL(t *testing.T) {
	resp := &http.Response{StatusCode: 200, Header: http.Header{}}

	entry := NewEntry(resp, nil, 10*time.Minute)

	ttl := entry.TTL()
	if ttl < 9*time.Minute || ttl > 10*time.Minute {
		t.Errorf("TTL = %v, want the 10m default", ttl)
	}
}

func TestParseMaxAge(t *testing.T) {
	tests := []struct {
		header string
		want   time.Duration
		ok     bool
	}{
		{"max-age=300", 300 * time.Second, true},
		{"public, max-age=60", 60 * time.Second, true},
		{"no-cache", 0, false},
		{"max-age=0", 0, false},
		{"max-age=abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseMaxAge(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseMaxAge(%q) = (%v, %v), want (%v, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestShouldRevalidate(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{"nil entry", nil, false},
		{"fresh entry", &Entry{ETag: `"x"`, Expires: time.Now().Add(time.Hour)}, false},
		{"stale with etag", &Entry{ETag: `"x"`, Expires: time.Now().Add(-time.Hour)}, true},
		{"stale without etag", &Entry{Expires: time.Now().Add(-time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRevalidate(tt.entry); got != tt.want {
				t.Errorf("ShouldRevalidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	req, _ := http.NewRequest("GET", "https://pokeapi.co/api/v2/pokemon/7/", nil)

	AddConditionalHeaders(req, &Entry{ETag: `"abc123"`})
	if got := req.Header.Get("If-None-Match"); got != `"abc123"` {
		t.Errorf("If-None-Match = %q", got)
	}

	req2, _ := http.NewRequest("GET", "https://pokeapi.co/api/v2/pokemon/7/", nil)
	AddConditionalHeaders(req2, &Entry{})
	if req2.Header.Get("If-None-Match") != "" {
		t.Error("If-None-Match set without an ETag")
	}

	// nil-safe
	AddConditionalHeaders(nil, nil)
}
