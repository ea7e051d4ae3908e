// Package testutil provides testing utilities for the Pokédex catalog client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockPokeAPI is a configurable mock PokeAPI server for testing. It serves
// a generated listing plus per-id record and species documents, with
// per-id failure and malformed-payload injection.
type MockPokeAPI struct {
	server *httptest.Server
	mu     sync.RWMutex

	total     int
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)
	failIDs   map[int]bool
	malformed map[int]bool
	delay     time.Duration

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockPokeAPI creates a mock server knowing records 1..total.
func NewMockPokeAPI(total int) *MockPokeAPI {
	mock := &MockPokeAPI{
		total:     total,
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
		failIDs:   make(map[int]bool),
		malformed: make(map[int]bool),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" {
			mock.ConditionalCount++
		}
		delay := mock.delay
		mock.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// BaseURL returns the API base URL clients should be configured with.
func (m *MockPokeAPI) BaseURL() string {
	return m.server.URL + "/api/v2"
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters and injected behavior.
func (m *MockPokeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
	m.failIDs = make(map[int]bool)
	m.malformed = make(map[int]bool)
	m.delay = 0
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPokeAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// FailID makes the record endpoint for id return 500.
func (m *MockPokeAPI) FailID(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failIDs[id] = true
}

// MalformID makes the record endpoint for id return a document missing
// required fields.
func (m *MockPokeAPI) MalformID(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.malformed[id] = true
}

// SetDelay adds a fixed delay before every response.
func (m *MockPokeAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPokeAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockPokeAPI) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// defaultHandler routes the generated PokeAPI documents.
func (m *MockPokeAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	path := strings.Trim(r.URL.Path, "/")
	switch {
	case path == "api/v2/pokemon":
		m.serveListing(w, r)
	case strings.HasPrefix(path, "api/v2/pokemon-species/"):
		m.serveSpecies(w, r, strings.TrimPrefix(path, "api/v2/pokemon-species/"))
	case strings.HasPrefix(path, "api/v2/pokemon/"):
		m.servePokemon(w, r, strings.TrimPrefix(path, "api/v2/pokemon/"))
	default:
		http.NotFound(w, r)
	}
}

func (m *MockPokeAPI) serveListing(w http.ResponseWriter, r *http.Request) {
	limit := m.total
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n < limit {
			limit = n
		}
	}

	var refs []string
	for id := 1; id <= limit; id++ {
		refs = append(refs, fmt.Sprintf(`{"name":%q,"url":%q}`,
			MockName(id), fmt.Sprintf("%s/api/v2/pokemon/%d/", m.server.URL, id)))
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"count":%d,"results":[%s]}`, m.total, strings.Join(refs, ","))
}

func (m *MockPokeAPI) servePokemon(w http.ResponseWriter, r *http.Request, rest string) {
	id, ok := m.resolveID(rest)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Not found."}`)
		return
	}

	m.mu.RLock()
	fail := m.failIDs[id]
	malformed := m.malformed[id]
	m.mu.RUnlock()

	if fail {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"internal server error"}`)
		return
	}

	etag := fmt.Sprintf(`"mock-pokemon-%d"`, id)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=300")

	if malformed {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"id":%d,"name":"","types":[]}`, id)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, PokemonDoc(id))
}

func (m *MockPokeAPI) serveSpecies(w http.ResponseWriter, r *http.Request, rest string) {
	id, ok := m.resolveID(rest)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"detail":"Not found."}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"id":%d,"name":%q,"flavor_text_entries":[`+
		`{"flavor_text":"A mock species.\fSecond line.","language":{"name":"en","url":""}},`+
		`{"flavor_text":"Une espèce fictive.","language":{"name":"fr","url":""}}]}`,
		id, MockName(id))
}

// resolveID accepts a decimal id or a generated name, with or without a
// trailing slash.
func (m *MockPokeAPI) resolveID(rest string) (int, bool) {
	rest = strings.TrimSuffix(rest, "/")
	if id, err := strconv.Atoi(rest); err == nil {
		return id, id >= 1 && id <= m.total
	}
	for id := 1; id <= m.total; id++ {
		if MockName(id) == rest {
			return id, true
		}
	}
	return 0, false
}

// MockName returns the deterministic name of a generated record.
func MockName(id int) string {
	return fmt.Sprintf("pokemon-%d", id)
}

// MockTypes returns the deterministic type tags of a generated record:
// even ids are water, odd ids are grass, and every fifth id also carries
// flying.
func MockTypes(id int) []string {
	types := []string{"grass"}
	if id%2 == 0 {
		types = []string{"water"}
	}
	if id%5 == 0 {
		types = append(types, "flying")
	}
	return types
}

// PokemonDoc returns the full generated record document for an id.
func PokemonDoc(id int) string {
	var typeSlots []string
	for i, name := range MockTypes(id) {
		typeSlots = append(typeSlots, fmt.Sprintf(`{"slot":%d,"type":{"name":%q,"url":""}}`, i+1, name))
	}

	stats := []string{"hp", "attack", "defense", "special-attack", "special-defense", "speed"}
	var statEntries []string
	for _, s := range stats {
		statEntries = append(statEntries, fmt.Sprintf(`{"base_stat":%d,"stat":{"name":%q,"url":""}}`, 50+id%50, s))
	}

	return fmt.Sprintf(`{"id":%d,"name":%q,"height":%d,"weight":%d,"base_experience":%d,`+
		`"types":[%s],`+
		`"sprites":{"front_default":"https://sprites.example/%d.png"},`+
		`"abilities":[{"ability":{"name":"overgrow","url":""},"is_hidden":false},`+
		`{"ability":{"name":"chlorophyll","url":""},"is_hidden":true}],`+
		`"stats":[%s]}`,
		id, MockName(id), 7+id%10, 69+id%100, 60+id%100,
		strings.Join(typeSlots, ","), id, strings.Join(statEntries, ","))
}
