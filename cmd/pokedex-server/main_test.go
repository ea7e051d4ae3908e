package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pokeapi-tools/pokedex-client/internal/testutil"
	"github.com/pokeapi-tools/pokedex-client/pkg/catalog"
	"github.com/pokeapi-tools/pokedex-client/pkg/filter"
	"github.com/pokeapi-tools/pokedex-client/pkg/logging"
	"github.com/pokeapi-tools/pokedex-client/pkg/pokeapi"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func record(id int, name string, types ...string) pokeapi.Pokemon {
	slots := make([]pokeapi.TypeSlot, 0, len(types))
	for i, tn := range types {
		slots = append(slots, pokeapi.TypeSlot{
			Slot: i + 1,
			Type: pokeapi.NamedResource{Name: tn},
		})
	}
	return pokeapi.Pokemon{ID: id, Name: name, Types: slots}
}

// newTestServer wires a server against a MockPokeAPI with a pre-seeded
// catalog: bulbasaur, squirtle, pikachu (kanto) and chikorita (johto).
func newTestServer(t *testing.T) (*server, *testutil.MockPokeAPI) {
	t.Helper()

	mock := testutil.NewMockPokeAPI(200)
	t.Cleanup(mock.Close)

	cfg := pokeapi.DefaultConfig("pokedex-server-test/1.0 (test@example.com)")
	cfg.BaseURL = mock.BaseURL()

	client, err := pokeapi.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	store := catalog.NewStore()
	store.Append([]pokeapi.Pokemon{
		record(1, "bulbasaur", "grass", "poison"),
		record(7, "squirtle", "water"),
		record(25, "pikachu", "electric"),
		record(152, "chikorita", "grass"),
	})

	srv := &server{
		client:     client,
		store:      store,
		controller: filter.NewController(store),
		logger:     logging.NewLogger("pokedex-server-test"),
		refs: []pokeapi.NamedRef{
			{Name: "bulbasaur"}, {Name: "squirtle"},
			{Name: "pikachu"}, {Name: "chikorita"},
		},
	}
	srv.controller.Refresh()
	return srv, mock
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/status", nil)
	w := httptest.NewRecorder()

	srv.statusHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["loaded"].(float64) != 4 {
		t.Errorf("loaded = %v, want 4", body["loaded"])
	}
	if body["visible"].(float64) != 4 {
		t.Errorf("visible = %v, want 4", body["visible"])
	}
	if _, ok := body["filter"]; !ok {
		t.Error("Status should report the filter state")
	}
}

func TestRecordsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"unfiltered", "", 4},
		{"segment", "?segment=kanto", 3},
		{"category", "?category=grass", 2},
		{"segment and category", "?segment=kanto&category=grass", 1},
		{"term", "?q=chu", 1},
		{"zero padded id", "?q=0007", 1},
		{"term scoped by segment", "?segment=johto&q=chu", 0},
		{"unknown segment passes all", "?segment=orre", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/records"+tt.query, nil)
			w := httptest.NewRecorder()

			srv.recordsHandler(w, req)

			resp := w.Result()
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", resp.StatusCode)
			}

			body := decodeBody(t, resp)
			if got := int(body["count"].(float64)); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRecordsEndpointIsStateless(t *testing.T) {
	srv, _ := newTestServer(t)

	// Query-parameter filtering must not disturb the controller's state.
	req := httptest.NewRequest("GET", "/records?segment=johto", nil)
	srv.recordsHandler(httptest.NewRecorder(), req)

	if state := srv.controller.State(); state.Segment != "" {
		t.Errorf("Controller segment = %q, want untouched", state.Segment)
	}
	if srv.store.VisibleLen() != 4 {
		t.Errorf("VisibleLen = %d, want 4 (unchanged)", srv.store.VisibleLen())
	}
}

func TestRecordEndpoint_LocalHit(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/records/pikachu", nil)
	req.SetPathValue("id", "pikachu")
	w := httptest.NewRecorder()

	srv.recordHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["name"] != "pikachu" {
		t.Errorf("name = %v, want pikachu", body["name"])
	}
	if body["number"] != "0025" {
		t.Errorf("number = %v, want 0025", body["number"])
	}
	if body["segment"] != "kanto" {
		t.Errorf("segment = %v, want kanto", body["segment"])
	}
	if desc, ok := body["description"].(string); !ok || desc == "" {
		t.Error("Detail should include species flavor text")
	}
}

func TestRecordEndpoint_UpstreamFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	// Id 42 is not in the local catalog but exists upstream.
	req := httptest.NewRequest("GET", "/records/42", nil)
	req.SetPathValue("id", "42")
	w := httptest.NewRecorder()

	srv.recordHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["name"] != testutil.MockName(42) {
		t.Errorf("name = %v, want %v", body["name"], testutil.MockName(42))
	}
}

func TestRecordEndpoint_NotFoundWithSuggestion(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/records/pikachoo", nil)
	req.SetPathValue("id", "pikachoo")
	w := httptest.NewRecorder()

	srv.recordHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["suggestion"] != "pikachu" {
		t.Errorf("suggestion = %v, want pikachu", body["suggestion"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	// Creating the server registers all client and loader metrics.
	newTestServer(t)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	promhttp.Handler().ServeHTTP(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	bodyStr := string(body)
	if !strings.Contains(bodyStr, "# HELP") || !strings.Contains(bodyStr, "# TYPE") {
		t.Error("Expected Prometheus format metrics output")
	}
}
