package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pokeapi-tools/pokedex-client/pkg/catalog"
	"github.com/pokeapi-tools/pokedex-client/pkg/filter"
	"github.com/pokeapi-tools/pokedex-client/pkg/loader"
	"github.com/pokeapi-tools/pokedex-client/pkg/logging"
	"github.com/pokeapi-tools/pokedex-client/pkg/pokeapi"
	"github.com/pokeapi-tools/pokedex-client/pkg/suggest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Config is parsed from environment variables.
type Config struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	BaseURL           string        `env:"POKEAPI_URL"`
	UserAgent         string        `env:"USER_AGENT" envDefault:"pokedex-client/0.1.0 (pokedex@example.com)"`
	RedisURL          string        `env:"REDIS_URL"`
	CatalogLimit      int           `env:"CATALOG_LIMIT" envDefault:"1010"`
	BatchSize         int           `env:"BATCH_SIZE" envDefault:"50"`
	BatchDelay        time.Duration `env:"BATCH_DELAY" envDefault:"100ms"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND" envDefault:"0"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty         bool          `env:"LOG_PRETTY" envDefault:"false"`
}

// server holds the running catalog and its collaborators.
type server struct {
	client     *pokeapi.Client
	store      *catalog.Store
	controller *filter.Controller
	logger     zerolog.Logger

	mu       sync.RWMutex
	refs     []pokeapi.NamedRef
	progress loader.Progress
	done     bool
}

func main() {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		fallback := logging.Setup(logging.DefaultConfig())
		fallback.Fatal().Err(err).Msg("Failed to parse configuration")
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	clientCfg := pokeapi.DefaultConfig(cfg.UserAgent)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.RequestsPerSecond = cfg.RequestsPerSecond

	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn().Err(err).Str("addr", cfg.RedisURL).
				Msg("Redis unreachable - running without response cache")
		} else {
			clientCfg.Redis = redisClient
			logger.Info().Str("addr", cfg.RedisURL).Msg("Response cache enabled")
		}
	}

	apiClient, err := pokeapi.New(clientCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create PokeAPI client")
	}

	store := catalog.NewStore()
	srv := &server{
		client:     apiClient,
		store:      store,
		controller: filter.NewController(store),
		logger:     logging.NewLogger("pokedex-server"),
	}

	go srv.load(context.Background(), cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("GET /status", srv.statusHandler)
	mux.HandleFunc("GET /records", srv.recordsHandler)
	mux.HandleFunc("GET /records/{id}", srv.recordHandler)
	mux.Handle("GET /metrics", promhttp.Handler())

	addr := ":" + cfg.Port
	logger.Info().
		Str("addr", addr).
		Int("catalog_limit", cfg.CatalogLimit).
		Msg("Starting pokedex server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// load runs the background catalog load. A listing failure is terminal:
// the catalog stays empty and /status reports completion with zero
// records.
func (s *server) load(ctx context.Context, cfg Config) {
	defer s.markDone()

	refs, err := s.client.ListPokemon(ctx, cfg.CatalogLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing fetch failed - catalog stays empty")
		return
	}

	s.mu.Lock()
	s.refs = refs
	s.mu.Unlock()

	ld := loader.New(s.client, s.store, loader.Config{
		BatchSize:       cfg.BatchSize,
		InterBatchDelay: cfg.BatchDelay,
		OnProgress: func(p loader.Progress) {
			s.mu.Lock()
			s.progress = p
			s.mu.Unlock()
			// New records show up under the active filters right away.
			s.controller.Refresh()
		},
	})

	result, err := ld.LoadAll(ctx, refs)
	if err != nil {
		s.logger.Error().Err(err).Int("loaded", result.Loaded).Msg("Load aborted")
		return
	}

	s.logger.Info().
		Int("loaded", result.Loaded).
		Int("dropped", len(result.Dropped)).
		Msg("Catalog load finished")
}

func (s *server) markDone() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// statusHandler reports load progress and the current filter state.
func (s *server) statusHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	progress := s.progress
	done := s.done
	s.mu.RUnlock()

	state := s.controller.State()

	writeJSON(w, http.StatusOK, map[string]any{
		"loaded":  s.store.Len(),
		"visible": s.store.VisibleLen(),
		"dropped": progress.Dropped,
		"total":   progress.Total,
		"done":    done,
		"filter": map[string]string{
			"segment":  state.Segment,
			"category": state.Category,
			"term":     state.Term,
		},
	})
}

// recordsHandler lists record summaries. Filters are taken from query
// parameters and applied statelessly over the canonical snapshot, so
// every request is deterministic and idempotent.
func (s *server) recordsHandler(w http.ResponseWriter, r *http.Request) {
	state := filter.State{
		Segment:  r.URL.Query().Get("segment"),
		Category: r.URL.Query().Get("category"),
		Term:     r.URL.Query().Get("q"),
	}

	visible := filter.Recompute(s.store.Canonical(), state)

	summaries := make([]map[string]any, 0, len(visible))
	for i := range visible {
		summaries = append(summaries, summarize(&visible[i]))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(summaries),
		"records": summaries,
	})
}

// recordHandler serves one record's detail, merged with species flavor
// text. Records not yet in the catalog fall back to a direct lookup; a
// miss answers 404 with a nearest-name suggestion.
func (s *server) recordHandler(w http.ResponseWriter, r *http.Request) {
	query := r.PathValue("id")

	record := s.findLocal(query)
	if record == nil {
		fetched, err := s.client.GetPokemon(r.Context(), query)
		if err != nil {
			var notFound *pokeapi.NotFoundError
			if errors.As(err, &notFound) {
				s.writeNotFound(w, query)
				return
			}
			http.Error(w, "upstream lookup failed: "+err.Error(), http.StatusBadGateway)
			return
		}
		record = fetched
	}

	detail := summarize(record)
	detail["height"] = record.Height
	detail["weight"] = record.Weight
	detail["base_experience"] = record.BaseExperience
	detail["sprite"] = record.Sprites.FrontDefault

	abilities := make([]map[string]any, 0, len(record.Abilities))
	for _, a := range record.Abilities {
		abilities = append(abilities, map[string]any{
			"name":   a.Ability.Name,
			"hidden": a.IsHidden,
		})
	}
	detail["abilities"] = abilities

	stats := make([]map[string]any, 0, len(record.Stats))
	for _, st := range record.Stats {
		stats = append(stats, map[string]any{
			"name":  st.Stat.Name,
			"value": st.BaseStat,
		})
	}
	detail["stats"] = stats

	if species, err := s.client.GetSpecies(r.Context(), strconv.Itoa(record.ID)); err == nil {
		detail["description"] = species.FlavorText("en")
	} else {
		s.logger.Warn().Err(err).Int("id", record.ID).Msg("Species lookup failed")
	}

	writeJSON(w, http.StatusOK, detail)
}

// findLocal resolves a record from the canonical snapshot by decimal id
// or exact name.
func (s *server) findLocal(query string) *pokeapi.Pokemon {
	canonical := s.store.Canonical()

	if id, err := strconv.Atoi(query); err == nil {
		for i := range canonical {
			if canonical[i].ID == id {
				return &canonical[i]
			}
		}
		return nil
	}

	for i := range canonical {
		if canonical[i].Name == query {
			return &canonical[i]
		}
	}
	return nil
}

func (s *server) writeNotFound(w http.ResponseWriter, query string) {
	s.mu.RLock()
	refs := s.refs
	s.mu.RUnlock()

	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}

	body := map[string]any{"error": "record not found", "query": query}
	if nearest, ok := suggest.Nearest(names, query); ok {
		body["suggestion"] = nearest
	}

	writeJSON(w, http.StatusNotFound, body)
}

func summarize(p *pokeapi.Pokemon) map[string]any {
	m := map[string]any{
		"id":     p.ID,
		"number": p.Number(),
		"name":   p.Name,
		"types":  p.TypeNames(),
	}
	if segment, ok := filter.SegmentFor(p.ID); ok {
		m["segment"] = segment.Key
	}
	return m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
