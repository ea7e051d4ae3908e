// Package pokeapi provides the PokeAPI HTTP client with response caching,
// request throttling, and error handling.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pokeapi-tools/pokedex-client/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Prometheus metrics for PokeAPI client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_requests_total",
		Help: "Total PokeAPI requests by resource and status",
	}, []string{"resource", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokeapi_request_duration_seconds",
		Help:    "PokeAPI request duration in seconds by resource",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"resource"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokeapi_errors_total",
		Help: "Total PokeAPI errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the public PokeAPI v2 base URL.
const DefaultBaseURL = "https://pokeapi.co/api/v2"

// Client is the PokeAPI client.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the remote service (default: DefaultBaseURL).
	BaseURL string

	// User-Agent header sent with every request (required).
	// Format: "AppName/Version (contact@example.com)"
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// RequestsPerSecond caps outbound requests when > 0. This is a static
	// politeness limiter, not adaptive rate limiting; the loader's fixed
	// inter-batch delay is the primary throttle.
	RequestsPerSecond float64

	// Redis enables the response cache when non-nil. The catalog itself
	// stays in memory; only raw HTTP responses are cached.
	Redis *redis.Client

	// CacheTTL is the freshness window used when a response carries no
	// usable Cache-Control or Expires header.
	CacheTTL time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		CacheTTL:  10 * time.Minute,
	}
}

// New creates a new PokeAPI client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}

	logger := log.With().Str("component", "pokeapi-client").Logger()

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	var cacheManager *cache.Manager
	if cfg.Redis != nil {
		cacheManager = cache.NewManager(cfg.Redis, cfg.CacheTTL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: limiter,
		cache:   cacheManager,
		config:  cfg,
		logger:  logger,
	}, nil
}

// ListPokemon fetches the listing of available records, up to limit
// entries. A transport failure here is terminal for a load: batch fetching
// depends on the complete reference list.
func (c *Client) ListPokemon(ctx context.Context, limit int) ([]NamedRef, error) {
	u := fmt.Sprintf("%s/pokemon?limit=%d", c.config.BaseURL, limit)

	var out ListResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}

	c.logger.Info().
		Int("count", len(out.Results)).
		Int("limit", limit).
		Msg("Fetched listing")

	return out.Results, nil
}

// FetchRef fetches the full record behind a listing reference. Records
// missing required fields yield a MalformedRecordError and are treated by
// the loader exactly like fetch failures.
func (c *Client) FetchRef(ctx context.Context, ref NamedRef) (*Pokemon, error) {
	var p Pokemon
	if err := c.getJSON(ctx, ref.URL, &p); err != nil {
		return nil, err
	}

	if err := p.Validate(); err != nil {
		var malformed *MalformedRecordError
		if errors.As(err, &malformed) {
			malformed.URL = ref.URL
		}
		return nil, err
	}

	return &p, nil
}

// GetPokemon looks up a single record by name or decimal id. A 404 is
// reported as NotFoundError so callers can surface it to the user.
func (c *Client) GetPokemon(ctx context.Context, nameOrID string) (*Pokemon, error) {
	q := strings.ToLower(strings.TrimSpace(nameOrID))
	u := c.config.BaseURL + "/pokemon/" + url.PathEscape(q)

	var p Pokemon
	if err := c.getJSON(ctx, u, &p); err != nil {
		return nil, notFoundOr(err, "pokemon", q)
	}

	if err := p.Validate(); err != nil {
		var malformed *MalformedRecordError
		if errors.As(err, &malformed) {
			malformed.URL = u
		}
		return nil, err
	}

	return &p, nil
}

// GetSpecies looks up species data (flavor text) by name or decimal id.
func (c *Client) GetSpecies(ctx context.Context, nameOrID string) (*Species, error) {
	q := strings.ToLower(strings.TrimSpace(nameOrID))
	u := c.config.BaseURL + "/pokemon-species/" + url.PathEscape(q)

	var s Species
	if err := c.getJSON(ctx, u, &s); err != nil {
		return nil, notFoundOr(err, "pokemon-species", q)
	}

	return &s, nil
}

// notFoundOr converts a 404 transport error into a NotFoundError and
// passes everything else through.
func notFoundOr(err error, resource, query string) error {
	var transport *TransportError
	if errors.As(err, &transport) && transport.StatusCode == http.StatusNotFound {
		return &NotFoundError{Resource: resource, Query: query}
	}
	return err
}

// getJSON performs a GET request with throttling, caching, and error
// handling, decoding the response body into v. This is the core request
// method all endpoint helpers go through.
func (c *Client) getJSON(ctx context.Context, rawURL string, v any) error {
	resource := resourceLabel(rawURL)

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(resource).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: politeness limiter
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
	}

	// Step 2: response cache
	var cached *cache.Entry
	if c.cache != nil {
		key := cache.KeyForURL(rawURL)

		entry, err := c.cache.Get(ctx, key)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("resource", resource).Msg("Cache get error")
		}
		cached = entry

		if cached != nil && !cached.IsStale() {
			c.logger.Debug().Str("resource", resource).Msg("Serving from cache")
			requestsTotal.WithLabelValues(resource, "cache").Inc()
			return decodeBody(rawURL, cached.Data, v)
		}
	}

	// Step 3: build request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	// Step 4: revalidate stale entries instead of refetching
	if cache.ShouldRevalidate(cached) {
		cache.AddConditionalHeaders(req, cached)
		c.logger.Debug().
			Str("resource", resource).
			Str("etag", cached.ETag).
			Msg("Making conditional request")
	}

	c.logger.Debug().
		Str("resource", resource).
		Str("url", rawURL).
		Msg("Executing PokeAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("url", rawURL).Msg("HTTP request failed")
		errorsTotal.WithLabelValues(string(classify(0, err))).Inc()
		requestsTotal.WithLabelValues(resource, "network_error").Inc()
		return &TransportError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	// Step 5: 304 Not Modified - cached body is still good
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		c.logger.Debug().Str("resource", resource).Msg("304 Not Modified - using cache")
		requestsTotal.WithLabelValues(resource, "304").Inc()
		cache.NotModifiedResponses.Inc()

		if err := c.cache.Refresh(ctx, cache.KeyForURL(rawURL), cached); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to refresh cache entry")
		}
		return decodeBody(rawURL, cached.Data, v)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errClass := classify(resp.StatusCode, nil)
		errorsTotal.WithLabelValues(string(errClass)).Inc()
		requestsTotal.WithLabelValues(resource, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		c.logger.Warn().
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("PokeAPI request error")

		return &TransportError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(resource, "network_error").Inc()
		return &TransportError{URL: rawURL, Err: err}
	}

	requestsTotal.WithLabelValues(resource, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	// Step 6: update cache on success
	if c.cache != nil {
		entry := cache.NewEntry(resp, body, c.config.CacheTTL)
		if err := c.cache.Set(ctx, cache.KeyForURL(rawURL), entry); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to cache response")
		}
	}

	return decodeBody(rawURL, body, v)
}

// decodeBody unmarshals a JSON response body.
func decodeBody(rawURL string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// resourceLabel derives a low-cardinality metric label from a request URL:
// the first path segment after the API version, e.g. "pokemon" or
// "pokemon-species".
func resourceLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "other"
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		if seg == "v2" && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	if len(segments) > 0 && segments[0] != "" {
		return segments[0]
	}
	return "other"
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
