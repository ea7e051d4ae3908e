// Package metrics provides the centralized Prometheus registry reference
// for the Pokédex catalog client. All metrics are defined in their
// respective packages (pokeapi, cache, loader) to maintain modularity and
// avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the catalog client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/pokeapi):
//   - pokeapi_requests_total{resource, status} (Counter): Requests by resource and outcome
//     (HTTP status, "cache", "304", "network_error")
//   - pokeapi_request_duration_seconds{resource} (Histogram): Request duration by resource
//   - pokeapi_errors_total{class} (Counter): Errors by class (client, server, network)
//
// Cache Metrics (pkg/cache):
//   - pokeapi_cache_hits_total{freshness} (Counter): Cache hits by freshness (fresh, stale)
//   - pokeapi_cache_misses_total (Counter): Cache misses
//   - pokeapi_304_responses_total (Counter): 304 Not Modified revalidations
//   - pokeapi_cache_errors_total{operation} (Counter): Cache operation errors
//
// Loader Metrics (pkg/loader):
//   - catalog_records_loaded_total (Counter): Records appended to the canonical collection
//   - catalog_records_dropped_total (Counter): Fetches dropped from batches
//   - catalog_batch_duration_seconds (Histogram): Per-batch duration including the barrier
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(pokeapi_cache_hits_total[5m])) /
//   (sum(rate(pokeapi_cache_hits_total[5m])) + sum(rate(pokeapi_cache_misses_total[5m])))
//
//   # Drop Rate per Load
//   rate(catalog_records_dropped_total[5m]) /
//   (rate(catalog_records_loaded_total[5m]) + rate(catalog_records_dropped_total[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(pokeapi_request_duration_seconds_bucket[5m]))
