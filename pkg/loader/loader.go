// Package loader fetches full records behind listing references in
// fixed-size parallel batches and appends them to the catalog.
package loader

import (
	"context"
	"time"

	"github.com/pokeapi-tools/pokedex-client/pkg/pokeapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Prometheus metrics for load operations.
var (
	recordsLoadedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_records_loaded_total",
		Help: "Total records appended to the canonical collection",
	})

	recordsDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_records_dropped_total",
		Help: "Total record fetches dropped from batches (failed or malformed)",
	})

	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_batch_duration_seconds",
		Help:    "Duration of one batch fetch including the join barrier",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})
)

// Fetcher is the interface the PokeAPI client implements for fetching one
// full record behind a listing reference.
type Fetcher interface {
	FetchRef(ctx context.Context, ref pokeapi.NamedRef) (*pokeapi.Pokemon, error)
}

// Sink receives each batch's successful records in reference order. The
// catalog store implements it.
type Sink interface {
	Append(records []pokeapi.Pokemon)
}

// Progress is the snapshot emitted after each batch settles. Dropped
// counts failed or malformed fetches so partial failure is observable
// instead of invisible.
type Progress struct {
	Batch   int // 1-based index of the batch that just settled
	Batches int // total number of batches
	Loaded  int // records appended so far
	Dropped int // records dropped so far
	Total   int // number of references in this load
}

// DroppedRef records one reference that contributed nothing to its batch.
type DroppedRef struct {
	Ref pokeapi.NamedRef
	Err error
}

// Result is the outcome of a completed load.
type Result struct {
	Loaded  int
	Dropped []DroppedRef
}

// Config holds loader configuration.
type Config struct {
	// BatchSize is the number of references fetched concurrently per
	// batch (default: 50).
	BatchSize int

	// InterBatchDelay is the unconditional pause between batches. It is a
	// deliberate throttle toward the remote service, not backpressure,
	// and applies regardless of batch size or failure count
	// (default: 100ms).
	InterBatchDelay time.Duration

	// OnProgress, if set, is called after each batch settles.
	OnProgress func(Progress)
}

// DefaultConfig returns the reference load parameters.
func DefaultConfig() Config {
	return Config{
		BatchSize:       50,
		InterBatchDelay: 100 * time.Millisecond,
	}
}

// Loader drives a sequential batch load: one batch at a time, all fetches
// within a batch concurrent, a join-all barrier before the next batch.
type Loader struct {
	fetcher Fetcher
	sink    Sink
	config  Config
	logger  zerolog.Logger
}

// New creates a loader writing successful records into sink.
func New(fetcher Fetcher, sink Sink, config Config) *Loader {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.InterBatchDelay <= 0 {
		config.InterBatchDelay = 100 * time.Millisecond
	}

	return &Loader{
		fetcher: fetcher,
		sink:    sink,
		config:  config,
		logger:  log.With().Str("component", "loader").Logger(),
	}
}

// LoadAll partitions refs into consecutive batches and fetches each batch
// with one concurrent request per reference. All fetches of a batch settle
// before anything is appended: within a batch, result order follows
// reference order, never completion order. A failed or malformed fetch is
// dropped from its batch - logged and counted, never retried - and does
// not abort the batch or the load.
//
// Cancellation is checked between batches and during the inter-batch
// delay, never mid-batch; on cancellation everything already appended
// stays in the sink and ctx.Err() is returned alongside the partial
// result.
//
// An empty refs slice completes immediately: no delay, no progress
// snapshot.
func (l *Loader) LoadAll(ctx context.Context, refs []pokeapi.NamedRef) (*Result, error) {
	result := &Result{}
	if len(refs) == 0 {
		return result, nil
	}

	start := time.Now()
	batches := (len(refs) + l.config.BatchSize - 1) / l.config.BatchSize

	l.logger.Info().
		Int("refs", len(refs)).
		Int("batches", batches).
		Int("batch_size", l.config.BatchSize).
		Msg("Starting batch load")

	for batch := 0; batch < batches; batch++ {
		if err := ctx.Err(); err != nil {
			l.logger.Warn().
				Int("batch", batch+1).
				Int("loaded", result.Loaded).
				Msg("Load cancelled")
			return result, err
		}

		lo := batch * l.config.BatchSize
		hi := lo + l.config.BatchSize
		if hi > len(refs) {
			hi = len(refs)
		}

		l.runBatch(ctx, refs[lo:hi], result)

		if l.config.OnProgress != nil {
			l.config.OnProgress(Progress{
				Batch:   batch + 1,
				Batches: batches,
				Loaded:  result.Loaded,
				Dropped: len(result.Dropped),
				Total:   len(refs),
			})
		}

		l.logger.Info().
			Int("batch", batch+1).
			Int("batches", batches).
			Int("loaded", result.Loaded).
			Int("dropped", len(result.Dropped)).
			Msg("Batch settled")

		// Unconditional throttle between batches, not after the last one.
		if batch+1 < batches {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(l.config.InterBatchDelay):
			}
		}
	}

	l.logger.Info().
		Int("loaded", result.Loaded).
		Int("dropped", len(result.Dropped)).
		Dur("duration", time.Since(start)).
		Msg("Load complete")

	return result, nil
}

// runBatch fetches one batch with a join-all barrier and appends its
// successes to the sink in reference order.
func (l *Loader) runBatch(ctx context.Context, batch []pokeapi.NamedRef, result *Result) {
	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	records := make([]*pokeapi.Pokemon, len(batch))
	errs := make([]error, len(batch))

	var g errgroup.Group
	for i, ref := range batch {
		g.Go(func() error {
			p, err := l.fetcher.FetchRef(ctx, ref)
			if err != nil {
				// Drop, don't propagate: one failed fetch must not abort
				// the batch.
				errs[i] = err
				return nil
			}
			records[i] = p
			return nil
		})
	}
	// Join-all barrier: every fetch settles before any result is used.
	_ = g.Wait()

	accepted := make([]pokeapi.Pokemon, 0, len(batch))
	for i, p := range records {
		if p == nil {
			result.Dropped = append(result.Dropped, DroppedRef{Ref: batch[i], Err: errs[i]})
			recordsDroppedTotal.Inc()
			l.logger.Warn().
				Err(errs[i]).
				Str("name", batch[i].Name).
				Msg("Record fetch dropped")
			continue
		}
		accepted = append(accepted, *p)
	}

	if l.sink != nil {
		l.sink.Append(accepted)
	}
	result.Loaded += len(accepted)
	recordsLoadedTotal.Add(float64(len(accepted)))
}
