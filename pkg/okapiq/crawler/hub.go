// Package crawler implements the Crawler Hub: request routing and the
// rate-limit gate in front of the source adapters (spec §4.2).
package crawler

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// Hub fans a single request out to N selected adapters concurrently
// and returns a per-source result bundle. It owns the per-source
// rate-limit state; adapter instances themselves are stateless.
type Hub struct {
	adapters map[model.SourceName]adapters.Adapter
	priors   *priors.Table
	log      zerolog.Logger

	gateMu   sync.Mutex
	lastCall map[model.SourceName]time.Time
}

// NewHub builds a Hub over the given adapter registry.
func NewHub(registry map[model.SourceName]adapters.Adapter, p *priors.Table, log zerolog.Logger) *Hub {
	return &Hub{
		adapters: registry,
		priors:   p,
		log:      log,
		lastCall: make(map[model.SourceName]time.Time),
	}
}

// Crawl issues a single logical query to every requested source
// concurrently. It never returns an error: unknown source names are
// silently skipped, and adapter panics/errors become failure Results
// (spec §4.2 "never raises... zero successful adapters is still
// returned to the orchestrator").
func (h *Hub) Crawl(ctx context.Context, location, industry string, radius int, sources []model.SourceName) map[model.SourceName]adapters.Result {
	results := make(map[model.SourceName]adapters.Result, len(sources))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range sources {
		ad, ok := h.adapters[name]
		if !ok {
			continue
		}
		name := name
		ad := ad
		g.Go(func() error {
			result := h.callOne(gctx, ad, name, location, industry, radius)
			mu.Lock()
			results[name] = result
			mu.Unlock()
			return nil
		})
	}
	// Hub-internal fan-out never aborts the group on a single adapter
	// failure; callOne already converts every failure mode to a Result.
	_ = g.Wait()

	return results
}

// callOne applies the source's cooperative rate-limit wait, then
// invokes the adapter, recovering from any panic into a structured failure.
func (h *Hub) callOne(ctx context.Context, ad adapters.Adapter, name model.SourceName, location, industry string, radius int) (result adapters.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = adapters.Result{
				Success:    false,
				SourceName: name,
				Timestamp:  time.Now(),
				Errors:     []model.Failure{model.NewFailure(model.KindAdapterNetworkError, name, "adapter panicked")},
			}
			h.log.Error().Str("component", "crawler").Str("source", string(name)).Interface("panic", r).Msg("adapter panic recovered")
		}
	}()

	h.waitForSlot(ctx, name)

	req := adapters.Request{
		SourceType:     name,
		MaxRetries:     h.priors.AdapterMaxRetries,
		Search: adapters.SearchParams{
			Location:  location,
			Industry:  industry,
			Timestamp: time.Now(),
			Radius:    radius,
			Query:     industry,
		},
	}
	timeout := time.Duration(h.priors.AdapterTimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result = ad.Fetch(callCtx, req)
	if result.SourceName == "" {
		result.SourceName = name
	}
	return result
}

// waitForSlot suspends the caller until the source's minimum
// inter-request delay (plus jitter) has elapsed since its last call,
// per spec §4.1's cooperative rate policy.
func (h *Hub) waitForSlot(ctx context.Context, name model.SourceName) {
	minDelay := time.Duration(h.priors.MinDelay(name)) * time.Millisecond

	h.gateMu.Lock()
	last, seen := h.lastCall[name]
	h.gateMu.Unlock()

	if seen {
		elapsed := time.Since(last)
		if elapsed < minDelay {
			wait := minDelay - elapsed + jitter(minDelay)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
			}
		}
	}

	h.gateMu.Lock()
	h.lastCall[name] = time.Now()
	h.gateMu.Unlock()
}

// jitter returns a small random fraction of base to avoid
// thundering-herd patterns across concurrently-gated sources.
func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return time.Duration(float64(base) * 0.1 * randFloat())
}

// SortedSourceNames returns the requested source names in the stable
// order the response's per-source ordering guarantee requires (spec §5).
func SortedSourceNames(sources []model.SourceName) []model.SourceName {
	out := make([]model.SourceName, len(sources))
	copy(out, sources)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
