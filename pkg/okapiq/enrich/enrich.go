// Package enrich implements the Enricher: demographic, registry,
// state-registry, text-analysis, and market-intelligence passes over
// canonical Business entities (spec §4.4).
package enrich

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// Enricher applies the selected enrichment kinds to a batch of
// entities with bounded per-batch concurrency.
type Enricher struct {
	priors *priors.Table
	log    zerolog.Logger

	demographics  *DemographicPass
	registry      *RegistryPass
	stateRegistry *StateRegistryPass
	textAnalysis  *TextAnalysisPass
	marketIntel   *MarketIntelPass
}

// New builds an Enricher wired against the given adapter registry
// (DEMOGRAPHICS, REGISTRY, STATE_REGISTRY sources) and an optional
// LLM-backed sentiment client.
func New(cfg *config.Config, registry map[model.SourceName]adapters.Adapter, p *priors.Table, log zerolog.Logger) *Enricher {
	return &Enricher{
		priors:        p,
		log:           log,
		demographics:  &DemographicPass{adapter: registry[model.SourceDemographics], priors: p},
		registry:      &RegistryPass{adapter: registry[model.SourceRegistry], priors: p},
		stateRegistry: &StateRegistryPass{adapter: registry[model.SourceStateRegistry], priors: p},
		textAnalysis:  NewTextAnalysisPass(cfg),
		marketIntel:   &MarketIntelPass{priors: p},
	}
}

// Enrich runs every requested kind over every entity in fixed-size
// concurrent batches (spec §4.4 "entities are enriched in fixed-size
// concurrent batches... within a batch, per-entity tasks run
// concurrently"). A per-entity failure never poisons the batch: the
// un-enriched entity is returned as-is for that kind.
func (e *Enricher) Enrich(ctx context.Context, businesses []model.Business, kinds []model.EnrichmentKind, location, industry string) []model.Business {
	batchSize := e.priors.EnrichmentBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	out := make([]model.Business, len(businesses))
	copy(out, businesses)

	for start := 0; start < len(out); start += batchSize {
		end := start + batchSize
		if end > len(out) {
			end = len(out)
		}
		e.enrichBatch(ctx, out[start:end], kinds, location, industry)
	}
	return out
}

func (e *Enricher) enrichBatch(ctx context.Context, batch []model.Business, kinds []model.EnrichmentKind, location, industry string) {
	sem := semaphore.NewWeighted(int64(len(batch)))
	var wg sync.WaitGroup

	for i := range batch {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			e.enrichOne(ctx, &batch[i], kinds, location, industry)
		}()
	}
	wg.Wait()
}

// enrichOne runs every requested kind against a single entity,
// recovering from a panic in any one pass, then applies the
// overall_quality upgrade rule (spec §4.4 post-conditions).
func (e *Enricher) enrichOne(ctx context.Context, b *model.Business, kinds []model.EnrichmentKind, location, industry string) {
	successes := 0
	for _, kind := range kinds {
		if e.runPass(ctx, b, kind, location, industry) {
			successes++
		}
	}
	upgradeQuality(b, successes)
}

func (e *Enricher) runPass(ctx context.Context, b *model.Business, kind model.EnrichmentKind, location, industry string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("component", "enrich").Str("kind", string(kind)).Interface("panic", r).Msg("enrichment pass panicked")
			ok = false
		}
	}()
	switch kind {
	case model.EnrichmentDemographic:
		return e.demographics.Apply(ctx, b)
	case model.EnrichmentRegistry:
		return e.registry.Apply(ctx, b, location)
	case model.EnrichmentStateRegistry:
		return e.stateRegistry.Apply(ctx, b, location)
	case model.EnrichmentTextAnalysis:
		return e.textAnalysis.Apply(ctx, b)
	case model.EnrichmentMarketIntel:
		return e.marketIntel.Apply(b)
	default:
		return false
	}
}

// upgradeQuality implements spec §4.4's post-condition: >=3 successful
// enrichments upgrades to high, 2 upgrades to at least medium.
func upgradeQuality(b *model.Business, successes int) {
	rank := map[model.Quality]int{
		model.QualityHigh:   4,
		model.QualityMedium: 3,
		model.QualityLow:    2,
		model.QualityPoor:   1,
	}
	switch {
	case successes >= 3:
		b.OverallQuality = model.QualityHigh
	case successes == 2:
		if rank[b.OverallQuality] < rank[model.QualityMedium] {
			b.OverallQuality = model.QualityMedium
		}
	}
}
