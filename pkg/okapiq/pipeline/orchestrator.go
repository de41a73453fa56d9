// Package pipeline implements the Pipeline Orchestrator: the
// request-scoped controller that runs Crawler Hub -> Normalizer ->
// Enricher -> Scorer -> Aggregator and assembles the response bundle
// (spec §4.6), grounded on the teacher's PipelineOrchestrator
// stage-sequencing shape (cache check -> extraction loop -> synthesis
// -> analysis -> storage) generalized from a financial-filing pipeline
// to a market-intelligence one.
package pipeline

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/aggregate"
	"okapiq/pkg/okapiq/cache"
	"okapiq/pkg/okapiq/crawler"
	"okapiq/pkg/okapiq/enrich"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/normalize"
	"okapiq/pkg/okapiq/priors"
	"okapiq/pkg/okapiq/score"
)

// Orchestrator wires the five pipeline stages plus the cache into the
// single `process(request) -> response` operation spec §4.6 names.
type Orchestrator struct {
	hub        *crawler.Hub
	normalizer *normalize.Normalizer
	enricher   *enrich.Enricher
	scorer     *score.Scorer
	geocoder   *adapters.Geocoder
	cache      *cache.Cache
	priors     *priors.Table
	log        zerolog.Logger
}

// New builds an Orchestrator from its already-constructed
// dependencies; cache may be nil, in which case every request is
// treated as a miss and nothing is written back.
func New(hub *crawler.Hub, normalizer *normalize.Normalizer, enricher *enrich.Enricher, scorer *score.Scorer, geocoder *adapters.Geocoder, c *cache.Cache, p *priors.Table, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		hub:        hub,
		normalizer: normalizer,
		enricher:   enricher,
		scorer:     scorer,
		geocoder:   geocoder,
		cache:      c,
		priors:     p,
		log:        log,
	}
}

// Process runs the full nine-step pipeline for one request (spec
// §4.6). It never raises: any unexpected failure degrades into a
// response carrying whatever entities were obtained plus an errors
// list, rather than propagating an error to the caller.
func (o *Orchestrator) Process(ctx context.Context, req model.Request) model.Response {
	req.Normalize()
	start := time.Now()
	requestID := uuid.NewString()
	var perf model.PipelinePerformance
	var errs []string

	// 1. Cache lookup.
	key := cache.Key(req)
	if req.UseCacheOrDefault() && o.cache != nil {
		if entry, ok := o.cache.Get(ctx, key); ok {
			resp := entry.Response
			resp.RequestID = requestID
			resp.CacheHitRate = 1.0
			resp.ProcessingTimeSeconds = time.Since(start).Seconds()
			cacheHitsTotal.Inc()
			requestsTotal.WithLabelValues("cache_hit").Inc()
			return resp
		}
	}

	businesses, hadRealData := o.gather(ctx, req, &perf, &errs)

	// 5. Truncate to max_businesses by (quality desc, lead_score desc).
	normalize.SortByQualityThenLead(businesses)
	if len(businesses) > req.MaxBusinesses {
		businesses = businesses[:req.MaxBusinesses]
	}

	// 6. Enrich.
	enrichStart := time.Now()
	businesses = o.enricher.Enrich(ctx, businesses, req.EnrichmentTypes, req.Location, req.Industry)
	perf.EnrichmentSeconds = time.Since(enrichStart).Seconds()
	stageSeconds.WithLabelValues("enrichment").Observe(perf.EnrichmentSeconds)

	// 7. Score.
	scoreStart := time.Now()
	businesses = o.scorer.Score(businesses, req.AnalysisTypes)
	perf.ScoringSeconds = time.Since(scoreStart).Seconds()
	stageSeconds.WithLabelValues("scoring").Observe(perf.ScoringSeconds)

	// 8. Build response bundle.
	compileStart := time.Now()
	resp := o.buildResponse(requestID, req, businesses, hadRealData, errs)
	perf.CompilationSeconds = time.Since(compileStart).Seconds()
	stageSeconds.WithLabelValues("compilation").Observe(perf.CompilationSeconds)

	perf.TotalSeconds = time.Since(start).Seconds()
	resp.PipelinePerformance = perf
	resp.ProcessingTimeSeconds = perf.TotalSeconds

	// 9. Write cache.
	if req.UseCacheOrDefault() && o.cache != nil {
		o.cache.Set(ctx, key, resp)
	}

	requestsTotal.WithLabelValues("ok").Inc()
	logResourceSnapshot(o.log, requestID)
	return resp
}

// gather runs steps 2-4: select adapters, call the hub, normalize,
// and fall back to synthesized entities when nothing real was
// obtained. It recovers from any panic in the stage chain so a single
// unexpected failure degrades the response instead of crashing the
// request (spec §4.6 "never raises").
func (o *Orchestrator) gather(ctx context.Context, req model.Request, perf *model.PipelinePerformance, errs *[]string) (businesses []model.Business, hadRealData bool) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("component", "pipeline").Interface("panic", r).Msg("pipeline stage panicked, falling back")
			*errs = append(*errs, "pipeline_unexpected_error: stage panic recovered")
			businesses = o.runFallback(ctx, req, false)
			hadRealData = false
		}
	}()

	// 2-3. Select adapters and call the Crawler Hub.
	crawlStart := time.Now()
	results := o.hub.Crawl(ctx, req.Location, req.Industry, req.RadiusMiles, req.CrawlSources)
	perf.CrawlingSeconds = time.Since(crawlStart).Seconds()
	stageSeconds.WithLabelValues("crawling").Observe(perf.CrawlingSeconds)

	successCount := 0
	for _, name := range crawler.SortedSourceNames(req.CrawlSources) {
		result, ok := results[name]
		if !ok {
			continue
		}
		if result.Success {
			successCount++
		}
		for _, e := range result.Errors {
			*errs = append(*errs, e.Error())
		}
	}

	// 4. Normalize.
	normalizeStart := time.Now()
	businesses = o.normalizer.Normalize(results)
	perf.NormalizationSeconds = time.Since(normalizeStart).Seconds()
	stageSeconds.WithLabelValues("normalization").Observe(perf.NormalizationSeconds)

	hadRealData = successCount > 0 && len(businesses) > 0
	if successCount == 0 || len(businesses) == 0 {
		*errs = append(*errs, "pipeline_empty_result: no successful adapters or zero normalized entities, using fallback")
		businesses = o.runFallback(ctx, req, successCount > 0)
	}
	return businesses, hadRealData
}

// buildResponse assembles the MarketBundle response shape from the
// fully scored entity batch (spec §3 MarketBundle, §6.1 Response).
func (o *Orchestrator) buildResponse(requestID string, req model.Request, businesses []model.Business, hadRealData bool, errs []string) model.Response {
	metrics := aggregate.Aggregate(businesses)
	clusters := score.Cluster(businesses)
	topLeads := aggregate.TopLeads(businesses, 10)
	dist := aggregate.LeadDistribution(businesses)
	acqRecs, marketRecs := aggregate.Recommendations(businesses, metrics)
	fragmentation := score.MarketFragmentation(businesses)

	dataSources := collectDataSources(businesses)
	dataQuality := averageQuality(businesses)
	if !hadRealData {
		dataQuality = fallbackDataQualityScore(false, dataQuality)
	} else if hasFallbackTag(businesses) {
		dataQuality = fallbackDataQualityScore(true, dataQuality)
	}

	resp := model.Response{
		RequestID:                  requestID,
		Location:                   req.Location,
		Industry:                   req.Industry,
		Timestamp:                  time.Now(),
		Businesses:                 businesses,
		BusinessCount:              len(businesses),
		MarketMetrics:              metrics,
		MarketClusters:             clusters,
		FragmentationAnalysis:      fragmentation,
		TopLeads:                   topLeads,
		LeadDistribution:           dist,
		DataSourcesUsed:            dataSources,
		DataQualityScore:           dataQuality,
		CacheHitRate:               0,
		AcquisitionRecommendations: acqRecs,
		MarketOpportunities:        marketRecs,
		Errors:                     errs,
	}
	return resp
}

func collectDataSources(businesses []model.Business) []string {
	seen := make(map[string]bool)
	var out []string
	for _, b := range businesses {
		for _, s := range b.DataSources() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

func hasFallbackTag(businesses []model.Business) bool {
	for _, b := range businesses {
		if b.HasTag("fallback_minimal") {
			return true
		}
	}
	return false
}

// averageQuality maps overall_quality bands onto [0,1] and averages
// across the batch, giving the response's data_quality_score a
// continuous value instead of a single band label.
func averageQuality(businesses []model.Business) float64 {
	if len(businesses) == 0 {
		return 0
	}
	band := map[model.Quality]float64{
		model.QualityHigh:   1.0,
		model.QualityMedium: 0.7,
		model.QualityLow:    0.4,
		model.QualityPoor:   0.1,
	}
	total := 0.0
	for _, b := range businesses {
		total += band[b.OverallQuality]
	}
	return total / float64(len(businesses))
}
