package model

import "time"

// EnrichmentKind names one of the five enrichment passes.
type EnrichmentKind string

const (
	EnrichmentDemographic      EnrichmentKind = "demographic"
	EnrichmentRegistry         EnrichmentKind = "registry"
	EnrichmentStateRegistry    EnrichmentKind = "state_registry"
	EnrichmentTextAnalysis     EnrichmentKind = "text_analysis"
	EnrichmentMarketIntel      EnrichmentKind = "market_intelligence"
)

// DefaultEnrichmentKinds is applied when a request omits enrichment_types.
var DefaultEnrichmentKinds = []EnrichmentKind{
	EnrichmentDemographic,
	EnrichmentRegistry,
	EnrichmentStateRegistry,
	EnrichmentTextAnalysis,
	EnrichmentMarketIntel,
}

// DefaultCrawlSources is applied when a request omits crawl_sources.
var DefaultCrawlSources = []SourceName{
	SourceMapsSecondary,
	SourceSearchSERP,
	SourceReviews,
}

// Request is the inbound pipeline request shape (see spec §6.1).
type Request struct {
	Location        string         `json:"location"`
	Industry        string         `json:"industry,omitempty"`
	RadiusMiles     int            `json:"radius_miles"`
	MaxBusinesses   int            `json:"max_businesses"`
	CrawlSources    []SourceName   `json:"crawl_sources,omitempty"`
	EnrichmentTypes []EnrichmentKind `json:"enrichment_types,omitempty"`
	AnalysisTypes   []AnalysisKind `json:"analysis_types,omitempty"`
	UseCache        *bool          `json:"use_cache,omitempty"`
	Priority        int            `json:"priority,omitempty"`
}

// Normalize fills request defaults and clamps bounds per spec §6.1/§6.2.
func (r *Request) Normalize() {
	if r.RadiusMiles <= 0 {
		r.RadiusMiles = 25
	}
	if r.RadiusMiles > 200 {
		r.RadiusMiles = 200
	}
	if r.MaxBusinesses <= 0 {
		r.MaxBusinesses = 50
	}
	if r.MaxBusinesses > 500 {
		r.MaxBusinesses = 500
	}
	if r.Priority <= 0 {
		r.Priority = 1
	}
	if r.Priority > 5 {
		r.Priority = 5
	}
	if len(r.CrawlSources) == 0 {
		r.CrawlSources = DefaultCrawlSources
	}
	if len(r.EnrichmentTypes) == 0 {
		r.EnrichmentTypes = DefaultEnrichmentKinds
	}
	if len(r.AnalysisTypes) == 0 {
		r.AnalysisTypes = AllAnalysisKinds
	}
}

// UseCacheOrDefault returns the effective use_cache flag (default true).
func (r *Request) UseCacheOrDefault() bool {
	if r.UseCache == nil {
		return true
	}
	return *r.UseCache
}

// PipelinePerformance carries the per-stage timings of one pipeline run.
type PipelinePerformance struct {
	CrawlingSeconds      float64 `json:"crawling"`
	NormalizationSeconds float64 `json:"normalization"`
	EnrichmentSeconds    float64 `json:"enrichment"`
	ScoringSeconds       float64 `json:"scoring"`
	CompilationSeconds   float64 `json:"compilation"`
	TotalSeconds         float64 `json:"total"`
}

// Response is the outbound pipeline response shape (see spec §6.1).
type Response struct {
	RequestID             string              `json:"request_id"`
	Location               string              `json:"location"`
	Industry                string              `json:"industry,omitempty"`
	ProcessingTimeSeconds   float64             `json:"processing_time_seconds"`
	Timestamp               time.Time           `json:"timestamp"`
	Businesses              []Business          `json:"businesses"`
	BusinessCount           int                 `json:"business_count"`
	MarketMetrics           MarketMetrics       `json:"market_metrics"`
	MarketClusters          []MarketCluster     `json:"market_clusters"`
	FragmentationAnalysis   *FragmentationAnalysis `json:"fragmentation_analysis,omitempty"`
	TopLeads                []Business          `json:"top_leads"`
	LeadDistribution        LeadDistribution    `json:"lead_distribution"`
	DataSourcesUsed         []string            `json:"data_sources_used"`
	DataQualityScore        float64             `json:"data_quality_score"`
	CacheHitRate            float64             `json:"cache_hit_rate"`
	AcquisitionRecommendations []Recommendation `json:"acquisition_recommendations"`
	MarketOpportunities      []Recommendation    `json:"market_opportunities"`
	PipelinePerformance      PipelinePerformance `json:"pipeline_performance"`
	Errors                   []string            `json:"errors,omitempty"`
}
