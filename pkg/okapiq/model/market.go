package model

import "time"

// MarketCluster is one k-means cluster over the scored entity set.
type MarketCluster struct {
	Name                 string  `json:"name"`
	Size                 int     `json:"size"`
	AvgRevenue           float64 `json:"avg_revenue"`
	AvgRating            float64 `json:"avg_rating"`
	CompetitiveIntensity float64 `json:"competitive_intensity"`
	GrowthOpportunity    float64 `json:"growth_opportunity"`
	ConsolidationPotential float64 `json:"consolidation_potential"`
}

// MarketMetrics are the aggregate rollups computed by the Aggregator.
type MarketMetrics struct {
	TotalBusinesses        int     `json:"total_businesses"`
	TotalRevenue            float64 `json:"total_revenue"`
	AvgRevenue              float64 `json:"avg_revenue"`
	AvgRating               float64 `json:"avg_rating"`
	AvgSuccessionRisk        float64 `json:"avg_succession_risk"`
	TAMRollup               float64 `json:"tam_rollup"`
	MarketConcentrationHHI  float64 `json:"market_concentration_hhi"`
	DigitalMaturityAvg      float64 `json:"digital_maturity_avg"`
	AcquisitionReadinessAvg float64 `json:"acquisition_readiness_avg"`
}

// LeadDistribution counts businesses per lead-grade band.
type LeadDistribution struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
}

// Recommendation is a short actionable note surfaced in the response.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MarketBundle is the request-level analytics bundle returned alongside
// the scored entity list.
type MarketBundle struct {
	Metrics                   MarketMetrics    `json:"market_metrics"`
	Clusters                  []MarketCluster  `json:"market_clusters"`
	FragmentationAnalysis     *FragmentationAnalysis `json:"fragmentation_analysis,omitempty"`
	TopLeads                  []Business       `json:"top_leads"`
	LeadDistribution          LeadDistribution `json:"lead_distribution"`
	DataSourcesUsed           []string         `json:"data_sources_used"`
	DataQualityScore          float64          `json:"data_quality_score"` // [0,1]
	AcquisitionRecommendations []Recommendation `json:"acquisition_recommendations"`
	MarketOpportunities        []Recommendation `json:"market_opportunities"`
	GeneratedAt                time.Time        `json:"generated_at"`
}
