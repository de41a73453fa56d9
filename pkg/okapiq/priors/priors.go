// Package priors centralizes the weights, multipliers, category priors,
// and keyword table the pipeline's normalization and scoring stages
// read from (spec §9 design note). The scoring functions' band
// thresholds, default values, and sub-factor formulas are not in this
// table; they are written inline in package score.
package priors

import (
	"os"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"okapiq/pkg/okapiq/model"
)

// Table is the full set of priors consumed by normalize/, enrich/, and
// score/. A zero-value Table is never used directly; callers get one
// from Default() or Load().
type Table struct {
	// SourceReliability is the base confidence prior per source (spec §4.3 table).
	SourceReliability map[model.SourceName]float64 `yaml:"source_reliability"`

	// MinInterRequestDelayMillis is the Crawler Hub's per-source cooperative
	// rate-limit floor (spec §4.1 "Rate policy").
	MinInterRequestDelayMillis map[model.SourceName]int `yaml:"min_inter_request_delay_millis"`
	DefaultInterRequestDelayMillis int                  `yaml:"default_inter_request_delay_millis"`

	// CategoryKeywords maps lowercase keyword -> category for the
	// Normalizer's category mapper. Matching is substring-contains
	// over a lowercased, whitespace-normalized input.
	CategoryKeywords map[string]model.Category `yaml:"-"`

	// CategoryTAMMultiplier is the per-category TAM multiplier used by
	// the TAM analysis (spec §4.5); DefaultCategoryMultiplier applies
	// to categories absent from the table.
	CategoryTAMMultiplier     map[model.Category]float64 `yaml:"category_tam_multiplier"`
	DefaultCategoryMultiplier float64                    `yaml:"default_category_multiplier"`

	// CategoryGrowthRatePrior and CategoryExitMultiplePrior feed the
	// TAM and growth-potential analyses.
	CategoryGrowthRatePrior   map[model.Category]float64 `yaml:"category_growth_rate_prior"`
	CategoryExitMultiplePrior map[model.Category]float64 `yaml:"category_exit_multiple_prior"`

	// SuccessionWeights are the eight-factor succession-risk blend weights (spec §4.5).
	SuccessionWeights SuccessionWeights `yaml:"succession_weights"`

	// LeadScoreWeights and AcquisitionWeights are the respective blend weights.
	LeadScoreWeights   LeadScoreWeights   `yaml:"lead_score_weights"`
	AcquisitionWeights AcquisitionWeights `yaml:"acquisition_weights"`

	// RevenueFromRatingReviews resolves the §9 Open Question: a single
	// consolidated formula (not one per adapter) estimating revenue
	// from rating x review_count when no direct revenue figure exists.
	RevenueFromRatingReviews RevenueEstimateParams `yaml:"revenue_from_rating_reviews"`

	// TAMSAMRatio implements SAM = TAM*ratio (spec's fixed 0.6 TAM->SAM
	// ratio); the scorer then derives SOM = SAM*market_share/100.
	TAMSAMRatio float64 `yaml:"tam_sam_ratio"`

	// CacheTTLSeconds and CacheMaxEntries are the Cache's deployment defaults (spec §4.7).
	CacheTTLSeconds int `yaml:"cache_ttl_seconds"`
	CacheMaxEntries int `yaml:"cache_max_entries"`

	// FallbackEntityCountMin/Max bound the fallback-mode synthesized set (spec §4.6.1).
	FallbackEntityCountMin int `yaml:"fallback_entity_count_min"`
	FallbackEntityCountMax int `yaml:"fallback_entity_count_max"`

	// EnrichmentBatchSize is the Enricher's fixed concurrent-batch size (spec §4.4).
	EnrichmentBatchSize int `yaml:"enrichment_batch_size"`

	// AdapterTimeoutSeconds and AdapterMaxRetries are the per-adapter defaults (spec §5).
	AdapterTimeoutSeconds int `yaml:"adapter_timeout_seconds"`
	AdapterMaxRetries     int `yaml:"adapter_max_retries"`
}

// SuccessionWeights are the fixed blend weights for the eight succession sub-factors.
type SuccessionWeights struct {
	OwnerAge                float64 `yaml:"owner_age"`
	BusinessAge              float64 `yaml:"business_age"`
	FamilyInvolvement        float64 `yaml:"family_involvement"`
	OperationalIndependence  float64 `yaml:"operational_independence"`
	DigitalPresence          float64 `yaml:"digital_presence"`
	FinancialPerformance     float64 `yaml:"financial_performance"`
	MarketPosition           float64 `yaml:"market_position"`
	SuccessionPlanning       float64 `yaml:"succession_planning"`
}

// LeadScoreWeights are the fixed blend weights for the five lead-score components.
type LeadScoreWeights struct {
	ContactQuality       float64 `yaml:"contact_quality"`
	BusinessQuality       float64 `yaml:"business_quality"`
	FinancialOpportunity  float64 `yaml:"financial_opportunity"`
	SuccessionOpportunity float64 `yaml:"succession_opportunity"`
	DataCompleteness      float64 `yaml:"data_completeness"`
}

// AcquisitionWeights are the fixed blend weights for the four acquisition-attractiveness components.
type AcquisitionWeights struct {
	Financial    float64 `yaml:"financial"`
	Strategic    float64 `yaml:"strategic"`
	Operational  float64 `yaml:"operational"`
	RiskAdjusted float64 `yaml:"risk_adjusted"`
}

// RevenueEstimateParams parameterizes the single consolidated
// revenue-from-rating-x-reviews formula (the Normalizer's metric fill
// and the MAPS_SECONDARY and REVIEWS adapters).
type RevenueEstimateParams struct {
	BaseRevenuePerReview float64 `yaml:"base_revenue_per_review"`
	RatingExponent       float64 `yaml:"rating_exponent"`
	MinRevenue           float64 `yaml:"min_revenue"`
	MaxRevenue           float64 `yaml:"max_revenue"`
}

// Default returns the compiled-in defaults. It is always a valid,
// complete table; Load layers file-based overrides on top of it.
func Default() *Table {
	t := &Table{
		SourceReliability: map[model.SourceName]float64{
			model.SourceBizRegistry:   0.95,
			model.SourceRegistry:      0.90,
			model.SourceDemographics:  0.90,
			model.SourceStateRegistry: 0.90,
			model.SourceMapsPrimary:   0.80,
			model.SourceMapsSecondary: 0.75,
			model.SourceReviews:       0.75,
			model.SourceSearchSERP:    0.70,
			model.SourcePageCrawl:     0.60,
			model.SourceGenericWeb:    0.60,
			model.SourceSignalsSocial: 0.60,
			model.SourceManual:        0.50,
		},
		MinInterRequestDelayMillis: map[model.SourceName]int{
			model.SourceMapsPrimary:   3000,
			model.SourceMapsSecondary: 2000,
			model.SourceSignalsSocial: 5000,
			model.SourceRegistry:      1000,
		},
		DefaultInterRequestDelayMillis: 2000,

		CategoryKeywords: defaultCategoryKeywords(),

		CategoryTAMMultiplier: map[model.Category]float64{
			model.CategoryHVAC:          1.8,
			model.CategoryPlumbing:      1.7,
			model.CategoryElectrical:    1.7,
			model.CategoryLandscaping:   1.4,
			model.CategoryRestaurant:    1.2,
			model.CategoryRetail:        1.3,
			model.CategoryHealthcare:    2.2,
			model.CategoryAutomotive:    1.6,
			model.CategoryConstruction:  1.9,
			model.CategoryManufacturing: 2.0,
			model.CategoryServices:      1.5,
			model.CategoryOther:         1.5,
		},
		DefaultCategoryMultiplier: 1.5,

		CategoryGrowthRatePrior: map[model.Category]float64{
			model.CategoryHVAC:          0.06,
			model.CategoryPlumbing:      0.05,
			model.CategoryElectrical:    0.05,
			model.CategoryLandscaping:   0.04,
			model.CategoryRestaurant:    0.03,
			model.CategoryRetail:        0.02,
			model.CategoryHealthcare:    0.08,
			model.CategoryAutomotive:    0.04,
			model.CategoryConstruction:  0.05,
			model.CategoryManufacturing: 0.03,
			model.CategoryServices:      0.05,
			model.CategoryOther:         0.04,
		},
		CategoryExitMultiplePrior: map[model.Category]float64{
			model.CategoryHVAC:          4.5,
			model.CategoryPlumbing:      4.2,
			model.CategoryElectrical:    4.2,
			model.CategoryLandscaping:   3.5,
			model.CategoryRestaurant:    2.5,
			model.CategoryRetail:        3.0,
			model.CategoryHealthcare:    6.0,
			model.CategoryAutomotive:    3.8,
			model.CategoryConstruction:  4.0,
			model.CategoryManufacturing: 5.0,
			model.CategoryServices:      4.0,
			model.CategoryOther:         3.5,
		},

		SuccessionWeights: SuccessionWeights{
			OwnerAge:               0.25,
			BusinessAge:            0.15,
			FamilyInvolvement:      0.15,
			OperationalIndependence: 0.15,
			DigitalPresence:        0.10,
			FinancialPerformance:   0.10,
			MarketPosition:         0.05,
			SuccessionPlanning:     0.05,
		},
		LeadScoreWeights: LeadScoreWeights{
			ContactQuality:        0.25,
			BusinessQuality:       0.20,
			FinancialOpportunity:  0.25,
			SuccessionOpportunity: 0.20,
			DataCompleteness:      0.10,
		},
		AcquisitionWeights: AcquisitionWeights{
			Financial:    0.30,
			Strategic:    0.25,
			Operational:  0.25,
			RiskAdjusted: 0.20,
		},

		RevenueFromRatingReviews: RevenueEstimateParams{
			BaseRevenuePerReview: 2500,
			RatingExponent:       1.5,
			MinRevenue:           50000,
			MaxRevenue:           20000000,
		},

		TAMSAMRatio: 0.6,

		CacheTTLSeconds: 6 * 3600,
		CacheMaxEntries: 10000,

		FallbackEntityCountMin: 3,
		FallbackEntityCountMax: 5,

		EnrichmentBatchSize: 10,

		AdapterTimeoutSeconds: 30,
		AdapterMaxRetries:     3,
	}
	return t
}

// defaultCategoryKeywords implements the closed keyword vocabulary for
// Normalizer category mapping. "accounting"/"legal"/"consulting" are
// mapped explicitly to `services`, resolving spec §9's Open Question.
func defaultCategoryKeywords() map[string]model.Category {
	return map[string]model.Category{
		"hvac": model.CategoryHVAC, "heating": model.CategoryHVAC, "air condition": model.CategoryHVAC, "cooling": model.CategoryHVAC,
		"plumb": model.CategoryPlumbing, "drain": model.CategoryPlumbing, "pipe": model.CategoryPlumbing,
		"electric": model.CategoryElectrical, "wiring": model.CategoryElectrical,
		"landscap": model.CategoryLandscaping, "lawn": model.CategoryLandscaping, "garden": model.CategoryLandscaping,
		"restaurant": model.CategoryRestaurant, "cafe": model.CategoryRestaurant, "diner": model.CategoryRestaurant, "bistro": model.CategoryRestaurant, "eatery": model.CategoryRestaurant,
		"retail": model.CategoryRetail, "store": model.CategoryRetail, "shop": model.CategoryRetail, "boutique": model.CategoryRetail,
		"health": model.CategoryHealthcare, "medical": model.CategoryHealthcare, "clinic": model.CategoryHealthcare, "dental": model.CategoryHealthcare, "pharmacy": model.CategoryHealthcare,
		"auto": model.CategoryAutomotive, "car repair": model.CategoryAutomotive, "mechanic": model.CategoryAutomotive, "tire": model.CategoryAutomotive,
		"construct": model.CategoryConstruction, "contractor": model.CategoryConstruction, "roofing": model.CategoryConstruction, "remodel": model.CategoryConstruction,
		"manufactur": model.CategoryManufacturing, "factory": model.CategoryManufacturing, "fabrication": model.CategoryManufacturing,
		"accounting": model.CategoryServices, "bookkeep": model.CategoryServices, "tax prep": model.CategoryServices,
		"legal": model.CategoryServices, "law firm": model.CategoryServices, "attorney": model.CategoryServices,
		"consult": model.CategoryServices, "financial services": model.CategoryServices, "insurance": model.CategoryServices,
		"cleaning": model.CategoryServices, "janitorial": model.CategoryServices, "salon": model.CategoryServices, "spa": model.CategoryServices,
	}
}

// Load returns Default() with the yaml file's values for the fields
// mergeOverrides handles merged on top, and (if the hjson sidecar
// exists) the hjson scalar overrides merged after that. Missing files
// are not an error; a file only overrides the handled keys it sets,
// and any other keys in it are ignored.
func Load(yamlPath, hjsonOverridePath string) (*Table, error) {
	t := Default()
	if yamlPath != "" {
		if data, err := os.ReadFile(yamlPath); err == nil {
			var partial Table
			if err := yaml.Unmarshal(data, &partial); err != nil {
				return nil, err
			}
			mergeOverrides(t, &partial)
		}
	}
	if hjsonOverridePath != "" {
		if data, err := os.ReadFile(hjsonOverridePath); err == nil {
			var generic map[string]interface{}
			if err := hjson.Unmarshal(data, &generic); err != nil {
				return nil, err
			}
			applyHjsonScalarOverrides(t, generic)
		}
	}
	return t, nil
}

// mergeOverrides layers non-zero scalar/map fields from src onto dst.
// Only the handful of fields most commonly tuned in the field are
// merged; the rest require a full table replacement.
func mergeOverrides(dst, src *Table) {
	if src.DefaultCategoryMultiplier != 0 {
		dst.DefaultCategoryMultiplier = src.DefaultCategoryMultiplier
	}
	if src.TAMSAMRatio != 0 {
		dst.TAMSAMRatio = src.TAMSAMRatio
	}
	if src.CacheTTLSeconds != 0 {
		dst.CacheTTLSeconds = src.CacheTTLSeconds
	}
	if src.CacheMaxEntries != 0 {
		dst.CacheMaxEntries = src.CacheMaxEntries
	}
	if src.EnrichmentBatchSize != 0 {
		dst.EnrichmentBatchSize = src.EnrichmentBatchSize
	}
	if src.AdapterTimeoutSeconds != 0 {
		dst.AdapterTimeoutSeconds = src.AdapterTimeoutSeconds
	}
	if src.AdapterMaxRetries != 0 {
		dst.AdapterMaxRetries = src.AdapterMaxRetries
	}
	for k, v := range src.CategoryTAMMultiplier {
		dst.CategoryTAMMultiplier[k] = v
	}
	for k, v := range src.SourceReliability {
		dst.SourceReliability[k] = v
	}
}

// applyHjsonScalarOverrides applies a small set of top-level scalar
// tuning knobs from a local hjson override file, e.g. for an operator
// tuning cache_ttl_seconds without editing the yaml table.
func applyHjsonScalarOverrides(t *Table, generic map[string]interface{}) {
	if v, ok := generic["cache_ttl_seconds"].(float64); ok {
		t.CacheTTLSeconds = int(v)
	}
	if v, ok := generic["enrichment_batch_size"].(float64); ok {
		t.EnrichmentBatchSize = int(v)
	}
	if v, ok := generic["default_category_multiplier"].(float64); ok {
		t.DefaultCategoryMultiplier = v
	}
}

// MinDelay returns the cooperative rate-limit floor for a source.
func (t *Table) MinDelay(source model.SourceName) int {
	if ms, ok := t.MinInterRequestDelayMillis[source]; ok {
		return ms
	}
	return t.DefaultInterRequestDelayMillis
}

// Reliability returns the base confidence prior for a source.
func (t *Table) Reliability(source model.SourceName) float64 {
	if v, ok := t.SourceReliability[source]; ok {
		return v
	}
	return 0.5
}

// TAMMultiplier returns the category TAM multiplier, falling back to
// the documented default for unrecognized categories.
func (t *Table) TAMMultiplier(c model.Category) float64 {
	if v, ok := t.CategoryTAMMultiplier[c]; ok {
		return v
	}
	return t.DefaultCategoryMultiplier
}

// GrowthRatePrior returns the category growth-rate prior.
func (t *Table) GrowthRatePrior(c model.Category) float64 {
	if v, ok := t.CategoryGrowthRatePrior[c]; ok {
		return v
	}
	return 0.04
}

// ExitMultiplePrior returns the category exit-multiple prior.
func (t *Table) ExitMultiplePrior(c model.Category) float64 {
	if v, ok := t.CategoryExitMultiplePrior[c]; ok {
		return v
	}
	return 3.5
}
