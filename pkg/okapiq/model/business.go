// Package model defines the canonical data shapes shared across the
// okapiq intelligence pipeline: the Business entity, its provenance,
// score bundles, and market-level rollups.
package model

import "time"

// SourceName identifies one of the recognized external data sources.
// It doubles as the adapter capability name used in crawl_sources.
type SourceName string

const (
	SourceMapsPrimary   SourceName = "MAPS_PRIMARY"
	SourceMapsSecondary SourceName = "MAPS_SECONDARY"
	SourceSearchSERP    SourceName = "SEARCH_SERP"
	SourceReviews       SourceName = "REVIEWS"
	SourceSignalsSocial SourceName = "SIGNALS_SOCIAL"
	SourceRegistry      SourceName = "REGISTRY"
	SourcePageCrawl     SourceName = "PAGE_CRAWL"
	SourceGenericWeb    SourceName = "GENERIC_WEB"
	SourceDemographics  SourceName = "DEMOGRAPHICS"
	SourceBizRegistry   SourceName = "BIZ_REGISTRY"
	SourceStateRegistry SourceName = "STATE_REGISTRY"
	SourceManual        SourceName = "MANUAL"
)

// Category is the closed industry vocabulary every Business is mapped into.
type Category string

const (
	CategoryHVAC          Category = "hvac"
	CategoryPlumbing      Category = "plumbing"
	CategoryElectrical    Category = "electrical"
	CategoryLandscaping   Category = "landscaping"
	CategoryRestaurant    Category = "restaurant"
	CategoryRetail        Category = "retail"
	CategoryHealthcare    Category = "healthcare"
	CategoryAutomotive    Category = "automotive"
	CategoryConstruction  Category = "construction"
	CategoryManufacturing Category = "manufacturing"
	CategoryServices      Category = "services"
	CategoryOther         Category = "other"
)

// Quality is the coarse data-quality band attached to a SourceRecord
// or, after recomputation, to a Business as a whole.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
	QualityLow    Quality = "low"
	QualityPoor   Quality = "poor"
)

// Address holds the raw and parsed representation of a business's
// street address plus an optional geocode.
type Address struct {
	Raw          string       `json:"raw"`
	StreetNumber string       `json:"street_number,omitempty"`
	StreetName   string       `json:"street_name,omitempty"`
	City         string       `json:"city,omitempty"`
	State        string       `json:"state,omitempty"`
	Zip          string       `json:"zip,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// Coordinates is a geocode with a source tag and a bounded accuracy.
type Coordinates struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Source   string  `json:"source,omitempty"`
	Accuracy float64 `json:"accuracy"` // [0,1]
}

// Contact holds the business's phone/email/website with validity flags
// computed by the Normalizer.
type Contact struct {
	PhoneRaw            string `json:"phone_raw,omitempty"`
	PhoneNationalFormat string `json:"phone_national_format,omitempty"`
	PhoneValid          bool   `json:"phone_valid"`
	EmailRaw            string `json:"email_raw,omitempty"`
	EmailValid          bool   `json:"email_valid"`
	WebsiteRaw          string `json:"website_raw,omitempty"`
	WebsiteValid        bool   `json:"website_valid"`
}

// Metrics are the bounded numeric fields describing a Business. All
// fields use pointer semantics so "unset" and "zero" are distinguishable;
// the Scorer fills missing values with documented defaults per spec.
type Metrics struct {
	Rating                *float64 `json:"rating,omitempty"`                 // [0,5]
	ReviewCount            *int     `json:"review_count,omitempty"`           // >=0
	EstimatedRevenue       *float64 `json:"estimated_revenue,omitempty"`      // >=0
	EmployeeCount          *int     `json:"employee_count,omitempty"`         // >=0
	YearsInBusiness        *int     `json:"years_in_business,omitempty"`      // >=0
	SuccessionRisk         *float64 `json:"succession_risk,omitempty"`        // [0,100]
	OwnerAgeEstimate        *int     `json:"owner_age_estimate,omitempty"`     // [18,100]
	MarketSharePercent     *float64 `json:"market_share_percent,omitempty"`   // [0,100]
	LeadScore              *float64 `json:"lead_score,omitempty"`             // [0,100]
	DigitalPresenceScore   *float64 `json:"digital_presence_score,omitempty"` // [0,100]
}

// OwnerInfo records an owner detected from a source record or from
// text analysis, with a confidence in how reliable the detection is.
type OwnerInfo struct {
	Name            string  `json:"name,omitempty"`
	AgeEstimate     *int    `json:"age_estimate,omitempty"`
	DetectionSource string  `json:"detection_source"`
	Confidence      float64 `json:"confidence"` // [0,1]
}

// SourceRecord is the immutable per-source snapshot a Business owns
// as provenance. Never mutated after it is attached.
type SourceRecord struct {
	Source          SourceName             `json:"source"`
	ExternalID      string                 `json:"external_id,omitempty"`
	ExtractedAt     time.Time              `json:"extracted_at"`
	Confidence      float64                `json:"confidence"` // [0,1]
	Quality         Quality                `json:"quality"`
	RawPayload      map[string]interface{} `json:"raw_payload,omitempty"`
}

// Business is the canonical, fused entity produced by the Normalizer
// and subsequently mutated only by the Enricher and Scorer.
type Business struct {
	BusinessID    string                `json:"business_id"`
	ExternalIDs   map[SourceName]string `json:"external_ids,omitempty"`
	Name          string                `json:"name"`
	Category      Category              `json:"category"`
	Industry      string                `json:"industry,omitempty"`
	NAICSCode     string                `json:"naics_code,omitempty"`
	Address       Address               `json:"address"`
	Contact       Contact               `json:"contact"`
	Metrics       Metrics               `json:"metrics"`
	Owner         *OwnerInfo            `json:"owner,omitempty"`
	SourceRecords []SourceRecord        `json:"source_records"`

	OverallQuality Quality   `json:"overall_quality"`
	LastUpdated    time.Time `json:"last_updated"`
	Tags           map[string]bool `json:"tags,omitempty"`
	Notes          []string  `json:"notes,omitempty"`

	// DemographicData and MarketContext are attached by the Enricher's
	// demographic pass; NLPAnalysis by the text-analysis pass.
	DemographicData *DemographicData `json:"demographic_data,omitempty"`
	MarketContext   *MarketContext   `json:"market_context,omitempty"`
	NLPAnalysis     *NLPAnalysis     `json:"nlp_analysis,omitempty"`
	MarketIntel     *MarketIntel     `json:"market_intelligence,omitempty"`

	Analysis *ScoreBundle `json:"analysis,omitempty"`
}

// DataSources returns the de-duplicated list of source names that
// contributed provenance to this Business, in first-seen order.
func (b *Business) DataSources() []string {
	seen := make(map[SourceName]bool, len(b.SourceRecords))
	out := make([]string, 0, len(b.SourceRecords))
	for _, rec := range b.SourceRecords {
		if seen[rec.Source] {
			continue
		}
		seen[rec.Source] = true
		out = append(out, string(rec.Source))
	}
	return out
}

// HasTag reports whether the given tag has been recorded on this entity.
func (b *Business) HasTag(tag string) bool {
	if b.Tags == nil {
		return false
	}
	return b.Tags[tag]
}

// AddTag records that an enrichment or lifecycle event occurred.
func (b *Business) AddTag(tag string) {
	if b.Tags == nil {
		b.Tags = make(map[string]bool)
	}
	b.Tags[tag] = true
}

// DemographicData is the per-zip demographic context attached by the
// Enricher's demographic enrichment pass.
type DemographicData struct {
	Zip                string  `json:"zip"`
	MedianIncome       float64 `json:"median_income"`
	Population         int     `json:"population"`
	MedianAge          float64 `json:"median_age"`
	EducationShare     float64 `json:"education_share"` // bachelor's-or-higher share
	UnemploymentRate   float64 `json:"unemployment_rate"`
	PerCapitaIncome    float64 `json:"per_capita_income"`
	EstimatedBusinesses int    `json:"estimated_business_count"`
}

// MarketContext is a derived summary of the DemographicData.
type MarketContext struct {
	IncomeLevel        string `json:"income_level"` // low/moderate/high/affluent
	MaturityLabel      string `json:"maturity_label"`
	DemographicProfile string `json:"demographic_profile"`
}

// NLPAnalysis is the output of the text-analysis enrichment pass.
type NLPAnalysis struct {
	Sentiment       float64  `json:"sentiment"` // [-1,1]
	KeyThemes       []string `json:"key_themes"`
	OwnerMentions   []string `json:"owner_mentions"`
	SuccessionCues  []string `json:"succession_cues"`
	Confidence      float64  `json:"confidence"`
	Provider        string   `json:"provider"` // "llm" or "fallback"
}

// MarketIntel is the synthesized, fields-only market-intelligence
// block derived purely from the entity's existing data.
type MarketIntel struct {
	CompetitivePosition     string   `json:"competitive_position"`
	CompetitiveAdvantages   []string `json:"competitive_advantages"`
	AcquisitionAttractivity float64  `json:"acquisition_attractiveness_prior"`
	SuccessionProbability   float64  `json:"succession_probability"`
	StrategicValue          string   `json:"strategic_value"`
	RevenueQuality          string   `json:"revenue_quality"`
	GrowthPotential         string   `json:"growth_potential"`
	FinancialStability      string   `json:"financial_stability"`
}
