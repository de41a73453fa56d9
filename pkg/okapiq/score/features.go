package score

import (
	"strconv"

	"okapiq/pkg/okapiq/model"
)

// FeatureRow is the dense numeric feature table row for one entity
// (spec §4.5 "feature extraction"). Missing numerics are filled with
// zero rather than omitted (owner_age_estimate defaults to 50), so every
// downstream analysis can read a complete row.
type FeatureRow struct {
	BusinessID string

	Rating             float64
	ReviewCount         float64
	EstimatedRevenue    float64
	EmployeeCount       float64
	YearsInBusiness     float64
	SuccessionRisk      float64
	OwnerAgeEstimate    float64
	MarketSharePercent  float64
	DigitalPresenceScore float64

	PhoneValid   float64
	EmailValid   float64
	WebsiteValid float64

	CategoryOneHot map[model.Category]float64

	HasCoordinates float64
	ZipPrefix5     int

	QualityHigh   float64
	QualityMedium float64
	QualityLow    float64
	QualityPoor   float64

	ProvenanceSourceCount float64

	EnrichedDemographic    float64
	EnrichedRegistry       float64
	EnrichedStateRegistry  float64
	EnrichedTextAnalysis   float64
	EnrichedMarketIntel    float64
}

// ExtractFeatures builds the dense feature row for one Business.
func ExtractFeatures(b *model.Business) FeatureRow {
	f := FeatureRow{BusinessID: b.BusinessID}

	if b.Metrics.Rating != nil {
		f.Rating = *b.Metrics.Rating
	}
	if b.Metrics.ReviewCount != nil {
		f.ReviewCount = float64(*b.Metrics.ReviewCount)
	}
	if b.Metrics.EstimatedRevenue != nil {
		f.EstimatedRevenue = *b.Metrics.EstimatedRevenue
	}
	if b.Metrics.EmployeeCount != nil {
		f.EmployeeCount = float64(*b.Metrics.EmployeeCount)
	}
	if b.Metrics.YearsInBusiness != nil {
		f.YearsInBusiness = float64(*b.Metrics.YearsInBusiness)
	}
	if b.Metrics.SuccessionRisk != nil {
		f.SuccessionRisk = *b.Metrics.SuccessionRisk
	}
	if b.Metrics.OwnerAgeEstimate != nil {
		f.OwnerAgeEstimate = float64(*b.Metrics.OwnerAgeEstimate)
	} else {
		f.OwnerAgeEstimate = 50
	}
	if b.Metrics.MarketSharePercent != nil {
		f.MarketSharePercent = *b.Metrics.MarketSharePercent
	}
	if b.Metrics.DigitalPresenceScore != nil {
		f.DigitalPresenceScore = *b.Metrics.DigitalPresenceScore
	}

	f.PhoneValid = boolFloat(b.Contact.PhoneValid)
	f.EmailValid = boolFloat(b.Contact.EmailValid)
	f.WebsiteValid = boolFloat(b.Contact.WebsiteValid)

	f.CategoryOneHot = map[model.Category]float64{b.Category: 1.0}

	f.HasCoordinates = boolFloat(b.Address.Coordinates != nil)
	if len(b.Address.Zip) >= 5 {
		if z, err := strconv.Atoi(b.Address.Zip[:5]); err == nil {
			f.ZipPrefix5 = z
		}
	}

	switch b.OverallQuality {
	case model.QualityHigh:
		f.QualityHigh = 1
	case model.QualityMedium:
		f.QualityMedium = 1
	case model.QualityLow:
		f.QualityLow = 1
	default:
		f.QualityPoor = 1
	}

	f.ProvenanceSourceCount = float64(len(b.DataSources()))

	f.EnrichedDemographic = boolFloat(b.HasTag("enriched_with_demographic"))
	f.EnrichedRegistry = boolFloat(b.HasTag("enriched_with_registry"))
	f.EnrichedStateRegistry = boolFloat(b.HasTag("enriched_with_state_registry"))
	f.EnrichedTextAnalysis = boolFloat(b.HasTag("enriched_with_text_analysis"))
	f.EnrichedMarketIntel = boolFloat(b.HasTag("enriched_with_market_intelligence"))

	return f
}

func boolFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
