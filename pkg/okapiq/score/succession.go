package score

import (
	"strings"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// successionRisk computes the eight-sub-factor blend from spec §4.5.
func (s *Scorer) successionRisk(b *model.Business, f FeatureRow) *model.SuccessionRisk {
	w := s.priors.SuccessionWeights

	ownerAge := priors.Clamp((f.OwnerAgeEstimate-30)*2, 0, 100)

	businessAge := 20.0
	switch {
	case f.YearsInBusiness > 30:
		businessAge = 80
	case f.YearsInBusiness > 20:
		businessAge = 60
	case f.YearsInBusiness > 10:
		businessAge = 40
	}

	digitalPresence := 100 - f.DigitalPresenceScore

	rating := f.Rating
	if b.Metrics.Rating == nil {
		rating = 3
	}
	financialPerformance := priors.Clamp((5-rating)*20, 0, 100)

	marketShare := f.MarketSharePercent
	if b.Metrics.MarketSharePercent == nil {
		marketShare = 5
	}
	marketPosition := priors.Clamp(100-4*marketShare, 0, 100)

	familyInvolvement := 30.0
	if b.Owner != nil && strings.Contains(strings.ToLower(b.Owner.DetectionSource), "family") {
		familyInvolvement = 70
	}

	employees := f.EmployeeCount
	operationalIndependence := 20.0
	switch {
	case b.Metrics.EmployeeCount == nil || employees < 5:
		operationalIndependence = 80
	case employees < 15:
		operationalIndependence = 60
	case employees < 30:
		operationalIndependence = 40
	}

	successionPlanning := 50.0
	if b.NLPAnalysis != nil && len(b.NLPAnalysis.SuccessionCues) > 0 {
		successionPlanning = 30
	}

	subFactors := map[string]float64{
		"owner_age":               ownerAge,
		"business_age":            businessAge,
		"digital_presence":        digitalPresence,
		"financial_performance":   financialPerformance,
		"market_position":         marketPosition,
		"family_involvement":      familyInvolvement,
		"operational_independence": operationalIndependence,
		"succession_planning":     successionPlanning,
	}

	score := ownerAge*w.OwnerAge + businessAge*w.BusinessAge + familyInvolvement*w.FamilyInvolvement +
		operationalIndependence*w.OperationalIndependence + digitalPresence*w.DigitalPresence +
		financialPerformance*w.FinancialPerformance + marketPosition*w.MarketPosition +
		successionPlanning*w.SuccessionPlanning
	score = priors.Clamp(score, 0, 100)
	b.Metrics.SuccessionRisk = &score

	confidence := 0.5
	if b.Owner != nil {
		confidence += 0.15
	}
	if b.Metrics.YearsInBusiness != nil {
		confidence += 0.1
	}
	if b.HasTag("enriched_with_text_analysis") {
		confidence += 0.1
	}
	if b.OverallQuality == model.QualityHigh {
		confidence += 0.15
	}
	confidence = priors.Clamp(confidence, 0, 1)

	return &model.SuccessionRisk{
		Score:           score,
		RiskLevel:       riskLevelLabel(score),
		SubFactors:      subFactors,
		Recommendations: successionRecommendations(ownerAge, digitalPresence, operationalIndependence, successionPlanning),
		Confidence:      confidence,
	}
}

func riskLevelLabel(score float64) string {
	switch {
	case score >= 80:
		return "very_high"
	case score >= 60:
		return "high"
	case score >= 40:
		return "medium"
	case score >= 20:
		return "low"
	default:
		return "very_low"
	}
}

// successionRecommendations generates mitigation notes via fixed
// sub-factor thresholds, per the succession risk-factor rule set.
func successionRecommendations(ownerAge, digitalPresence, operationalIndependence, successionPlanning float64) []string {
	var recs []string

	switch {
	case ownerAge > 70:
		recs = append(recs, "Immediate succession planning required")
	case ownerAge > 60:
		recs = append(recs, "Begin succession planning process")
	}

	if digitalPresence > 60 {
		recs = append(recs, "Modernize digital presence and systems")
	}

	if operationalIndependence > 70 {
		recs = append(recs, "Reduce owner dependency through process documentation")
	}

	if successionPlanning > 60 {
		recs = append(recs, "Develop formal succession plan")
	}

	return recs
}
