package enrich

import (
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// MarketIntelPass synthesizes the market_intelligence block purely
// from an entity's already-attached fields (spec §4.4
// "market-intelligence synthesis") — it issues no external calls.
type MarketIntelPass struct {
	priors *priors.Table
}

func (p *MarketIntelPass) Apply(b *model.Business) bool {
	rating := 3.0
	if b.Metrics.Rating != nil {
		rating = *b.Metrics.Rating
	}
	revenue := 0.0
	if b.Metrics.EstimatedRevenue != nil {
		revenue = *b.Metrics.EstimatedRevenue
	}
	marketShare := 0.0
	if b.Metrics.MarketSharePercent != nil {
		marketShare = *b.Metrics.MarketSharePercent
	}
	years := 0
	if b.Metrics.YearsInBusiness != nil {
		years = *b.Metrics.YearsInBusiness
	}

	position := "niche player"
	switch {
	case marketShare >= 15:
		position = "market leader"
	case marketShare >= 5:
		position = "strong competitor"
	}

	var advantages []string
	if rating >= 4.5 {
		advantages = append(advantages, "highly rated customer experience")
	}
	if b.Contact.WebsiteValid {
		advantages = append(advantages, "established digital presence")
	}
	if years >= 15 {
		advantages = append(advantages, "long operating history")
	}
	if len(advantages) == 0 {
		advantages = []string{"limited differentiation observed"}
	}

	acquisitionPrior := priors.Clamp((rating/5.0)*0.5+(marketShare/100.0)*0.5, 0, 1)

	successionProbability := 0.3
	if b.HasTag("enriched_with_text_analysis") && b.NLPAnalysis != nil && len(b.NLPAnalysis.SuccessionCues) > 0 {
		successionProbability = 0.7
	}

	strategicValue := "moderate"
	if marketShare >= 10 && rating >= 4.0 {
		strategicValue = "high"
	} else if marketShare < 2 && rating < 3.0 {
		strategicValue = "low"
	}

	revenueQuality := "unverified"
	if b.Metrics.EstimatedRevenue != nil {
		switch {
		case revenue >= 1_000_000:
			revenueQuality = "strong"
		case revenue >= 250_000:
			revenueQuality = "adequate"
		default:
			revenueQuality = "modest"
		}
	}

	growthPotential := "steady"
	if rating >= 4.3 && years < 10 {
		growthPotential = "expanding"
	} else if rating < 3.0 {
		growthPotential = "constrained"
	}

	financialStability := "stable"
	if b.Metrics.EstimatedRevenue == nil || b.Metrics.ReviewCount == nil {
		financialStability = "unverified"
	} else if revenue < 100_000 {
		financialStability = "fragile"
	}

	b.MarketIntel = &model.MarketIntel{
		CompetitivePosition:     position,
		CompetitiveAdvantages:   advantages,
		AcquisitionAttractivity: acquisitionPrior,
		SuccessionProbability:   successionProbability,
		StrategicValue:          strategicValue,
		RevenueQuality:          revenueQuality,
		GrowthPotential:         growthPotential,
		FinancialStability:      financialStability,
	}
	b.AddTag("enriched_with_market_intelligence")
	return true
}
