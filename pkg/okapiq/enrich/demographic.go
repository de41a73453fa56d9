package enrich

import (
	"context"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// DemographicPass attaches per-zip demographic context and a derived
// market_context summary (spec §4.4 "demographic enrichment").
type DemographicPass struct {
	adapter adapters.Adapter
	priors  *priors.Table
}

func (p *DemographicPass) Apply(ctx context.Context, b *model.Business) bool {
	if p.adapter == nil || b.Address.Zip == "" {
		return false
	}
	result := p.adapter.Fetch(ctx, adapters.Request{
		SourceType: model.SourceDemographics,
		Search:     adapters.SearchParams{Location: b.Address.Zip},
	})
	if !result.Success || len(result.Data) == 0 {
		return false
	}
	rec := result.Data[0]
	dd := &model.DemographicData{Zip: b.Address.Zip}
	if v, ok := rec["median_income"].(float64); ok {
		dd.MedianIncome = v
	}
	if v, ok := rec["population"].(float64); ok {
		dd.Population = int(v)
	}
	if v, ok := rec["median_age"].(float64); ok {
		dd.MedianAge = v
	}
	if v, ok := rec["education_share"].(float64); ok {
		dd.EducationShare = v
	}
	if v, ok := rec["unemployment_rate"].(float64); ok {
		dd.UnemploymentRate = v
	}
	if v, ok := rec["per_capita_income"].(float64); ok {
		dd.PerCapitaIncome = v
	}
	if v, ok := rec["estimated_business_count"].(float64); ok {
		dd.EstimatedBusinesses = int(v)
	}
	b.DemographicData = dd
	b.MarketContext = deriveMarketContext(dd)
	b.AddTag("enriched_with_demographic")
	return true
}

func deriveMarketContext(dd *model.DemographicData) *model.MarketContext {
	income := "moderate"
	switch {
	case dd.MedianIncome >= 120000:
		income = "affluent"
	case dd.MedianIncome >= 80000:
		income = "high"
	case dd.MedianIncome < 45000:
		income = "low"
	}

	maturity := "established"
	switch {
	case dd.MedianAge < 32:
		maturity = "emerging"
	case dd.MedianAge > 45:
		maturity = "mature"
	}

	profile := income + "-income, " + maturity + " area"
	return &model.MarketContext{
		IncomeLevel:        income,
		MaturityLabel:      maturity,
		DemographicProfile: profile,
	}
}
