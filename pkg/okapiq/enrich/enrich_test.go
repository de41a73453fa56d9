package enrich

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// fakeAdapter returns a fixed Result regardless of the request, or
// panics when panicOnFetch is set (used to exercise runPass's
// panic-recovery path).
type fakeAdapter struct {
	name         model.SourceName
	result       adapters.Result
	panicOnFetch bool
}

func (f *fakeAdapter) Name() model.SourceName { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context, req adapters.Request) adapters.Result {
	if f.panicOnFetch {
		panic("simulated adapter panic")
	}
	return f.result
}

func newBusiness() *model.Business {
	return &model.Business{
		Name: "Joe's Plumbing",
		Address: model.Address{
			Zip:   "62704",
			State: "IL",
		},
	}
}

func TestDemographicPass_AttachesContextAndTag(t *testing.T) {
	pass := &DemographicPass{
		adapter: &fakeAdapter{
			name: model.SourceDemographics,
			result: adapters.Result{
				Success: true,
				Data: []adapters.Record{
					{"median_income": 95000.0, "population": 50000.0, "median_age": 29.0},
				},
			},
		},
		priors: priors.Default(),
	}
	b := newBusiness()
	ok := pass.Apply(context.Background(), b)

	require.True(t, ok)
	require.NotNil(t, b.DemographicData)
	assert.Equal(t, 95000.0, b.DemographicData.MedianIncome)
	require.NotNil(t, b.MarketContext)
	assert.Equal(t, "high", b.MarketContext.IncomeLevel)
	assert.Equal(t, "emerging", b.MarketContext.MaturityLabel)
	assert.True(t, b.HasTag("enriched_with_demographic"))
}

func TestDemographicPass_NoAdapterFails(t *testing.T) {
	pass := &DemographicPass{adapter: nil, priors: priors.Default()}
	b := newBusiness()
	assert.False(t, pass.Apply(context.Background(), b))
}

func TestRegistryPass_FillsNAICSAndTags(t *testing.T) {
	pass := &RegistryPass{
		adapter: &fakeAdapter{
			name: model.SourceRegistry,
			result: adapters.Result{
				Success: true,
				Data: []adapters.Record{
					{"naics_code": "238220", "tax_registered": true, "legitimate": true},
				},
			},
		},
		priors: priors.Default(),
	}
	b := newBusiness()
	ok := pass.Apply(context.Background(), b, "Springfield, IL")

	require.True(t, ok)
	assert.Equal(t, "238220", b.NAICSCode)
	assert.True(t, b.HasTag("tax_registered"))
	assert.True(t, b.HasTag("legitimacy_verified"))
	assert.True(t, b.HasTag("enriched_with_registry"))
}

func TestRegistryPass_DoesNotOverwriteExistingNAICS(t *testing.T) {
	pass := &RegistryPass{
		adapter: &fakeAdapter{
			name: model.SourceRegistry,
			result: adapters.Result{
				Success: true,
				Data:    []adapters.Record{{"naics_code": "999999"}},
			},
		},
	}
	b := newBusiness()
	b.NAICSCode = "238220"
	pass.Apply(context.Background(), b, "Springfield, IL")
	assert.Equal(t, "238220", b.NAICSCode)
}

func TestStateRegistryPass_AttachesNamespacedTags(t *testing.T) {
	pass := &StateRegistryPass{
		adapter: &fakeAdapter{
			name: model.SourceStateRegistry,
			result: adapters.Result{
				Success: true,
				Data: []adapters.Record{
					{"business_type": "LLC", "registration_status": "active", "compliance_label": "clean", "years_in_business": 12.0},
				},
			},
		},
	}
	b := newBusiness()
	ok := pass.Apply(context.Background(), b, "IL")

	require.True(t, ok)
	assert.True(t, b.HasTag("business_type:LLC"))
	assert.True(t, b.HasTag("registration_status:active"))
	assert.True(t, b.HasTag("compliance:clean"))
	assert.True(t, b.HasTag("enriched_with_state_registry"))
	require.NotNil(t, b.Metrics.YearsInBusiness)
	assert.Equal(t, 12, *b.Metrics.YearsInBusiness)
}

func TestStateRegistryPass_RequiresState(t *testing.T) {
	pass := &StateRegistryPass{adapter: &fakeAdapter{result: adapters.Result{Success: true}}}
	b := newBusiness()
	b.Address.State = ""
	assert.False(t, pass.Apply(context.Background(), b, ""))
}

func TestMarketIntelPass_NeverFailsAndTags(t *testing.T) {
	pass := &MarketIntelPass{priors: priors.Default()}
	b := newBusiness()
	ok := pass.Apply(b)

	require.True(t, ok)
	require.NotNil(t, b.MarketIntel)
	assert.True(t, b.HasTag("enriched_with_market_intelligence"))
	assert.Equal(t, "niche player", b.MarketIntel.CompetitivePosition)
	assert.Contains(t, b.MarketIntel.CompetitiveAdvantages, "limited differentiation observed")
}

func TestMarketIntelPass_HighShareAndRatingIsMarketLeaderWithHighStrategicValue(t *testing.T) {
	pass := &MarketIntelPass{priors: priors.Default()}
	b := newBusiness()
	share := 20.0
	rating := 4.6
	years := 20
	b.Metrics.MarketSharePercent = &share
	b.Metrics.Rating = &rating
	b.Metrics.YearsInBusiness = &years
	b.Contact.WebsiteValid = true

	pass.Apply(b)

	assert.Equal(t, "market leader", b.MarketIntel.CompetitivePosition)
	assert.Equal(t, "high", b.MarketIntel.StrategicValue)
	assert.Contains(t, b.MarketIntel.CompetitiveAdvantages, "highly rated customer experience")
	assert.Contains(t, b.MarketIntel.CompetitiveAdvantages, "established digital presence")
	assert.Contains(t, b.MarketIntel.CompetitiveAdvantages, "long operating history")
}

func TestMarketIntelPass_SuccessionProbabilityRequiresTextAnalysisTagAndCues(t *testing.T) {
	pass := &MarketIntelPass{priors: priors.Default()}

	withoutCues := newBusiness()
	pass.Apply(withoutCues)
	assert.Equal(t, 0.3, withoutCues.MarketIntel.SuccessionProbability)

	withCues := newBusiness()
	withCues.AddTag("enriched_with_text_analysis")
	withCues.NLPAnalysis = &model.NLPAnalysis{SuccessionCues: []string{"retire"}}
	pass.Apply(withCues)
	assert.Equal(t, 0.7, withCues.MarketIntel.SuccessionProbability)
}

func TestKeywordSentiment_PositiveAndNegativeText(t *testing.T) {
	assert.Greater(t, keywordSentiment("The staff were great, professional and friendly."), 0.0)
	assert.Less(t, keywordSentiment("Terrible, rude, and overpriced, would avoid."), 0.0)
	assert.Equal(t, 0.0, keywordSentiment("The shop is located downtown."))
}

func TestExtractSuccessionCues_ClosedKeywordSet(t *testing.T) {
	cues := extractSuccessionCues("The owner is looking to retire and considering a family business sale.")
	assert.Contains(t, cues, "retire")
	assert.Contains(t, cues, "family business")
	assert.NotContains(t, cues, "acquisition")
}

func TestUpgradeQuality_ThreeSuccessesForcesHigh(t *testing.T) {
	b := &model.Business{OverallQuality: model.QualityPoor}
	upgradeQuality(b, 3)
	assert.Equal(t, model.QualityHigh, b.OverallQuality)
}

func TestUpgradeQuality_TwoSuccessesUpgradesToAtLeastMedium(t *testing.T) {
	poor := &model.Business{OverallQuality: model.QualityPoor}
	upgradeQuality(poor, 2)
	assert.Equal(t, model.QualityMedium, poor.OverallQuality)

	alreadyHigh := &model.Business{OverallQuality: model.QualityHigh}
	upgradeQuality(alreadyHigh, 2)
	assert.Equal(t, model.QualityHigh, alreadyHigh.OverallQuality, "must never downgrade an already-higher quality")
}

func TestUpgradeQuality_OneOrZeroSuccessesLeavesQualityUntouched(t *testing.T) {
	b := &model.Business{OverallQuality: model.QualityLow}
	upgradeQuality(b, 1)
	assert.Equal(t, model.QualityLow, b.OverallQuality)
	upgradeQuality(b, 0)
	assert.Equal(t, model.QualityLow, b.OverallQuality)
}

func TestEnricher_RunPass_RecoversFromPanic(t *testing.T) {
	e := &Enricher{
		log:      zerolog.Nop(),
		registry: &RegistryPass{adapter: &fakeAdapter{name: model.SourceRegistry, panicOnFetch: true}},
	}
	b := newBusiness()
	ok := e.runPass(context.Background(), b, model.EnrichmentRegistry, "Springfield, IL", "plumbing")
	assert.False(t, ok, "a panicking pass must be reported as failed, not propagate")
}

func TestEnricher_EnrichOne_PanicInOnePassDoesNotBlockOthers(t *testing.T) {
	e := &Enricher{
		log: zerolog.Nop(),
		registry: &RegistryPass{adapter: &fakeAdapter{
			name: model.SourceRegistry,
			result: adapters.Result{
				Success: true,
				Data:    []adapters.Record{{"naics_code": "238220", "tax_registered": true}},
			},
		}},
		stateRegistry: &StateRegistryPass{adapter: &fakeAdapter{name: model.SourceStateRegistry, panicOnFetch: true}},
		marketIntel:   &MarketIntelPass{priors: priors.Default()},
	}
	b := newBusiness()
	e.enrichOne(context.Background(), b, []model.EnrichmentKind{
		model.EnrichmentRegistry, model.EnrichmentStateRegistry, model.EnrichmentMarketIntel,
	}, "Springfield, IL", "plumbing")

	assert.True(t, b.HasTag("enriched_with_registry"))
	assert.True(t, b.HasTag("enriched_with_market_intelligence"))
	assert.False(t, b.HasTag("enriched_with_state_registry"))
	assert.Equal(t, model.QualityMedium, b.OverallQuality, "2 real successes (registry, market intel) upgrade to at least medium")
}
