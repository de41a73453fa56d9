package score

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

func testScorer() *Scorer {
	return New(priors.Default(), zerolog.Nop())
}

func businessWith(category model.Category, zip string, revenue float64, rating float64) model.Business {
	return model.Business{
		BusinessID:     "b-" + zip + string(category),
		Category:       category,
		OverallQuality: model.QualityMedium,
		Address:        model.Address{Zip: zip},
		Metrics: model.Metrics{
			EstimatedRevenue: &revenue,
			Rating:           &rating,
		},
	}
}

func TestSuccessionRisk_RiskLevelBands(t *testing.T) {
	assert.Equal(t, "very_high", riskLevelLabel(85))
	assert.Equal(t, "high", riskLevelLabel(65))
	assert.Equal(t, "medium", riskLevelLabel(45))
	assert.Equal(t, "low", riskLevelLabel(25))
	assert.Equal(t, "very_low", riskLevelLabel(5))
}

func TestSuccessionRisk_ScoreIsClampedAndSetsMetric(t *testing.T) {
	s := testScorer()
	b := businessWith(model.CategoryPlumbing, "60601", 500000, 3.0)
	f := ExtractFeatures(&b)

	risk := s.successionRisk(&b, f)

	require.NotNil(t, risk)
	assert.GreaterOrEqual(t, risk.Score, 0.0)
	assert.LessOrEqual(t, risk.Score, 100.0)
	require.NotNil(t, b.Metrics.SuccessionRisk)
	assert.Equal(t, risk.Score, *b.Metrics.SuccessionRisk)
	assert.LessOrEqual(t, len(risk.Recommendations), 2)
}

func TestSuccessionRisk_HighOwnerAgeAndWeakDigitalPresenceScenario(t *testing.T) {
	s := testScorer()
	ownerAge := 75
	b := businessWith(model.CategoryPlumbing, "60601", 500000, 3.0)
	b.Metrics.OwnerAgeEstimate = &ownerAge
	f := ExtractFeatures(&b)

	risk := s.successionRisk(&b, f)

	require.NotNil(t, risk)
	assert.Contains(t, risk.Recommendations, "Immediate succession planning required")
	assert.Contains(t, risk.Recommendations, "Modernize digital presence and systems")
}

func TestSuccessionRisk_TextAnalysisCuesLowerSuccessionPlanningSubFactor(t *testing.T) {
	s := testScorer()
	noCues := businessWith(model.CategoryPlumbing, "60601", 500000, 4.0)
	withCues := noCues
	withCues.NLPAnalysis = &model.NLPAnalysis{SuccessionCues: []string{"retire"}}

	f1 := ExtractFeatures(&noCues)
	f2 := ExtractFeatures(&withCues)

	r1 := s.successionRisk(&noCues, f1)
	r2 := s.successionRisk(&withCues, f2)

	assert.Equal(t, 50.0, r1.SubFactors["succession_planning"])
	assert.Equal(t, 30.0, r2.SubFactors["succession_planning"])
}

func TestTAMOpportunity_ScalesWithPeerRevenueAndMultiplier(t *testing.T) {
	s := testScorer()
	all := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 2_000_000, 4.2),
	}
	tam := s.tamOpportunity(&all[0], all)

	require.NotNil(t, tam)
	assert.Equal(t, 2, tam.PeerCount)
	assert.Greater(t, tam.TAM, 0.0)
	assert.InDelta(t, tam.TAM*s.priors.TAMSAMRatio, tam.SAM, 0.001)
	assert.LessOrEqual(t, tam.SAM, tam.TAM)
}

func TestTAMOpportunity_MaturityLabelBands(t *testing.T) {
	assert.Equal(t, "mature", maturityLabel(30))
	assert.Equal(t, "established", maturityLabel(15))
	assert.Equal(t, "emerging", maturityLabel(2))
}

func TestMarketFragmentation_InsufficientDataUnderTwoPeers(t *testing.T) {
	result := fragmentationFromPeers([]model.Business{businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0)})
	assert.Equal(t, "insufficient_data", result.Label)
	assert.Equal(t, 1, result.PeerCount)
}

func TestMarketFragmentation_SingleDominantPlayerIsConcentrated(t *testing.T) {
	peers := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 9_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 100_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 100_000, 4.0),
	}
	result := fragmentationFromPeers(peers)
	assert.Equal(t, "concentrated", result.Label)
	assert.Equal(t, "limited", result.ConsolidationOpportunity)
	assert.InDelta(t, 0.3, result.RollUpPotential, 0.0001)
}

func TestMarketFragmentation_EvenSplitOfFiveIsModeratelyFragmented(t *testing.T) {
	peers := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
	}
	result := fragmentationFromPeers(peers)
	assert.Equal(t, "moderately_fragmented", result.Label)
	assert.Equal(t, "good", result.ConsolidationOpportunity)
	assert.InDelta(t, 20.0, result.LeaderShare, 0.0001)
}

func TestMarketFragmentation_EqualSharesScenarioMatchesRollUpPotential(t *testing.T) {
	peers := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.0),
	}
	result := fragmentationFromPeers(peers)
	assert.InDelta(t, 1000.0, result.HHI, 0.0001)
	assert.Equal(t, "highly_fragmented", result.Label)
	assert.InDelta(t, 0.9, result.RollUpPotential, 0.0001)
}

func TestMarketFragmentation_ExportedWrapperMatchesWholeBatch(t *testing.T) {
	peers := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 500_000, 4.0),
		businessWith(model.CategoryHVAC, "90210", 750_000, 4.1),
	}
	result := MarketFragmentation(peers)
	assert.Equal(t, 2, result.PeerCount)
}

func TestZip3_ShortZipReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", zip3("12"))
	assert.Equal(t, "606", zip3("60601"))
}

func TestGrowthPotential_YearsToExitBandsFollowExitReadiness(t *testing.T) {
	s := testScorer()
	b := businessWith(model.CategoryPlumbing, "60601", 5_000_000, 4.8)
	f := ExtractFeatures(&b)
	growth := s.growthPotential(&b, f)

	require.NotNil(t, growth)
	assert.GreaterOrEqual(t, growth.ExitMultiplePrior, s.priors.ExitMultiplePrior(model.CategoryPlumbing))
	assert.Contains(t, []int{1, 2, 3, 5}, growth.YearsToExit)
}

func TestRevenueBandScore_Monotonic(t *testing.T) {
	assert.Equal(t, 0.0, revenueBandScore(0))
	assert.Equal(t, 30.0, revenueBandScore(1))
	assert.Equal(t, 50.0, revenueBandScore(250_000))
	assert.Equal(t, 70.0, revenueBandScore(1_000_000))
	assert.Equal(t, 90.0, revenueBandScore(5_000_000))
}

func TestHeadcountBandScore_Monotonic(t *testing.T) {
	assert.Equal(t, 0.0, headcountBandScore(0))
	assert.Equal(t, 30.0, headcountBandScore(1))
	assert.Equal(t, 50.0, headcountBandScore(5))
	assert.Equal(t, 70.0, headcountBandScore(15))
	assert.Equal(t, 90.0, headcountBandScore(50))
}

func TestAcquisitionAttractiveness_LabelBands(t *testing.T) {
	s := testScorer()
	strong := businessWith(model.CategoryPlumbing, "60601", 5_000_000, 4.9)
	strong.Metrics.MarketSharePercent = ptrF(20)
	f := ExtractFeatures(&strong)

	result := s.acquisitionAttractiveness(&strong, f, 20.0)
	require.NotNil(t, result)
	assert.Contains(t, []string{"low", "moderate", "high"}, result.Label)
	assert.NotEmpty(t, result.Recommendation)
}

func TestLeadScore_GradeAndPriorityAreConsistent(t *testing.T) {
	s := testScorer()
	b := businessWith(model.CategoryPlumbing, "60601", 5_000_000, 4.9)
	b.Contact = model.Contact{PhoneValid: true, EmailValid: true, WebsiteValid: true}
	b.Address.Raw = "123 Main St"
	reviewCount := 300
	b.Metrics.ReviewCount = &reviewCount
	f := ExtractFeatures(&b)

	lead := s.leadScore(&b, f, 70.0)

	require.NotNil(t, lead)
	switch lead.Grade {
	case "A":
		assert.Equal(t, "high", lead.Priority)
	case "B":
		assert.Equal(t, "medium", lead.Priority)
	case "C":
		assert.Equal(t, "low", lead.Priority)
	default:
		assert.Equal(t, "very_low", lead.Priority)
	}
	assert.GreaterOrEqual(t, lead.CloseProbability, 0.05)
	assert.LessOrEqual(t, lead.CloseProbability, 0.95)
}

func TestLeadScore_AGradeScenarioHasHighPriority(t *testing.T) {
	s := testScorer()
	b := businessWith(model.CategoryPlumbing, "60601", 5_000_000, 4.9)
	b.Contact = model.Contact{PhoneValid: true, EmailValid: true, WebsiteValid: true}
	b.Address.Raw = "123 Main St"
	reviewCount := 300
	b.Metrics.ReviewCount = &reviewCount
	f := ExtractFeatures(&b)

	lead := s.leadScore(&b, f, 70.0)

	require.Equal(t, "A", lead.Grade)
	assert.Equal(t, "high", lead.Priority)
}

func TestLeadScore_NoContactChannelGetsOutreachRecommendation(t *testing.T) {
	s := testScorer()
	b := businessWith(model.CategoryPlumbing, "60601", 10_000, 3.0)
	f := ExtractFeatures(&b)
	lead := s.leadScore(&b, f, 10.0)
	assert.Contains(t, lead.Recommendations, "no verified contact channel; attempt a direct site visit or registry lookup")
}

func TestBusinessVector_IsL2Normalized(t *testing.T) {
	b := businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.5)
	f := ExtractFeatures(&b)
	v := BusinessVector(&b, f)

	sumSq := 0.0
	for _, x := range v {
		sumSq += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSq), 0.0001)
}

func TestBusinessVector_ZeroVectorStaysZero(t *testing.T) {
	b := model.Business{}
	f := FeatureRow{}
	v := BusinessVector(&b, f)
	for _, x := range v {
		assert.Equal(t, 0.0, x)
	}
}

func TestScore_NeverPanicsAndAlwaysSetsVector(t *testing.T) {
	s := testScorer()
	businesses := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.5),
		businessWith(model.CategoryHVAC, "60602", 500_000, 3.2),
	}
	out := s.Score(businesses, model.AllAnalysisKinds)

	require.Len(t, out, 2)
	for _, b := range out {
		require.NotNil(t, b.Analysis)
		assert.NotEmpty(t, b.Analysis.Vector)
		assert.NotEmpty(t, b.Analysis.AnalysesRun)
	}
}

func TestScore_EmptyKindsStillComputesVectorOnly(t *testing.T) {
	s := testScorer()
	businesses := []model.Business{businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.5)}
	out := s.Score(businesses, nil)

	require.Len(t, out, 1)
	assert.Nil(t, out[0].Analysis.Succession)
	assert.NotEmpty(t, out[0].Analysis.Vector)
}

func TestCluster_FewerThanFiveYieldsNoClusters(t *testing.T) {
	businesses := []model.Business{
		businessWith(model.CategoryPlumbing, "60601", 1_000_000, 4.5),
		businessWith(model.CategoryHVAC, "60602", 500_000, 3.2),
	}
	assert.Nil(t, Cluster(businesses))
}

func TestCluster_IsDeterministicAcrossRuns(t *testing.T) {
	businesses := make([]model.Business, 0, 9)
	for i := 0; i < 9; i++ {
		rev := float64(100_000 * (i + 1))
		rating := 3.0 + float64(i%3)*0.5
		businesses = append(businesses, businessWith(model.CategoryPlumbing, "60601", rev, rating))
	}

	first := Cluster(businesses)
	second := Cluster(businesses)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].Size, second[i].Size)
		assert.InDelta(t, first[i].AvgRevenue, second[i].AvgRevenue, 0.0001)
	}
}

func ptrF(v float64) *float64 { return &v }
