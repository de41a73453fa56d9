package priors

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/model"
)

func TestClamp_BoundsWithinRange(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-5, 0, 10))
	assert.Equal(t, 10.0, Clamp(15, 0, 10))
}

func TestClamp_NaNAndInfMapToLowerBound(t *testing.T) {
	assert.Equal(t, 2.0, Clamp(math.NaN(), 2, 10))
	assert.Equal(t, 2.0, Clamp(math.Inf(1), 2, 10))
	assert.Equal(t, 2.0, Clamp(math.Inf(-1), 2, 10))
}

func TestClampInt_Bounds(t *testing.T) {
	assert.Equal(t, 5, ClampInt(5, 0, 10))
	assert.Equal(t, 0, ClampInt(-5, 0, 10))
	assert.Equal(t, 10, ClampInt(15, 0, 10))
}

func TestDefault_ReturnsACompleteTable(t *testing.T) {
	table := Default()
	require.NotNil(t, table)
	assert.NotEmpty(t, table.SourceReliability)
	assert.NotEmpty(t, table.CategoryKeywords)
	assert.Greater(t, table.CacheTTLSeconds, 0)
	assert.Greater(t, table.EnrichmentBatchSize, 0)
}

func TestTAMMultiplier_FallsBackToDefaultForUnknownCategory(t *testing.T) {
	table := Default()
	table.CategoryTAMMultiplier = map[model.Category]float64{}
	table.DefaultCategoryMultiplier = 1.9
	assert.Equal(t, 1.9, table.TAMMultiplier(model.CategoryOther))
}

func TestMinDelay_FallsBackToDefaultWhenSourceUnlisted(t *testing.T) {
	table := Default()
	assert.Equal(t, table.DefaultInterRequestDelayMillis, table.MinDelay(model.SourceGenericWeb))
	assert.Equal(t, 3000, table.MinDelay(model.SourceMapsPrimary))
}

func TestReliability_FallsBackWhenUnlisted(t *testing.T) {
	table := Default()
	assert.Equal(t, 0.5, table.Reliability(model.SourceName("UNKNOWN_SOURCE")))
}

func TestEstimateRevenueFromRatingReviews_ZeroReviewsIsZero(t *testing.T) {
	table := Default()
	assert.Equal(t, 0.0, table.EstimateRevenueFromRatingReviews(4.5, 0))
}

func TestEstimateRevenueFromRatingReviews_IsClampedWithinBounds(t *testing.T) {
	table := Default()
	revenue := table.EstimateRevenueFromRatingReviews(5.0, 100000)
	assert.LessOrEqual(t, revenue, table.RevenueFromRatingReviews.MaxRevenue)
	assert.GreaterOrEqual(t, revenue, table.RevenueFromRatingReviews.MinRevenue)
}

func TestEstimateRevenueFromRatingReviews_HigherRatingYieldsHigherRevenue(t *testing.T) {
	table := Default()
	low := table.EstimateRevenueFromRatingReviews(2.0, 50)
	high := table.EstimateRevenueFromRatingReviews(5.0, 50)
	assert.Greater(t, high, low)
}

func TestLoad_MissingFilesReturnsDefaults(t *testing.T) {
	table, err := Load("/nonexistent/priors.yaml", "/nonexistent/priors.hjson")
	require.NoError(t, err)
	assert.Equal(t, Default().CacheTTLSeconds, table.CacheTTLSeconds)
}
