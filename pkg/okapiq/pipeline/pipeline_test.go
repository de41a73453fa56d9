package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/cache"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

func TestProcess_CacheHitShortCircuitsAndSetsFullHitRate(t *testing.T) {
	c := cache.New(3600, 100, nil, nil, zerolog.Nop())
	o := New(nil, nil, nil, nil, nil, c, priors.Default(), zerolog.Nop())

	req := model.Request{Location: "Chicago, IL", Industry: "plumbing"}
	req.Normalize()
	cached := model.Response{RequestID: "old-id", Location: "Chicago, IL", BusinessCount: 3}
	c.Set(context.Background(), cache.Key(req), cached)

	resp := o.Process(context.Background(), req)

	assert.Equal(t, 1.0, resp.CacheHitRate)
	assert.Equal(t, 3, resp.BusinessCount)
	assert.NotEqual(t, "old-id", resp.RequestID, "a cache hit must still stamp a fresh request id")
}

func TestAverageQuality_EmptyBatchIsZero(t *testing.T) {
	assert.Equal(t, 0.0, averageQuality(nil))
}

func TestAverageQuality_AllHighQualityIsOne(t *testing.T) {
	businesses := []model.Business{
		{OverallQuality: model.QualityHigh},
		{OverallQuality: model.QualityHigh},
	}
	assert.Equal(t, 1.0, averageQuality(businesses))
}

func TestAverageQuality_MixedBandsAverages(t *testing.T) {
	businesses := []model.Business{
		{OverallQuality: model.QualityHigh},
		{OverallQuality: model.QualityPoor},
	}
	assert.InDelta(t, 0.55, averageQuality(businesses), 0.0001)
}

func TestFallbackDataQualityScore_NoRealDataIsZero(t *testing.T) {
	assert.Equal(t, 0.0, fallbackDataQualityScore(false, 0.9))
}

func TestFallbackDataQualityScore_PartialFallbackIsCeilinged(t *testing.T) {
	assert.Equal(t, 0.6, fallbackDataQualityScore(true, 0.95))
	assert.InDelta(t, 0.5, fallbackDataQualityScore(true, 0.5), 0.0001, "below the ceiling must pass through unchanged")
}

func TestHasFallbackTag_DetectsTaggedEntity(t *testing.T) {
	businesses := []model.Business{{}, {}}
	businesses[1].AddTag("fallback_minimal")
	assert.True(t, hasFallbackTag(businesses))
}

func TestHasFallbackTag_FalseWhenNoneTagged(t *testing.T) {
	businesses := []model.Business{{}, {}}
	assert.False(t, hasFallbackTag(businesses))
}

func TestCollectDataSources_DedupesAndSorts(t *testing.T) {
	businesses := []model.Business{
		{SourceRecords: []model.SourceRecord{{Source: model.SourceReviews}, {Source: model.SourceMapsSecondary}}},
		{SourceRecords: []model.SourceRecord{{Source: model.SourceReviews}}},
	}
	sources := collectDataSources(businesses)
	require.Len(t, sources, 2)
	assert.Equal(t, []string{string(model.SourceMapsSecondary), string(model.SourceReviews)}, sources)
}
