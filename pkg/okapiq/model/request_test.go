package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_Normalize_FillsDefaultsWhenZero(t *testing.T) {
	r := Request{Location: "Chicago, IL"}
	r.Normalize()

	assert.Equal(t, 25, r.RadiusMiles)
	assert.Equal(t, 50, r.MaxBusinesses)
	assert.Equal(t, 1, r.Priority)
	assert.Equal(t, DefaultCrawlSources, r.CrawlSources)
	assert.Equal(t, DefaultEnrichmentKinds, r.EnrichmentTypes)
	assert.Equal(t, AllAnalysisKinds, r.AnalysisTypes)
}

func TestRequest_Normalize_ClampsAboveUpperBounds(t *testing.T) {
	r := Request{RadiusMiles: 9999, MaxBusinesses: 9999, Priority: 9999}
	r.Normalize()

	assert.Equal(t, 200, r.RadiusMiles)
	assert.Equal(t, 500, r.MaxBusinesses)
	assert.Equal(t, 5, r.Priority)
}

func TestRequest_Normalize_ClampsBelowLowerBounds(t *testing.T) {
	r := Request{RadiusMiles: -5, MaxBusinesses: -5, Priority: -5}
	r.Normalize()

	assert.Equal(t, 25, r.RadiusMiles)
	assert.Equal(t, 50, r.MaxBusinesses)
	assert.Equal(t, 1, r.Priority)
}

func TestRequest_Normalize_PreservesExplicitValidValues(t *testing.T) {
	r := Request{RadiusMiles: 40, MaxBusinesses: 100, Priority: 3}
	r.Normalize()

	assert.Equal(t, 40, r.RadiusMiles)
	assert.Equal(t, 100, r.MaxBusinesses)
	assert.Equal(t, 3, r.Priority)
}

func TestRequest_Normalize_DoesNotOverwriteExplicitSlices(t *testing.T) {
	r := Request{CrawlSources: []SourceName{SourceReviews}}
	r.Normalize()
	assert.Equal(t, []SourceName{SourceReviews}, r.CrawlSources)
}

func TestRequest_UseCacheOrDefault_DefaultsTrue(t *testing.T) {
	r := Request{}
	assert.True(t, r.UseCacheOrDefault())

	no := false
	r2 := Request{UseCache: &no}
	assert.False(t, r2.UseCacheOrDefault())
}

func TestFailure_ErrorStringIncludesKindAndMessage(t *testing.T) {
	f := NewFailure(KindAdapterNetworkError, SourceReviews, "connection reset")
	assert.Contains(t, f.Error(), "adapter_network_error")
	assert.Contains(t, f.Error(), "connection reset")
}

func TestBusiness_AddTagAndHasTag(t *testing.T) {
	b := &Business{}
	assert.False(t, b.HasTag("fallback_minimal"))
	b.AddTag("fallback_minimal")
	assert.True(t, b.HasTag("fallback_minimal"))
}

func TestBusiness_AddTag_IsIdempotent(t *testing.T) {
	b := &Business{}
	b.AddTag("x")
	b.AddTag("x")
	assert.Len(t, b.Tags, 1)
}
