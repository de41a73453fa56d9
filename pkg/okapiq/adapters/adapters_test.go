package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

func TestSeedFromQuery_IsStableForIdenticalInputs(t *testing.T) {
	a := seedFromQuery("Chicago, IL", "plumbing")
	b := seedFromQuery("Chicago, IL", "plumbing")
	assert.Equal(t, a, b)
}

func TestSeedFromQuery_DiffersOnLocationOrIndustry(t *testing.T) {
	base := seedFromQuery("Chicago, IL", "plumbing")
	assert.NotEqual(t, base, seedFromQuery("Austin, TX", "plumbing"))
	assert.NotEqual(t, base, seedFromQuery("Chicago, IL", "roofing"))
}

func TestSynthesizeStandInRecords_IsDeterministicAcrossCalls(t *testing.T) {
	center := GeocodeResult{Lat: 41.8, Lng: -87.6}
	first := synthesizeStandInRecords("Chicago, IL", "plumbing", 5, center)
	second := synthesizeStandInRecords("Chicago, IL", "plumbing", 5, center)
	require.Len(t, first, 5)
	assert.Equal(t, first, second)
}

func TestSynthesizeStandInRecords_BlankIndustryDefaultsToBusiness(t *testing.T) {
	center := GeocodeResult{Lat: 41.8, Lng: -87.6}
	records := synthesizeStandInRecords("Chicago, IL", "", 1, center)
	require.Len(t, records, 1)
	name, ok := records[0].Name()
	require.True(t, ok)
	assert.Contains(t, name, "Business")
}

func TestSynthesizeStandInRecords_RecordsCarryPlausibleFields(t *testing.T) {
	center := GeocodeResult{Lat: 41.8, Lng: -87.6}
	records := synthesizeStandInRecords("Chicago, IL", "plumbing", 3, center)
	for _, rec := range records {
		rating, ok := rec.Rating()
		require.True(t, ok)
		assert.GreaterOrEqual(t, rating, 3.0)
		assert.LessOrEqual(t, rating, 5.0)
		_, ok = rec.ReviewCount()
		assert.True(t, ok)
		lat, lng, ok := rec.Coordinates()
		assert.True(t, ok)
		assert.InDelta(t, center.Lat, lat, 0.05)
		assert.InDelta(t, center.Lng, lng, 0.05)
	}
}

func TestSynthesizeFallback_DelegatesToSameGenerator(t *testing.T) {
	center := GeocodeResult{Lat: 41.8, Lng: -87.6}
	fromHub := synthesizeStandInRecords("Denver, CO", "hvac", 2, center)
	fromFallback := SynthesizeFallback("Denver, CO", "hvac", 2, center)
	assert.Equal(t, fromHub, fromFallback)
}

func TestCapitalize_UppercasesFirstLetterOnly(t *testing.T) {
	assert.Equal(t, "Plumbing", capitalize("plumbing"))
	assert.Equal(t, "Plumbing", capitalize("Plumbing"))
	assert.Equal(t, "", capitalize(""))
}

func TestRoundTo_RoundsToGivenPlaces(t *testing.T) {
	assert.Equal(t, 3.1, roundTo(3.14, 1))
	assert.Equal(t, 3.0, roundTo(2.96, 0))
}

func TestRecord_TypedAccessors_MissingKeysAreFalse(t *testing.T) {
	r := Record{}
	_, ok := r.Name()
	assert.False(t, ok)
	_, ok = r.Rating()
	assert.False(t, ok)
	_, ok = r.ReviewCount()
	assert.False(t, ok)
	_, _, ok = r.Coordinates()
	assert.False(t, ok)
}

func TestRecord_TypedAccessors_ReadPresentValues(t *testing.T) {
	r := Record{
		"name":         "Joe's Plumbing",
		"rating":       4.5,
		"review_count": 12,
		"lat":          41.8,
		"lng":          -87.6,
	}
	name, ok := r.Name()
	require.True(t, ok)
	assert.Equal(t, "Joe's Plumbing", name)

	rating, ok := r.Rating()
	require.True(t, ok)
	assert.Equal(t, 4.5, rating)

	count, ok := r.ReviewCount()
	require.True(t, ok)
	assert.Equal(t, 12, count)

	lat, lng, ok := r.Coordinates()
	require.True(t, ok)
	assert.Equal(t, 41.8, lat)
	assert.Equal(t, -87.6, lng)
}

func TestRecord_IntVal_AcceptsIntStoredValue(t *testing.T) {
	r := Record{"employee_count": 7}
	count, ok := r.EmployeeCount()
	require.True(t, ok)
	assert.Equal(t, 7, count)
}

func TestGeocoder_Resolve_NilReceiverReturnsDefault(t *testing.T) {
	var g *Geocoder
	result := g.Resolve(context.Background(), "Chicago, IL")
	assert.Equal(t, defaultFallbackCoordinate, result)
}

func TestGeocoder_Resolve_BlankBaseURLReturnsDefault(t *testing.T) {
	g := NewGeocoder("")
	result := g.Resolve(context.Background(), "Chicago, IL")
	assert.Equal(t, defaultFallbackCoordinate, result)
}

func TestGeocoder_Resolve_UnreachableHostFallsBackToDefault(t *testing.T) {
	g := NewGeocoder("http://127.0.0.1:1")
	result := g.Resolve(context.Background(), "Chicago, IL")
	assert.Equal(t, defaultFallbackCoordinate, result)
}

func TestReviewsAdapter_Fetch_MissingAPIKeyReturnsCredentialsFailure(t *testing.T) {
	a := NewReviewsAdapter("", "", priors.Default())
	result := a.Fetch(context.Background(), Request{Search: SearchParams{Location: "Chicago, IL", Industry: "plumbing"}})

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindAdapterCredentialsMissing, result.Errors[0].Kind)
	assert.Equal(t, model.SourceReviews, result.SourceName)
}

func TestGenericWebAdapter_Name_ReportsItsSourceName(t *testing.T) {
	a := NewGenericWebAdapter("test-agent/1.0", priors.Default())
	assert.Equal(t, model.SourceGenericWeb, a.Name())
}

func TestBuildRegistry_RegistersEveryKnownSource(t *testing.T) {
	cfg := &config.Config{}
	registry := BuildRegistry(cfg, priors.Default())

	expected := []model.SourceName{
		model.SourceMapsPrimary, model.SourceMapsSecondary, model.SourceSearchSERP,
		model.SourceReviews, model.SourceSignalsSocial, model.SourceRegistry,
		model.SourcePageCrawl, model.SourceGenericWeb, model.SourceDemographics,
		model.SourceBizRegistry, model.SourceStateRegistry,
	}
	for _, name := range expected {
		ad, ok := registry[name]
		require.Truef(t, ok, "expected %s to be registered", name)
		assert.Equal(t, name, ad.Name())
	}
}

func TestBuildRegistry_UnconfiguredAdaptersStillFailStructured(t *testing.T) {
	cfg := &config.Config{}
	registry := BuildRegistry(cfg, priors.Default())

	result := registry[model.SourceReviews].Fetch(context.Background(), Request{})
	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
}
