package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/model"
)

func testCache(ttlSeconds, maxEntries int) *Cache {
	return New(ttlSeconds, maxEntries, nil, nil, zerolog.Nop())
}

func TestCache_SetThenGet_MemoryOnlyRoundTrips(t *testing.T) {
	c := testCache(60, 10)
	ctx := context.Background()
	resp := model.Response{RequestID: "req-1", Location: "Chicago, IL"}

	c.Set(ctx, "key-1", resp)
	entry, ok := c.Get(ctx, "key-1")

	require.True(t, ok)
	assert.Equal(t, "req-1", entry.Response.RequestID)
}

func TestCache_Get_MissReturnsFalse(t *testing.T) {
	c := testCache(60, 10)
	_, ok := c.Get(context.Background(), "nonexistent")
	assert.False(t, ok)
}

func TestCache_Get_ExpiredEntryIsATtlMiss(t *testing.T) {
	c := testCache(1, 10)
	ctx := context.Background()
	c.mu.Lock()
	c.memory["stale"] = Entry{
		Response:  model.Response{RequestID: "stale-req"},
		CreatedAt: time.Now().Add(-1 * time.Hour),
	}
	c.mu.Unlock()

	_, ok := c.Get(ctx, "stale")
	assert.False(t, ok, "an entry older than the TTL must not be served")
}

func TestCache_SetMemory_EvictsOldestWhenFull(t *testing.T) {
	c := testCache(60, 2)
	ctx := context.Background()

	c.Set(ctx, "first", model.Response{RequestID: "first"})
	time.Sleep(2 * time.Millisecond)
	c.Set(ctx, "second", model.Response{RequestID: "second"})
	time.Sleep(2 * time.Millisecond)
	c.Set(ctx, "third", model.Response{RequestID: "third"})

	assert.LessOrEqual(t, c.Size(), 2)
	_, stillThere := c.Get(ctx, "third")
	assert.True(t, stillThere, "most recently written entry must survive eviction")
}

func TestCache_SweepExpired_RemovesOnlyStaleEntries(t *testing.T) {
	c := testCache(1, 100)
	c.mu.Lock()
	c.memory["fresh"] = Entry{CreatedAt: time.Now()}
	c.memory["stale-a"] = Entry{CreatedAt: time.Now().Add(-1 * time.Hour)}
	c.memory["stale-b"] = Entry{CreatedAt: time.Now().Add(-1 * time.Hour)}
	c.mu.Unlock()

	removed := c.SweepExpired()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Size())
}

func TestCache_EnsureSchema_NoopWithoutPostgres(t *testing.T) {
	c := testCache(60, 10)
	err := c.EnsureSchema(context.Background())
	assert.NoError(t, err)
}

func TestKey_IsStableForIdenticalNormalizedRequests(t *testing.T) {
	req := model.Request{
		Location:        "Chicago, IL",
		Industry:        "plumbing",
		RadiusMiles:     25,
		MaxBusinesses:   50,
		CrawlSources:    []model.SourceName{model.SourceMapsSecondary, model.SourceReviews},
		EnrichmentTypes: []model.EnrichmentKind{model.EnrichmentRegistry},
		AnalysisTypes:   []model.AnalysisKind{model.AnalysisLeadScore},
	}
	a := Key(req)
	b := Key(req)
	assert.Equal(t, a, b)
}

func TestKey_IsOrderIndependentOnSliceFields(t *testing.T) {
	base := model.Request{
		Location:      "Chicago, IL",
		Industry:      "plumbing",
		RadiusMiles:   25,
		MaxBusinesses: 50,
		CrawlSources:  []model.SourceName{model.SourceMapsSecondary, model.SourceReviews},
	}
	reordered := base
	reordered.CrawlSources = []model.SourceName{model.SourceReviews, model.SourceMapsSecondary}

	assert.Equal(t, Key(base), Key(reordered))
}

func TestKey_DiffersOnLocationOrIndustry(t *testing.T) {
	a := Key(model.Request{Location: "Chicago, IL", Industry: "plumbing"})
	b := Key(model.Request{Location: "Austin, TX", Industry: "plumbing"})
	c := Key(model.Request{Location: "Chicago, IL", Industry: "hvac"})
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestKey_BlankIndustryDefaultsToGeneral(t *testing.T) {
	a := Key(model.Request{Location: "Chicago, IL", Industry: ""})
	b := Key(model.Request{Location: "Chicago, IL", Industry: "general"})
	assert.Equal(t, a, b)
}

func TestKey_IsCaseAndWhitespaceInsensitiveOnLocation(t *testing.T) {
	a := Key(model.Request{Location: "  Chicago, IL  "})
	b := Key(model.Request{Location: "chicago, il"})
	assert.Equal(t, a, b)
}
