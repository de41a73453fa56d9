package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

type fakeAdapter struct {
	name   model.SourceName
	result adapters.Result
	panics bool
	calls  int
}

func (f *fakeAdapter) Name() model.SourceName { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context, req adapters.Request) adapters.Result {
	f.calls++
	if f.panics {
		panic("simulated adapter panic")
	}
	return f.result
}

func testPriors() *priors.Table {
	p := priors.Default()
	p.MinInterRequestDelayMillis = map[model.SourceName]int{}
	p.DefaultInterRequestDelayMillis = 0
	p.AdapterTimeoutSeconds = 5
	p.AdapterMaxRetries = 0
	return p
}

func TestHub_Crawl_UnknownSourceIsSilentlySkipped(t *testing.T) {
	reg := map[model.SourceName]adapters.Adapter{}
	h := NewHub(reg, testPriors(), zerolog.Nop())

	results := h.Crawl(context.Background(), "Chicago, IL", "plumbing", 25, []model.SourceName{model.SourceReviews})
	assert.Empty(t, results)
}

func TestHub_Crawl_ReturnsOneResultPerKnownSource(t *testing.T) {
	reviews := &fakeAdapter{name: model.SourceReviews, result: adapters.Result{Success: true, SourceName: model.SourceReviews}}
	maps := &fakeAdapter{name: model.SourceMapsPrimary, result: adapters.Result{Success: true, SourceName: model.SourceMapsPrimary}}
	reg := map[model.SourceName]adapters.Adapter{
		model.SourceReviews:     reviews,
		model.SourceMapsPrimary: maps,
	}
	h := NewHub(reg, testPriors(), zerolog.Nop())

	results := h.Crawl(context.Background(), "Chicago, IL", "plumbing", 25,
		[]model.SourceName{model.SourceReviews, model.SourceMapsPrimary})

	require.Len(t, results, 2)
	assert.True(t, results[model.SourceReviews].Success)
	assert.True(t, results[model.SourceMapsPrimary].Success)
	assert.Equal(t, 1, reviews.calls)
	assert.Equal(t, 1, maps.calls)
}

func TestHub_Crawl_AdapterPanicBecomesFailureResult(t *testing.T) {
	bad := &fakeAdapter{name: model.SourceReviews, panics: true}
	reg := map[model.SourceName]adapters.Adapter{model.SourceReviews: bad}
	h := NewHub(reg, testPriors(), zerolog.Nop())

	results := h.Crawl(context.Background(), "Chicago, IL", "plumbing", 25, []model.SourceName{model.SourceReviews})

	require.Contains(t, results, model.SourceReviews)
	result := results[model.SourceReviews]
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, model.KindAdapterNetworkError, result.Errors[0].Kind)
}

func TestHub_Crawl_OnePanickingSourceDoesNotBlockOthers(t *testing.T) {
	bad := &fakeAdapter{name: model.SourceReviews, panics: true}
	good := &fakeAdapter{name: model.SourceMapsPrimary, result: adapters.Result{Success: true, SourceName: model.SourceMapsPrimary}}
	reg := map[model.SourceName]adapters.Adapter{
		model.SourceReviews:     bad,
		model.SourceMapsPrimary: good,
	}
	h := NewHub(reg, testPriors(), zerolog.Nop())

	results := h.Crawl(context.Background(), "Chicago, IL", "plumbing", 25,
		[]model.SourceName{model.SourceReviews, model.SourceMapsPrimary})

	assert.False(t, results[model.SourceReviews].Success)
	assert.True(t, results[model.SourceMapsPrimary].Success)
}

func TestHub_CallOne_FillsSourceNameWhenAdapterOmitsIt(t *testing.T) {
	ad := &fakeAdapter{name: model.SourceReviews, result: adapters.Result{Success: true}}
	h := NewHub(map[model.SourceName]adapters.Adapter{model.SourceReviews: ad}, testPriors(), zerolog.Nop())

	result := h.callOne(context.Background(), ad, model.SourceReviews, "Chicago, IL", "plumbing", 25)
	assert.Equal(t, model.SourceReviews, result.SourceName)
}

func TestHub_WaitForSlot_DelaysSecondCallBySourceMinDelay(t *testing.T) {
	p := testPriors()
	p.MinInterRequestDelayMillis = map[model.SourceName]int{model.SourceReviews: 50}
	h := NewHub(map[model.SourceName]adapters.Adapter{}, p, zerolog.Nop())

	start := time.Now()
	h.waitForSlot(context.Background(), model.SourceReviews)
	firstElapsed := time.Since(start)
	assert.Less(t, firstElapsed, 40*time.Millisecond, "first call for a source should not wait")

	second := time.Now()
	h.waitForSlot(context.Background(), model.SourceReviews)
	secondElapsed := time.Since(second)
	assert.GreaterOrEqual(t, secondElapsed, 45*time.Millisecond, "second call within the delay window should be gated")
}

func TestHub_WaitForSlot_ContextCancelUnblocksEarly(t *testing.T) {
	p := testPriors()
	p.MinInterRequestDelayMillis = map[model.SourceName]int{model.SourceReviews: 5000}
	h := NewHub(map[model.SourceName]adapters.Adapter{}, p, zerolog.Nop())
	h.waitForSlot(context.Background(), model.SourceReviews)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	h.waitForSlot(ctx, model.SourceReviews)
	assert.Less(t, time.Since(start), time.Second)
}

func TestJitter_ZeroBaseYieldsZero(t *testing.T) {
	assert.Equal(t, time.Duration(0), jitter(0))
}

func TestJitter_IsBoundedByTenPercentOfBase(t *testing.T) {
	base := 100 * time.Millisecond
	for i := 0; i < 20; i++ {
		j := jitter(base)
		assert.GreaterOrEqual(t, j, time.Duration(0))
		assert.LessOrEqual(t, j, base/10)
	}
}

func TestSortedSourceNames_OrdersAlphabetically(t *testing.T) {
	in := []model.SourceName{model.SourceReviews, model.SourceMapsPrimary, model.SourceBizRegistry}
	out := SortedSourceNames(in)
	require.Len(t, out, 3)
	for i := 1; i < len(out); i++ {
		assert.LessOrEqual(t, string(out[i-1]), string(out[i]))
	}
	require.Len(t, in, 3)
	assert.Equal(t, model.SourceReviews, in[0], "SortedSourceNames must not mutate its input")
}
