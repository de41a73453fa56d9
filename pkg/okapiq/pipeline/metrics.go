package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// stageSeconds records per-stage wall-clock duration, grounded on the
// pipeline_performance timings spec §6.1 already puts on every
// response; recording them as a histogram in the default Prometheus
// registry additionally accumulates cross-request latency. No HTTP
// route in this module serves that registry.
var stageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "okapiq",
	Subsystem: "pipeline",
	Name:      "stage_seconds",
	Help:      "Duration of one pipeline stage, in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"stage"})

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "okapiq",
	Subsystem: "pipeline",
	Name:      "requests_total",
	Help:      "Total pipeline requests by outcome.",
}, []string{"outcome"})

var cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "okapiq",
	Subsystem: "pipeline",
	Name:      "cache_hits_total",
	Help:      "Total pipeline requests served from cache.",
})
