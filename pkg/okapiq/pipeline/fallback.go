package pipeline

import (
	"context"
	"time"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
)

// fallbackEntityCount bounds the synthesized stand-in set to spec
// §4.6.1's "synthesize 3-5 minimal entities" range.
const fallbackEntityCount = 4

// runFallback builds a guaranteed non-empty, UI-renderable entity set
// near the geocoded query center when every adapter failed or the
// normalizer produced zero entities (spec §4.6.1). hadRealData marks
// whether any adapter returned successful data, which governs the
// resulting data_quality_score ceiling.
func (o *Orchestrator) runFallback(ctx context.Context, req model.Request, hadRealData bool) []model.Business {
	center := o.geocoder.Resolve(ctx, req.Location)
	records := adapters.SynthesizeFallback(req.Location, req.Industry, fallbackEntityCount, center)

	bundle := map[model.SourceName]adapters.Result{
		model.SourceSearchSERP: {
			Success:    true,
			Data:       records,
			Timestamp:  time.Now(),
			SourceName: model.SourceSearchSERP,
		},
	}

	businesses := o.normalizer.Normalize(bundle)
	for i := range businesses {
		businesses[i].AddTag("fallback_minimal")
		if !hadRealData {
			businesses[i].OverallQuality = model.QualityPoor
		}
	}
	return businesses
}

// fallbackDataQualityScore applies the spec §4.6.1 ceiling: 0 when no
// real adapter returned data, otherwise bounded at 0.6.
func fallbackDataQualityScore(hadRealData bool, computed float64) float64 {
	if !hadRealData {
		return 0
	}
	if computed > 0.6 {
		return 0.6
	}
	return computed
}
