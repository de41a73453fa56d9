package normalize

import (
	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// RecordQuality bands a single source record's completeness into the
// closed Quality vocabulary (spec §4.3 step 7): high requires contact
// plus at least one financial metric; medium requires a valid contact
// channel; low requires a usable name/address only; poor otherwise.
func RecordQuality(raw adapters.Record, contact model.Contact, metrics model.Metrics) model.Quality {
	hasFinancial := metrics.EstimatedRevenue != nil || metrics.Rating != nil
	hasContact := contact.PhoneValid || contact.WebsiteValid || contact.EmailValid
	name, hasName := raw.Name()
	addr, hasAddr := raw.Address()

	switch {
	case hasContact && hasFinancial:
		return model.QualityHigh
	case hasContact:
		return model.QualityMedium
	case hasName && name != "" && hasAddr && addr != "":
		return model.QualityLow
	default:
		return model.QualityPoor
	}
}

// Confidence blends the source's reliability prior with the record's
// own completeness band, per spec §4.3 step 7's confidence formula.
func Confidence(p *priors.Table, source model.SourceName, raw adapters.Record) float64 {
	base := p.Reliability(source)
	completeness := 0.0
	fields := 0
	if _, ok := raw.Name(); ok {
		fields++
	}
	if _, ok := raw.Address(); ok {
		fields++
	}
	if _, ok := raw.Phone(); ok {
		fields++
	}
	if _, ok := raw.Rating(); ok {
		fields++
	}
	completeness = float64(fields) / 4.0
	return priors.Clamp(base*0.7+completeness*0.3, 0, 1)
}

// RecomputeOverallQuality re-derives a Business's overall_quality as
// the best quality band across its attached source records (spec §4.3
// step 8, re-run after every merge).
func RecomputeOverallQuality(b *model.Business) model.Quality {
	rank := map[model.Quality]int{
		model.QualityHigh:   4,
		model.QualityMedium: 3,
		model.QualityLow:    2,
		model.QualityPoor:   1,
	}
	best := model.QualityPoor
	bestRank := 0
	for _, rec := range b.SourceRecords {
		if rank[rec.Quality] > bestRank {
			bestRank = rank[rec.Quality]
			best = rec.Quality
		}
	}
	return best
}
