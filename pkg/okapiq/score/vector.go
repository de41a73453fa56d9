package score

import (
	"math"

	"okapiq/pkg/okapiq/model"
)

// categoryVectorOrder fixes the one-hot category ordering so every
// business vector has a stable dimension layout regardless of which
// categories appear in a given batch.
var categoryVectorOrder = []model.Category{
	model.CategoryHVAC, model.CategoryPlumbing, model.CategoryElectrical, model.CategoryLandscaping,
	model.CategoryRestaurant, model.CategoryRetail, model.CategoryHealthcare, model.CategoryAutomotive,
	model.CategoryConstruction, model.CategoryManufacturing, model.CategoryServices, model.CategoryOther,
}

// BusinessVector builds the ~25-dim L2-normalized feature vector (spec
// §4.5 "business vector"): core metrics, log1p-scaled review_count and
// revenue, digital-presence flags, category one-hot, and
// quality/provenance counts.
func BusinessVector(b *model.Business, f FeatureRow) []float64 {
	v := []float64{
		f.Rating / 5,
		math.Log1p(f.ReviewCount),
		math.Log1p(f.EstimatedRevenue),
		f.EmployeeCount / 100,
		f.YearsInBusiness / 50,
		f.MarketSharePercent / 100,
		f.DigitalPresenceScore / 100,
		f.PhoneValid,
		f.EmailValid,
		f.WebsiteValid,
		f.HasCoordinates,
		f.QualityHigh,
		f.QualityMedium,
		f.QualityLow,
		f.QualityPoor,
		f.ProvenanceSourceCount / 5,
	}
	for _, cat := range categoryVectorOrder {
		v = append(v, f.CategoryOneHot[cat])
	}

	return l2Normalize(v)
}

func l2Normalize(v []float64) []float64 {
	sumSq := 0.0
	for _, x := range v {
		sumSq += x * x
	}
	norm := math.Sqrt(sumSq)
	if norm == 0 {
		return v
	}
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}
