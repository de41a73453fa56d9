package normalize

import "okapiq/pkg/okapiq/priors"

// ClampRating bounds a raw rating value into the canonical [0,5] range.
func ClampRating(v float64) float64 {
	return priors.Clamp(v, 0, 5)
}
