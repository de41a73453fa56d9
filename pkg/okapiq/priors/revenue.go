package priors

import "math"

// EstimateRevenueFromRatingReviews resolves spec §9's Open Question:
// several adapters in the source material each embedded a slightly
// different rating/review-count -> revenue formula. This is the one
// consolidated formula, used by the MAPS_SECONDARY and REVIEWS adapters
// and by the Normalizer's metric-fill step, so no per-adapter variant
// is carried forward.
func (t *Table) EstimateRevenueFromRatingReviews(rating float64, reviewCount int) float64 {
	if reviewCount <= 0 {
		return 0
	}
	if rating <= 0 {
		rating = 3.0
	}
	p := t.RevenueFromRatingReviews
	ratingFactor := math.Pow(rating/5.0, p.RatingExponent) * 5.0
	revenue := float64(reviewCount) * p.BaseRevenuePerReview * ratingFactor / 5.0
	return Clamp(revenue, p.MinRevenue, p.MaxRevenue)
}
