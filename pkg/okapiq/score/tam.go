package score

import (
	"fmt"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// tamOpportunity computes the total/serviceable/obtainable market
// rollup from same-category, same-zip peers within the request batch
// (spec §4.5 "TAM opportunity").
func (s *Scorer) tamOpportunity(b *model.Business, all []model.Business) *model.TAMAnalysis {
	peers := filterPeers(all, func(p *model.Business) bool {
		return p.Category == b.Category && p.Address.Zip == b.Address.Zip && p.Address.Zip != ""
	})

	totalPeerRevenue := 0.0
	avgAge := 0.0
	ageCount := 0
	for _, p := range peers {
		if p.Metrics.EstimatedRevenue != nil {
			totalPeerRevenue += *p.Metrics.EstimatedRevenue
		}
		if p.Metrics.YearsInBusiness != nil {
			avgAge += float64(*p.Metrics.YearsInBusiness)
			ageCount++
		}
	}
	if ageCount > 0 {
		avgAge /= float64(ageCount)
	}

	multiplier := s.priors.TAMMultiplier(b.Category)
	tam := totalPeerRevenue * multiplier
	sam := tam * s.priors.TAMSAMRatio

	marketShare := 0.0
	if b.Metrics.MarketSharePercent != nil {
		marketShare = *b.Metrics.MarketSharePercent
	}
	som := sam * marketShare / 100.0

	confidence := 0.6
	if len(peers) >= 5 {
		confidence = 0.8
	}

	competitiveDensity := 0.0
	if tam > 0 {
		competitiveDensity = float64(len(peers)) / (tam / 1_000_000)
	}

	barriers := tamBarriers(b, s.priors)

	return &model.TAMAnalysis{
		TAM:                tam,
		SAM:                sam,
		SOM:                som,
		MaturityLabel:      maturityLabel(avgAge),
		CompetitiveDensity: competitiveDensity,
		Barriers:           barriers,
		Confidence:         confidence,
		GrowthRatePrior:    s.priors.GrowthRatePrior(b.Category),
		PeerCount:          len(peers),
	}
}

func maturityLabel(avgAge float64) string {
	switch {
	case avgAge >= 25:
		return "mature"
	case avgAge >= 10:
		return "established"
	default:
		return "emerging"
	}
}

// tamBarriers derives a short barriers-to-entry list from the
// category's exit-multiple prior (a proxy for capital intensity) and
// simple size/rating thresholds.
func tamBarriers(b *model.Business, p *priors.Table) []string {
	var barriers []string
	exitMultiple := p.ExitMultiplePrior(b.Category)
	if exitMultiple >= 5.0 {
		barriers = append(barriers, "capital-intensive category, high exit multiples")
	}
	if b.Metrics.EmployeeCount != nil && *b.Metrics.EmployeeCount >= 15 {
		barriers = append(barriers, fmt.Sprintf("established workforce (%d employees)", *b.Metrics.EmployeeCount))
	}
	if b.Metrics.Rating != nil && *b.Metrics.Rating >= 4.5 {
		barriers = append(barriers, "strong incumbent reputation")
	}
	if len(barriers) == 0 {
		barriers = []string{"low barriers to entry observed"}
	}
	return barriers
}

func filterPeers(all []model.Business, keep func(*model.Business) bool) []model.Business {
	var out []model.Business
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out
}
