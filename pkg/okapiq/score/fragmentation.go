package score

import (
	"sort"

	"okapiq/pkg/okapiq/model"
)

// marketFragmentation computes an HHI-based market-structure view over
// same-category peers sharing the entity's 3-digit zip prefix (spec
// §4.5 "market fragmentation").
func (s *Scorer) marketFragmentation(b *model.Business, all []model.Business) *model.FragmentationAnalysis {
	prefix := zip3(b.Address.Zip)
	peers := filterPeers(all, func(p *model.Business) bool {
		return p.Category == b.Category && prefix != "" && zip3(p.Address.Zip) == prefix
	})

	return fragmentationFromPeers(peers)
}

// MarketFragmentation computes the same HHI-based structure view across
// the whole response batch, for the response's market-level
// fragmentation_analysis field (spec §6.1).
func MarketFragmentation(businesses []model.Business) *model.FragmentationAnalysis {
	return fragmentationFromPeers(businesses)
}

func fragmentationFromPeers(peers []model.Business) *model.FragmentationAnalysis {
	if len(peers) < 2 {
		return &model.FragmentationAnalysis{
			Label:     "insufficient_data",
			PeerCount: len(peers),
		}
	}

	revenues := make([]float64, 0, len(peers))
	total := 0.0
	for _, p := range peers {
		rev := 0.0
		if p.Metrics.EstimatedRevenue != nil {
			rev = *p.Metrics.EstimatedRevenue
		}
		revenues = append(revenues, rev)
		total += rev
	}

	shares := make([]float64, len(revenues))
	hhi := 0.0
	for i, r := range revenues {
		share := 0.0
		if total > 0 {
			share = r / total * 100
		}
		shares[i] = share
		hhi += share * share
	}

	sortedShares := append([]float64(nil), shares...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sortedShares)))

	top4 := sumTop(sortedShares, 4)
	top8 := sumTop(sortedShares, 8)
	leader := 0.0
	if len(sortedShares) > 0 {
		leader = sortedShares[0]
	}

	label := "highly_fragmented"
	switch {
	case hhi >= 2500:
		label = "concentrated"
	case hhi >= 1500:
		label = "moderately_fragmented"
	}

	consolidation := "limited"
	rollUpPotential := 0.3
	if label == "highly_fragmented" {
		consolidation = "excellent"
		rollUpPotential = 0.9
	} else if label == "moderately_fragmented" {
		consolidation = "good"
		rollUpPotential = 0.7
	}

	return &model.FragmentationAnalysis{
		HHI:                      hhi,
		Label:                    label,
		Top4ConcentrationRatio:   top4,
		Top8ConcentrationRatio:   top8,
		LeaderShare:              leader,
		ConsolidationOpportunity: consolidation,
		RollUpPotential:          rollUpPotential,
		PeerCount:                len(peers),
	}
}

func zip3(zip string) string {
	if len(zip) < 3 {
		return ""
	}
	return zip[:3]
}

func sumTop(sorted []float64, n int) float64 {
	total := 0.0
	for i := 0; i < n && i < len(sorted); i++ {
		total += sorted[i]
	}
	return total
}
