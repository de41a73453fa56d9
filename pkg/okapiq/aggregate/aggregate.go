// Package aggregate implements the Aggregator: a pure function from a
// scored entity list to a market-level summary (spec §4.8).
package aggregate

import (
	"sort"

	"okapiq/pkg/okapiq/model"
)

// Aggregate computes the MarketMetrics rollup over the scored batch.
// All outputs are bounded; averages over an empty batch are zero
// rather than NaN.
func Aggregate(businesses []model.Business) model.MarketMetrics {
	n := len(businesses)
	m := model.MarketMetrics{TotalBusinesses: n}
	if n == 0 {
		return m
	}

	var sumRating, sumSuccession, sumDigital, sumAcqReadiness float64
	var ratingCount, successionCount, digitalCount int
	revenues := make([]float64, 0, n)

	for _, b := range businesses {
		rev := 0.0
		if b.Metrics.EstimatedRevenue != nil {
			rev = *b.Metrics.EstimatedRevenue
		}
		revenues = append(revenues, rev)
		m.TotalRevenue += rev

		if b.Metrics.Rating != nil {
			sumRating += *b.Metrics.Rating
			ratingCount++
		}
		if b.Metrics.SuccessionRisk != nil {
			sumSuccession += *b.Metrics.SuccessionRisk
			successionCount++
		}
		if b.Metrics.DigitalPresenceScore != nil {
			sumDigital += *b.Metrics.DigitalPresenceScore
			digitalCount++
		}
		if b.Analysis != nil && b.Analysis.TAM != nil {
			m.TAMRollup += b.Analysis.TAM.TAM
		}
		sumAcqReadiness += acquisitionReadiness(&b)
	}

	m.AvgRevenue = m.TotalRevenue / float64(n)
	if ratingCount > 0 {
		m.AvgRating = sumRating / float64(ratingCount)
	}
	if successionCount > 0 {
		m.AvgSuccessionRisk = sumSuccession / float64(successionCount)
	}
	if digitalCount > 0 {
		m.DigitalMaturityAvg = sumDigital / float64(digitalCount)
	}
	m.AcquisitionReadinessAvg = sumAcqReadiness / float64(n)
	m.MarketConcentrationHHI = revenueHHI(revenues)

	return m
}

// revenueHHI computes the Herfindahl-Hirschman Index (scaled 0-10000)
// from a slice of revenue figures.
func revenueHHI(revenues []float64) float64 {
	total := 0.0
	for _, r := range revenues {
		total += r
	}
	if total <= 0 {
		return 0
	}
	hhi := 0.0
	for _, r := range revenues {
		share := r / total * 100
		hhi += share * share
	}
	return hhi
}

// acquisitionReadiness combines the per-entity contact-validity,
// revenue-band, and tenure heuristic referenced by spec §4.8.
func acquisitionReadiness(b *model.Business) float64 {
	score := 0.0
	if b.Contact.PhoneValid || b.Contact.EmailValid || b.Contact.WebsiteValid {
		score += 30
	}
	if b.Metrics.EstimatedRevenue != nil {
		switch {
		case *b.Metrics.EstimatedRevenue >= 1_000_000:
			score += 40
		case *b.Metrics.EstimatedRevenue >= 250_000:
			score += 25
		default:
			score += 10
		}
	}
	if b.Metrics.YearsInBusiness != nil && *b.Metrics.YearsInBusiness >= 10 {
		score += 30
	}
	if score > 100 {
		score = 100
	}
	return score
}

// TopLeads returns the n highest lead_score entities, stable-sorted
// descending, for the response's top_leads slice.
func TopLeads(businesses []model.Business, n int) []model.Business {
	sorted := make([]model.Business, len(businesses))
	copy(sorted, businesses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return leadScoreOf(sorted[i]) > leadScoreOf(sorted[j])
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

func leadScoreOf(b model.Business) float64 {
	if b.Metrics.LeadScore != nil {
		return *b.Metrics.LeadScore
	}
	return 0
}

// LeadDistribution counts businesses per lead-grade band.
func LeadDistribution(businesses []model.Business) model.LeadDistribution {
	var dist model.LeadDistribution
	for _, b := range businesses {
		if b.Analysis == nil || b.Analysis.Lead == nil {
			continue
		}
		switch b.Analysis.Lead.Grade {
		case "A":
			dist.A++
		case "B":
			dist.B++
		case "C":
			dist.C++
		default:
			dist.D++
		}
	}
	return dist
}

// Recommendations derives acquisition and market-opportunity notes
// from the aggregated metrics and fragmentation view.
func Recommendations(businesses []model.Business, metrics model.MarketMetrics) (acquisition, market []model.Recommendation) {
	for _, b := range businesses {
		if b.Analysis == nil || b.Analysis.Acquisition == nil {
			continue
		}
		if b.Analysis.Acquisition.Label == "high" {
			acquisition = append(acquisition, model.Recommendation{
				Title:       b.Name,
				Description: b.Analysis.Acquisition.Recommendation,
			})
		}
		if len(acquisition) >= 5 {
			break
		}
	}

	if metrics.MarketConcentrationHHI > 0 && metrics.MarketConcentrationHHI < 1500 {
		market = append(market, model.Recommendation{
			Title:       "Fragmented market",
			Description: "Low concentration (HHI below 1500) suggests roll-up consolidation potential.",
		})
	}
	if metrics.AvgSuccessionRisk >= 55 {
		market = append(market, model.Recommendation{
			Title:       "Elevated succession risk",
			Description: "Average succession risk is high across this market; prioritize owner-transition outreach.",
		})
	}
	if len(market) == 0 {
		market = []model.Recommendation{{
			Title:       "Stable market",
			Description: "No strong consolidation or succession signal detected across this batch.",
		}}
	}
	return acquisition, market
}
