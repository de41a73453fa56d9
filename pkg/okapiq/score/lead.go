package score

import (
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// leadScore blends five components into the weighted outreach-priority
// score (spec §4.5 "lead score").
func (s *Scorer) leadScore(b *model.Business, f FeatureRow, successionScore float64) *model.LeadScore {
	w := s.priors.LeadScoreWeights

	contactQuality := (f.PhoneValid + f.EmailValid + f.WebsiteValid) / 3 * 100

	businessQuality := priors.Clamp(f.Rating/5*70+minF(f.ReviewCount/100, 1)*30, 0, 100)

	financialOpportunity := revenueBandScore(f.EstimatedRevenue)

	successionOpportunity := successionScore

	completenessFields := []bool{
		b.Contact.PhoneValid,
		b.Contact.EmailValid,
		b.Contact.WebsiteValid,
		b.Metrics.Rating != nil,
		b.Metrics.EstimatedRevenue != nil,
		b.Address.Raw != "",
	}
	present := 0
	for _, ok := range completenessFields {
		if ok {
			present++
		}
	}
	dataCompleteness := float64(present) / float64(len(completenessFields)) * 100

	overall := contactQuality*w.ContactQuality + businessQuality*w.BusinessQuality +
		financialOpportunity*w.FinancialOpportunity + successionOpportunity*w.SuccessionOpportunity +
		dataCompleteness*w.DataCompleteness
	overall = priors.Clamp(overall, 0, 100)

	grade := "D"
	switch {
	case overall >= 80:
		grade = "A"
	case overall >= 65:
		grade = "B"
	case overall >= 50:
		grade = "C"
	}

	priority := "very_low"
	switch grade {
	case "A":
		priority = "high"
	case "B":
		priority = "medium"
	case "C":
		priority = "low"
	}

	var recs []string
	if !b.Contact.PhoneValid && !b.Contact.EmailValid {
		recs = append(recs, "no verified contact channel; attempt a direct site visit or registry lookup")
	}
	if successionOpportunity >= 60 {
		recs = append(recs, "succession risk is elevated; lead with an acquisition-interest message")
	}
	if dataCompleteness < 60 {
		recs = append(recs, "enrich further before outreach; key fields still missing")
	}
	if len(recs) == 0 {
		recs = []string{"proceed with standard outreach sequence"}
	}

	closeProbability := priors.Clamp(overall/100*0.6, 0.05, 0.95)

	return &model.LeadScore{
		ContactQuality:        contactQuality,
		BusinessQuality:       businessQuality,
		FinancialOpportunity:  financialOpportunity,
		SuccessionOpportunity: successionOpportunity,
		DataCompleteness:      dataCompleteness,
		Overall:               overall,
		Grade:                 grade,
		Priority:              priority,
		Recommendations:       recs,
		CloseProbability:      closeProbability,
	}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
