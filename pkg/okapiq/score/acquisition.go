package score

import (
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// acquisitionAttractiveness blends four components into the weighted
// acquisition score (spec §4.5 "acquisition attractiveness").
func (s *Scorer) acquisitionAttractiveness(b *model.Business, f FeatureRow, successionScore float64) *model.AcquisitionAttractiveness {
	w := s.priors.AcquisitionWeights

	financial := revenueBandScore(f.EstimatedRevenue)
	strategic := priors.Clamp(f.Rating/5*60+f.MarketSharePercent*0.4, 0, 100)
	operational := priors.Clamp(headcountBandScore(f.EmployeeCount)*0.5+f.YearsInBusiness*1.2, 0, 100)
	riskAdjusted := 100 - successionScore

	overall := financial*w.Financial + strategic*w.Strategic + operational*w.Operational + riskAdjusted*w.RiskAdjusted
	overall = priors.Clamp(overall, 0, 100)

	label := "low"
	switch {
	case overall >= 75:
		label = "high"
	case overall >= 50:
		label = "moderate"
	}

	var strengths, concerns []string
	if financial >= 70 {
		strengths = append(strengths, "strong revenue profile")
	} else {
		concerns = append(concerns, "modest or unverified revenue")
	}
	if strategic >= 60 {
		strengths = append(strengths, "strong market position")
	}
	if successionScore >= 60 {
		strengths = append(strengths, "elevated succession likelihood improves deal access")
	} else {
		concerns = append(concerns, "owner may not be motivated to sell soon")
	}
	if operational < 40 {
		concerns = append(concerns, "limited operational scale")
	}

	recommendation := "monitor"
	switch label {
	case "high":
		recommendation = "prioritize for outreach and diligence"
	case "moderate":
		recommendation = "qualify further before committing diligence resources"
	}

	return &model.AcquisitionAttractiveness{
		Financial:      financial,
		Strategic:      strategic,
		Operational:    operational,
		RiskAdjusted:   riskAdjusted,
		Overall:        overall,
		Label:          label,
		Strengths:      strengths,
		Concerns:       concerns,
		Recommendation: recommendation,
	}
}
