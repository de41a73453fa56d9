package score

import (
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// growthPotential combines five factor groups into sub-scores, plus a
// years-to-exit band and exit-multiple prior (spec §4.5 "growth potential").
func (s *Scorer) growthPotential(b *model.Business, f FeatureRow) *model.GrowthPotential {
	organic := priors.Clamp(f.Rating/5*40+f.DigitalPresenceScore*0.3+f.MarketSharePercent*0.3, 0, 100)

	acquisition := revenueBandScore(f.EstimatedRevenue)*0.6 + headcountBandScore(f.EmployeeCount)*0.4
	acquisition = priors.Clamp(acquisition, 0, 100)

	marketExpansion := s.priors.GrowthRatePrior(b.Category)*1000 + f.HasCoordinates*20
	marketExpansion = priors.Clamp(marketExpansion, 0, 100)

	revenuePerEmployee := 0.0
	if f.EmployeeCount > 0 {
		revenuePerEmployee = f.EstimatedRevenue / f.EmployeeCount
	}
	operationalEfficiency := priors.Clamp(revenuePerEmployee/2000+f.YearsInBusiness*1.5, 0, 100)

	independence := 100 - f.EmployeeCount*2
	exitReadiness := priors.Clamp(independence*0.4+f.Rating/5*100*0.3+f.MarketSharePercent*0.3, 0, 100)

	yearsToExit := 5
	switch {
	case exitReadiness >= 80:
		yearsToExit = 1
	case exitReadiness >= 60:
		yearsToExit = 2
	case exitReadiness >= 40:
		yearsToExit = 3
	}

	exitMultiple := s.priors.ExitMultiplePrior(b.Category)
	switch {
	case f.Rating > 4.5:
		exitMultiple *= 1.3
	case f.Rating > 4.0:
		exitMultiple *= 1.1
	}

	return &model.GrowthPotential{
		Organic:               organic,
		Acquisition:           acquisition,
		MarketExpansion:       marketExpansion,
		OperationalEfficiency: operationalEfficiency,
		ExitReadiness:         exitReadiness,
		YearsToExit:           yearsToExit,
		ExitMultiplePrior:     exitMultiple,
	}
}

func revenueBandScore(revenue float64) float64 {
	switch {
	case revenue >= 5_000_000:
		return 90
	case revenue >= 1_000_000:
		return 70
	case revenue >= 250_000:
		return 50
	case revenue > 0:
		return 30
	default:
		return 0
	}
}

func headcountBandScore(employees float64) float64 {
	switch {
	case employees >= 50:
		return 90
	case employees >= 15:
		return 70
	case employees >= 5:
		return 50
	case employees > 0:
		return 30
	default:
		return 0
	}
}
