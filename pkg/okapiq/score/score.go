// Package score implements the Scorer: per-entity feature extraction,
// the six rule-based analyses, the business vector, and market-level
// k-means clustering (spec §4.5).
package score

import (
	"time"

	"github.com/rs/zerolog"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// Scorer runs the requested analyses over a batch of entities that
// share one request's peer universe.
type Scorer struct {
	priors *priors.Table
	log    zerolog.Logger
}

func New(p *priors.Table, log zerolog.Logger) *Scorer {
	return &Scorer{priors: p, log: log}
}

// Score runs every requested analysis kind over every entity, using
// the full batch as each entity's peer universe for the relative
// analyses (TAM, fragmentation). A per-entity analysis failure never
// aborts the batch (spec §4.5 "scorer operations on a single entity
// never abort the batch").
func (s *Scorer) Score(businesses []model.Business, kinds []model.AnalysisKind) []model.Business {
	out := make([]model.Business, len(businesses))
	copy(out, businesses)

	features := make([]FeatureRow, len(out))
	for i := range out {
		features[i] = ExtractFeatures(&out[i])
	}

	want := toSet(kinds)

	for i := range out {
		bundle := &model.ScoreBundle{ComputedAt: time.Now()}
		s.scoreOne(&out[i], features[i], out, features, want, bundle)
		out[i].Analysis = bundle
	}
	return out
}

func (s *Scorer) scoreOne(b *model.Business, feat FeatureRow, all []model.Business, allFeat []FeatureRow, want map[model.AnalysisKind]bool, bundle *model.ScoreBundle) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("component", "score").Interface("panic", r).Msg("scoring pass panicked")
		}
	}()

	if want[model.AnalysisSuccessionRisk] {
		bundle.Succession = s.successionRisk(b, feat)
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisSuccessionRisk)
	}
	if want[model.AnalysisTAMOpportunity] {
		bundle.TAM = s.tamOpportunity(b, all)
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisTAMOpportunity)
	}
	if want[model.AnalysisMarketFragmentation] {
		bundle.Fragmentation = s.marketFragmentation(b, all)
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisMarketFragmentation)
	}
	if want[model.AnalysisGrowthPotential] {
		bundle.Growth = s.growthPotential(b, feat)
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisGrowthPotential)
	}
	if want[model.AnalysisAcquisitionAttractive] {
		succession := 0.0
		if bundle.Succession != nil {
			succession = bundle.Succession.Score
		} else {
			succession = s.successionRisk(b, feat).Score
		}
		bundle.Acquisition = s.acquisitionAttractiveness(b, feat, succession)
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisAcquisitionAttractive)
	}
	if want[model.AnalysisLeadScore] {
		succession := 0.0
		if bundle.Succession != nil {
			succession = bundle.Succession.Score
		} else {
			succession = s.successionRisk(b, feat).Score
		}
		lead := s.leadScore(b, feat, succession)
		bundle.Lead = lead
		b.Metrics.LeadScore = &lead.Overall
		bundle.AnalysesRun = append(bundle.AnalysesRun, model.AnalysisLeadScore)
	}
	bundle.Vector = BusinessVector(b, feat)
}

func toSet(kinds []model.AnalysisKind) map[model.AnalysisKind]bool {
	set := make(map[model.AnalysisKind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}
