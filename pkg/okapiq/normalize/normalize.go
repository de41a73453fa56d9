// Package normalize implements the Normalizer: mapping heterogeneous
// raw adapter records into canonical Business entities, validating
// contact fields, parsing addresses, categorizing, attaching
// provenance, and merging near-duplicates (spec §4.3).
package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// Normalizer converts raw per-source records into canonical Businesses.
type Normalizer struct {
	priors *priors.Table
	log    zerolog.Logger
}

// New builds a Normalizer.
func New(p *priors.Table, log zerolog.Logger) *Normalizer {
	return &Normalizer{priors: p, log: log}
}

// Normalize runs the full per-record pipeline (spec §4.3) over every
// raw record in the given per-source result bundle, then merges
// near-duplicates into canonical entities. A per-record error never
// aborts the batch; it is dropped with a warning (spec §4.3 Failure
// semantics). The returned slice is sorted by (overall_quality desc,
// lead_score desc) deterministically.
func (n *Normalizer) Normalize(bundle map[model.SourceName]adapters.Result) []model.Business {
	var entities []model.Business

	for _, source := range sortedSources(bundle) {
		result := bundle[source]
		if !result.Success {
			continue
		}
		for _, raw := range result.Data {
			entity, ok := n.normalizeOne(source, raw)
			if !ok {
				continue
			}
			entities = append(entities, entity)
		}
	}

	merged := n.mergeDuplicates(entities)
	sortBusinesses(merged)
	return merged
}

func sortedSources(bundle map[model.SourceName]adapters.Result) []model.SourceName {
	out := make([]model.SourceName, 0, len(bundle))
	for k := range bundle {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// normalizeOne runs steps 1-8 of spec §4.3's per-record pipeline.
func (n *Normalizer) normalizeOne(source model.SourceName, raw adapters.Record) (model.Business, bool) {
	name, hasName := raw.Name()
	if !hasName || strings.TrimSpace(name) == "" {
		n.log.Warn().Str("component", "normalize").Str("source", string(source)).Msg("dropping record with no name")
		return model.Business{}, false
	}
	normalizedName := NormalizeName(name)

	addrRaw, _ := raw.Address()
	addr := ParseAddress(addrRaw)

	phoneRaw, _ := raw.Phone()
	contact := NormalizeContact(phoneRaw, "", "")
	if website, ok := raw.Website(); ok {
		contact.WebsiteRaw = website
		contact.WebsiteValid = ValidWebsite(website)
	}

	businessID := ComputeBusinessID(normalizedName, addr.Raw, phoneRaw)
	category := MapCategory(n.priors, name)

	metrics := model.Metrics{}
	if rating, ok := raw.Rating(); ok {
		v := ClampRating(rating)
		metrics.Rating = &v
	}
	if reviews, ok := raw.ReviewCount(); ok && reviews >= 0 {
		metrics.ReviewCount = &reviews
	}
	if revenue, ok := raw.EstimatedRevenue(); ok && revenue >= 0 {
		metrics.EstimatedRevenue = &revenue
	} else if metrics.Rating != nil && metrics.ReviewCount != nil {
		est := n.priors.EstimateRevenueFromRatingReviews(*metrics.Rating, *metrics.ReviewCount)
		if est > 0 {
			metrics.EstimatedRevenue = &est
		}
	}
	if emp, ok := raw.EmployeeCount(); ok && emp >= 0 {
		metrics.EmployeeCount = &emp
	}
	if years, ok := raw.YearsInBusiness(); ok && years >= 0 {
		metrics.YearsInBusiness = &years
	}

	var owner *model.OwnerInfo
	if ownerName, ok := raw.OwnerName(); ok && ownerName != "" {
		owner = &model.OwnerInfo{
			Name:            ownerName,
			DetectionSource: "source_record:" + string(source),
			Confidence:      0.7,
		}
	}

	if lat, lng, ok := raw.Coordinates(); ok {
		addr.Coordinates = &model.Coordinates{Lat: lat, Lng: lng, Source: string(source), Accuracy: 0.8}
	}

	quality := RecordQuality(raw, contact, metrics)
	confidence := Confidence(n.priors, source, raw)

	business := model.Business{
		BusinessID:  businessID,
		ExternalIDs: map[model.SourceName]string{},
		Name:        normalizedName,
		Category:    category,
		Address:     addr,
		Contact:     contact,
		Metrics:     metrics,
		Owner:       owner,
		SourceRecords: []model.SourceRecord{
			{
				Source:      source,
				ExtractedAt: time.Now(),
				Confidence:  confidence,
				Quality:     quality,
				RawPayload:  map[string]interface{}(raw),
			},
		},
		LastUpdated: time.Now(),
		Tags:        map[string]bool{},
	}
	business.OverallQuality = RecomputeOverallQuality(&business)
	return business, true
}

// ComputeBusinessID derives the stable, deterministic business_id hash
// from normalized (name, address, phone), per spec §3/§4.3 step 1.
func ComputeBusinessID(name, address, phone string) string {
	key := normalizeForHash(name) + "|" + normalizeForHash(address) + "|" + digitsOnly(phone)
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])[:24]
}

var nonAlnumRE = regexp.MustCompile(`[^a-z0-9 ]`)

func normalizeForHash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonAlnumRE.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SortByQualityThenLead sorts by (overall_quality desc, lead_score
// desc), stable. Exported so the Pipeline Orchestrator can apply the
// same ordering when truncating to max_businesses (spec §4.6 step 5).
func SortByQualityThenLead(list []model.Business) {
	sortBusinesses(list)
}

// sortBusinesses sorts by (overall_quality desc, lead_score desc),
// stable, per spec §4.3's documented output order.
func sortBusinesses(list []model.Business) {
	qualityRank := map[model.Quality]int{
		model.QualityHigh:   4,
		model.QualityMedium: 3,
		model.QualityLow:    2,
		model.QualityPoor:   1,
	}
	sort.SliceStable(list, func(i, j int) bool {
		qi, qj := qualityRank[list[i].OverallQuality], qualityRank[list[j].OverallQuality]
		if qi != qj {
			return qi > qj
		}
		li, lj := leadScoreOf(list[i]), leadScoreOf(list[j])
		return li > lj
	})
}

func leadScoreOf(b model.Business) float64 {
	if b.Metrics.LeadScore != nil {
		return *b.Metrics.LeadScore
	}
	return 0
}
