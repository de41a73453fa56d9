package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"okapiq/pkg/okapiq/model"
)

// Key computes the deterministic cache key from a normalized request
// (spec §4.7 "Key = hash of (lowercased_location, industry_or_general,
// radius, max_businesses, sorted crawl_sources, sorted
// enrichment_types, sorted analysis_types)").
func Key(req model.Request) string {
	industry := req.Industry
	if industry == "" {
		industry = "general"
	}

	crawlSources := sortedStrings(sourceNamesToStrings(req.CrawlSources))
	enrichmentTypes := sortedStrings(enrichmentKindsToStrings(req.EnrichmentTypes))
	analysisTypes := sortedStrings(analysisKindsToStrings(req.AnalysisTypes))

	raw := fmt.Sprintf("%s|%s|%d|%d|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(req.Location)),
		strings.ToLower(industry),
		req.RadiusMiles,
		req.MaxBusinesses,
		strings.Join(crawlSources, ","),
		strings.Join(enrichmentTypes, ","),
		strings.Join(analysisTypes, ","),
	)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func sourceNamesToStrings(s []model.SourceName) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}

func enrichmentKindsToStrings(s []model.EnrichmentKind) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}

func analysisKindsToStrings(s []model.AnalysisKind) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = string(v)
	}
	return out
}
