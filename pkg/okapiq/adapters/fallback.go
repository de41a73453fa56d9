package adapters

// SynthesizeFallback exposes the deterministic stand-in record
// generator to the Pipeline Orchestrator's fallback mode (spec
// §4.6.1), reusing SEARCH_SERP's same deterministic synthesis so a
// query always yields a stable, reproducible stand-in set regardless
// of which layer needed it.
func SynthesizeFallback(location, industry string, count int, center GeocodeResult) []Record {
	return synthesizeStandInRecords(location, industry, count, center)
}
