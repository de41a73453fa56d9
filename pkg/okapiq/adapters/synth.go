package adapters

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// seedFromQuery derives a deterministic PRNG seed from the request
// shape so that stand-in/synthesized records are stable across runs
// of the same query (spec's "deterministic stand-in set seeded from
// the query" and fallback-mode "deterministic names").
func seedFromQuery(location, industry string) int64 {
	h := fnv.New64a()
	h.Write([]byte(location))
	h.Write([]byte("|"))
	h.Write([]byte(industry))
	return int64(h.Sum64())
}

// synthesizeStandInRecords builds a small deterministic set of
// plausible-looking business records for when every real source is
// exhausted, per SEARCH_SERP's three-tier fallback (spec §4.1).
func synthesizeStandInRecords(location, industry string, count int, center GeocodeResult) []Record {
	if industry == "" {
		industry = "business"
	}
	rng := rand.New(rand.NewSource(seedFromQuery(location, industry)))
	suffixes := []string{"Co.", "Services", "Group", "Solutions", "Partners", "LLC", "Inc."}
	out := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("%s %s %s", capitalize(industry), suffixes[rng.Intn(len(suffixes))], location)
		rating := 3.0 + rng.Float64()*2.0
		reviews := 5 + rng.Intn(150)
		out = append(out, newRecord(map[string]interface{}{
			"name":         name,
			"address":      fmt.Sprintf("%d Main St, %s", 100+i*10, location),
			"rating":       roundTo(rating, 1),
			"review_count": reviews,
			"lat":          center.Lat + (rng.Float64()-0.5)*0.05,
			"lng":          center.Lng + (rng.Float64()-0.5)*0.05,
			"source":       "SEARCH_SERP",
			"synthesized":  true,
		}))
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 32
	}
	return string(b)
}

func roundTo(v float64, places int) float64 {
	mult := 1.0
	for i := 0; i < places; i++ {
		mult *= 10
	}
	return float64(int(v*mult+0.5)) / mult
}
