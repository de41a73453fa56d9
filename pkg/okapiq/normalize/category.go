package normalize

import (
	"sort"
	"strings"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// MapCategory assigns the closed category vocabulary by keyword
// matching against the priors table's keyword->category vocabulary
// (spec §4.3 step 4). The category with the most matching keywords
// wins; ties are broken by the longest matching keyword, then by
// category name, so the result is deterministic regardless of
// map iteration order. No hits maps to "other".
func MapCategory(p *priors.Table, name string) model.Category {
	lower := strings.ToLower(name)

	keywords := make([]string, 0, len(p.CategoryKeywords))
	for kw := range p.CategoryKeywords {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	hits := make(map[model.Category]int)
	longest := make(map[model.Category]int)
	for _, kw := range keywords {
		if !strings.Contains(lower, kw) {
			continue
		}
		cat := p.CategoryKeywords[kw]
		hits[cat]++
		if len(kw) > longest[cat] {
			longest[cat] = len(kw)
		}
	}
	if len(hits) == 0 {
		return model.CategoryOther
	}

	cats := make([]model.Category, 0, len(hits))
	for c := range hits {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if hits[cats[i]] != hits[cats[j]] {
			return hits[cats[i]] > hits[cats[j]]
		}
		if longest[cats[i]] != longest[cats[j]] {
			return longest[cats[i]] > longest[cats[j]]
		}
		return cats[i] < cats[j]
	})
	return cats[0]
}
