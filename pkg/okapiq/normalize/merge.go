package normalize

import (
	"regexp"
	"sort"
	"strings"

	"okapiq/pkg/okapiq/model"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	suffixRE     = regexp.MustCompile(`(?i)(?:\s+|\s*,\s*)(llc|inc|incorporated|corp|corporation|co|ltd|lp|llp)\.?\s*$`)
)

// NormalizeName trims, collapses whitespace, and strips a trailing
// legal-entity suffix, preserving the business's display capitalization
// (spec §4.3 step 2 — names are never forced to a single case).
func NormalizeName(raw string) string {
	name := strings.TrimSpace(raw)
	name = whitespaceRE.ReplaceAllString(name, " ")
	name = suffixRE.ReplaceAllString(name, "")
	return strings.TrimSpace(name)
}

// mergeDuplicates folds entities sharing a business_id into one
// canonical record (spec §4.3 step 9): source_records are concatenated,
// metrics are filled from whichever source has them (first writer
// wins, since entities are processed in stable source order), and
// overall_quality is recomputed over the union.
func (n *Normalizer) mergeDuplicates(entities []model.Business) []model.Business {
	byID := make(map[string]*model.Business, len(entities))
	order := make([]string, 0, len(entities))

	for _, e := range entities {
		e := e
		existing, ok := byID[e.BusinessID]
		if !ok {
			byID[e.BusinessID] = &e
			order = append(order, e.BusinessID)
			continue
		}
		mergeInto(existing, &e)
	}

	out := make([]model.Business, 0, len(order))
	for _, id := range order {
		b := byID[id]
		b.OverallQuality = RecomputeOverallQuality(b)
		out = append(out, *b)
	}
	return out
}

// mergeInto folds src's source_records and any metrics/contact/address
// fields dst is missing into dst. dst's own values are never overwritten.
func mergeInto(dst, src *model.Business) {
	dst.SourceRecords = append(dst.SourceRecords, src.SourceRecords...)
	sort.Slice(dst.SourceRecords, func(i, j int) bool {
		return dst.SourceRecords[i].Source < dst.SourceRecords[j].Source
	})

	if dst.Address.Raw == "" && src.Address.Raw != "" {
		dst.Address = src.Address
	}
	if dst.Address.Coordinates == nil && src.Address.Coordinates != nil {
		dst.Address.Coordinates = src.Address.Coordinates
	}
	if !dst.Contact.PhoneValid && src.Contact.PhoneValid {
		dst.Contact.PhoneRaw = src.Contact.PhoneRaw
		dst.Contact.PhoneNationalFormat = src.Contact.PhoneNationalFormat
		dst.Contact.PhoneValid = true
	}
	if !dst.Contact.WebsiteValid && src.Contact.WebsiteValid {
		dst.Contact.WebsiteRaw = src.Contact.WebsiteRaw
		dst.Contact.WebsiteValid = true
	}
	if !dst.Contact.EmailValid && src.Contact.EmailValid {
		dst.Contact.EmailRaw = src.Contact.EmailRaw
		dst.Contact.EmailValid = true
	}

	if dst.Metrics.Rating == nil {
		dst.Metrics.Rating = src.Metrics.Rating
	}
	if dst.Metrics.ReviewCount == nil {
		dst.Metrics.ReviewCount = src.Metrics.ReviewCount
	}
	if dst.Metrics.EstimatedRevenue == nil {
		dst.Metrics.EstimatedRevenue = src.Metrics.EstimatedRevenue
	}
	if dst.Metrics.EmployeeCount == nil {
		dst.Metrics.EmployeeCount = src.Metrics.EmployeeCount
	}
	if dst.Metrics.YearsInBusiness == nil {
		dst.Metrics.YearsInBusiness = src.Metrics.YearsInBusiness
	}
	if dst.Owner == nil && src.Owner != nil {
		dst.Owner = src.Owner
	}
	if dst.Category == model.CategoryOther && src.Category != model.CategoryOther {
		dst.Category = src.Category
	}
	for k := range src.Tags {
		dst.AddTag(k)
	}
}
