package enrich

import (
	"context"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// RegistryPass looks up a business by (name, zip) against the
// REGISTRY source and attaches tax-registration/legitimacy signals,
// filling naics_code when absent (spec §4.4 "registry enrichment").
type RegistryPass struct {
	adapter adapters.Adapter
	priors  *priors.Table
}

func (p *RegistryPass) Apply(ctx context.Context, b *model.Business, location string) bool {
	if p.adapter == nil {
		return false
	}
	result := p.adapter.Fetch(ctx, adapters.Request{
		SourceType: model.SourceRegistry,
		Search: adapters.SearchParams{
			Location: b.Address.Zip,
			Query:    b.Name,
			Industry: string(b.Category),
		},
	})
	if !result.Success || len(result.Data) == 0 {
		return false
	}
	rec := result.Data[0]
	if b.NAICSCode == "" {
		if naics, ok := rec["naics_code"].(string); ok && naics != "" {
			b.NAICSCode = naics
		}
	}
	if registered, ok := rec["tax_registered"].(bool); ok && registered {
		b.AddTag("tax_registered")
	}
	if legit, ok := rec["legitimate"].(bool); ok && legit {
		b.AddTag("legitimacy_verified")
	}
	b.AddTag("enriched_with_registry")
	return true
}
