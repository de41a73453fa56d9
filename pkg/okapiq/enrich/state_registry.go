package enrich

import (
	"context"

	"okapiq/pkg/okapiq/adapters"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// StateRegistryPass looks up a business by (name, state) against the
// STATE_REGISTRY source, attaching business_type/registration-status/
// compliance signals and filling years_in_business when absent (spec
// §4.4 "state registry enrichment").
type StateRegistryPass struct {
	adapter adapters.Adapter
	priors  *priors.Table
}

func (p *StateRegistryPass) Apply(ctx context.Context, b *model.Business, location string) bool {
	if p.adapter == nil || b.Address.State == "" {
		return false
	}
	result := p.adapter.Fetch(ctx, adapters.Request{
		SourceType: model.SourceStateRegistry,
		Search: adapters.SearchParams{
			Location: b.Address.State,
			Query:    b.Name,
		},
	})
	if !result.Success || len(result.Data) == 0 {
		return false
	}
	rec := result.Data[0]
	if businessType, ok := rec["business_type"].(string); ok && businessType != "" {
		b.AddTag("business_type:" + businessType)
	}
	if status, ok := rec["registration_status"].(string); ok && status != "" {
		b.AddTag("registration_status:" + status)
	}
	if compliance, ok := rec["compliance_label"].(string); ok && compliance != "" {
		b.AddTag("compliance:" + compliance)
	}
	if b.Metrics.YearsInBusiness == nil {
		if years, ok := rec["years_in_business"].(float64); ok && years >= 0 {
			yearsInt := int(years)
			b.Metrics.YearsInBusiness = &yearsInt
		}
	}
	b.AddTag("enriched_with_state_registry")
	return true
}
