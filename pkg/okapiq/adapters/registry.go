package adapters

import (
	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// BuildRegistry wires every recognized adapter variant from spec §4.1
// using the given credentials and priors table. Adapters missing
// credentials are still registered — they report a structured
// credentials-missing failure on Fetch rather than being absent,
// keeping the Hub's "one entry per requested source" contract intact.
func BuildRegistry(cfg *config.Config, p *priors.Table) map[model.SourceName]Adapter {
	geocoder := NewGeocoder(cfg.GeocoderBaseURL)

	mapsSecondary := NewMapsSecondaryAdapter("", "", cfg.MapsSecondaryActorToken, p)
	mapsPrimary := NewMapsPrimaryAdapter("", cfg.MapsPrimaryAPIKey, mapsSecondary, p)

	reg := map[model.SourceName]Adapter{
		model.SourceMapsPrimary:   mapsPrimary,
		model.SourceMapsSecondary: mapsSecondary,
		model.SourceSearchSERP:    NewSearchSERPAdapter("", cfg.SearchSERPAPIKey, geocoder, p),
		model.SourceReviews:       NewReviewsAdapter("", cfg.ReviewsAPIKey, p),
		model.SourceSignalsSocial: NewSignalsSocialAdapter("", cfg.SocialSignalsToken, p),
		model.SourceRegistry:      NewRegistryAdapter("", cfg.RegistryAPIKey, p),
		model.SourcePageCrawl:     NewPageCrawlAdapter(cfg.WebCrawlUserAgent, p),
		model.SourceGenericWeb:    NewGenericWebAdapter(cfg.WebCrawlUserAgent, p),
		model.SourceDemographics:  NewDemographicsAdapter("", cfg.DemographicsAPIKey, p),
		model.SourceBizRegistry:   NewBizRegistryAdapter("", cfg.BizRegistryAPIKey, p),
		model.SourceStateRegistry: NewStateRegistryAdapter("", cfg.StateRegistryAPIKey, p),
	}
	return reg
}
