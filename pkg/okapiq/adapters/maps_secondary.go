package adapters

import (
	"context"
	"fmt"
	"time"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// MapsSecondaryAdapter is the lighter, actor-based-scraper map listing
// source. It is the fallback target for MAPS_PRIMARY (spec §4.1) and
// can also be selected directly.
type MapsSecondaryAdapter struct {
	ActorBaseURL string
	ActorSlug    string
	Token        string
	Priors       *priors.Table
}

// NewMapsSecondaryAdapter builds the adapter; an empty token produces
// a non-retryable credentials-missing failure on Fetch.
func NewMapsSecondaryAdapter(actorBaseURL, actorSlug, token string, p *priors.Table) *MapsSecondaryAdapter {
	if actorBaseURL == "" {
		actorBaseURL = "https://api.apify.example.com/v2"
	}
	if actorSlug == "" {
		actorSlug = "apify/google-maps-scraper"
	}
	return &MapsSecondaryAdapter{ActorBaseURL: actorBaseURL, ActorSlug: actorSlug, Token: token, Priors: p}
}

func (a *MapsSecondaryAdapter) Name() model.SourceName { return model.SourceMapsSecondary }

func (a *MapsSecondaryAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.Token == "" {
		return failResult(model.SourceMapsSecondary, model.KindAdapterCredentialsMissing,
			"MAPS_SECONDARY: actor platform token not configured")
	}

	client := newActorClient(a.ActorBaseURL, a.Token)
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}

	var records []Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		runID, err := client.startRun(ctx, a.ActorSlug, map[string]interface{}{
			"searchStringsArray": []string{fmt.Sprintf("%s %s", req.Search.Industry, req.Search.Location)},
			"maxCrawledPlaces":   40,
		})
		if err != nil {
			return false, true, err
		}
		status, err := pollActorRun(ctx, 60, 2*time.Second, func(ctx context.Context) (actorRunStatus, error) {
			return client.runStatus(ctx, runID)
		})
		if err != nil {
			return false, true, err
		}
		if status != actorSucceeded {
			return false, true, fmt.Errorf("actor run ended with status %s", status)
		}
		data, err := client.fetchDataset(ctx, runID)
		if err != nil {
			return false, true, err
		}
		records = data
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourceMapsSecondary, model.KindAdapterNetworkError,
			fmt.Sprintf("MAPS_SECONDARY: actor run failed: %v", err))
	}

	for i, rec := range records {
		if _, has := rec.EstimatedRevenue(); !has {
			if rating, okR := rec.Rating(); okR {
				if reviews, okC := rec.ReviewCount(); okC {
					records[i]["estimated_revenue"] = a.Priors.EstimateRevenueFromRatingReviews(rating, reviews)
				}
			}
		}
		records[i]["source"] = string(model.SourceMapsSecondary)
	}
	return okResult(model.SourceMapsSecondary, records, map[string]interface{}{"actor_slug": a.ActorSlug})
}
