package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// ReviewsAdapter returns rating/review data from a reviews source
// (Yelp-shaped). Revenue/size are estimated from rating x review
// count via the consolidated priors formula (spec §4.3 Open Question).
type ReviewsAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Priors  *priors.Table
}

func NewReviewsAdapter(baseURL, apiKey string, p *priors.Table) *ReviewsAdapter {
	if baseURL == "" {
		baseURL = "https://api.yelp.com/v3/businesses/search"
	}
	return &ReviewsAdapter{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *ReviewsAdapter) Name() model.SourceName { return model.SourceReviews }

func (a *ReviewsAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return failResult(model.SourceReviews, model.KindAdapterCredentialsMissing, "REVIEWS: API key not configured")
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}

	var records []Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		endpoint := fmt.Sprintf("%s?term=%s&location=%s", a.BaseURL,
			url.QueryEscape(req.Search.Industry), url.QueryEscape(req.Search.Location))
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return false, false, reqErr
		}
		httpReq.Header.Set("Authorization", "Bearer "+a.APIKey)
		resp, doErr := a.Client.Do(httpReq)
		if doErr != nil {
			return false, true, doErr
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			return false, true, fmt.Errorf("rate limited")
		}
		if resp.StatusCode != http.StatusOK {
			return false, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		var parsed struct {
			Businesses []map[string]interface{} `json:"businesses"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&parsed); decErr != nil {
			return false, false, decErr
		}
		records = make([]Record, 0, len(parsed.Businesses))
		for _, b := range parsed.Businesses {
			records = append(records, mapYelpFields(b))
		}
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourceReviews, model.KindAdapterNetworkError, fmt.Sprintf("REVIEWS: %v", err))
	}

	for i, rec := range records {
		rating, hasRating := rec.Rating()
		reviewCount, hasCount := rec.ReviewCount()
		if hasRating && hasCount {
			records[i]["estimated_revenue"] = a.Priors.EstimateRevenueFromRatingReviews(rating, reviewCount)
			records[i]["employee_count"] = estimateEmployeeCountFromRevenue(records[i]["estimated_revenue"].(float64))
		}
		records[i]["source"] = string(model.SourceReviews)
	}
	return okResult(model.SourceReviews, records, map[string]interface{}{})
}

func mapYelpFields(b map[string]interface{}) Record {
	out := Record{}
	if v, ok := b["name"]; ok {
		out["name"] = v
	}
	if loc, ok := b["location"].(map[string]interface{}); ok {
		if addr, ok := loc["display_address"].([]interface{}); ok {
			joined := ""
			for i, part := range addr {
				if i > 0 {
					joined += ", "
				}
				joined += fmt.Sprintf("%v", part)
			}
			out["address"] = joined
		}
	}
	if v, ok := b["phone"]; ok {
		out["phone"] = v
	}
	if v, ok := b["url"]; ok {
		out["website"] = v
	}
	if v, ok := b["rating"]; ok {
		out["rating"] = v
	}
	if v, ok := b["review_count"]; ok {
		out["review_count"] = v
	}
	if coords, ok := b["coordinates"].(map[string]interface{}); ok {
		if lat, ok := coords["latitude"]; ok {
			out["lat"] = lat
		}
		if lng, ok := coords["longitude"]; ok {
			out["lng"] = lng
		}
	}
	if cats, ok := b["categories"].([]interface{}); ok && len(cats) > 0 {
		if first, ok := cats[0].(map[string]interface{}); ok {
			out["category_hint"] = first["title"]
		}
	}
	return out
}

// estimateEmployeeCountFromRevenue applies a coarse revenue-per-employee
// prior ($150k/employee, the small-business services-sector median
// used throughout the priors table's growth/acquisition analyses).
func estimateEmployeeCountFromRevenue(revenue float64) int {
	const revenuePerEmployee = 150000.0
	count := int(revenue / revenuePerEmployee)
	if count < 1 {
		count = 1
	}
	return count
}
