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

// RegistryAdapter returns loan, licensing, and business-age signals
// relevant to succession-risk analysis (an SBA-loan-records-shaped
// source, spec §4.1's REGISTRY capability).
type RegistryAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Priors  *priors.Table
}

func NewRegistryAdapter(baseURL, apiKey string, p *priors.Table) *RegistryAdapter {
	if baseURL == "" {
		baseURL = "https://api.sba-records.example.com/v1/loans"
	}
	return &RegistryAdapter{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *RegistryAdapter) Name() model.SourceName { return model.SourceRegistry }

func (a *RegistryAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return failResult(model.SourceRegistry, model.KindAdapterCredentialsMissing, "REGISTRY: API key not configured")
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}

	var records []Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		endpoint := fmt.Sprintf("%s?location=%s&industry=%s&api_key=%s",
			a.BaseURL, url.QueryEscape(req.Search.Location), url.QueryEscape(req.Search.Industry), a.APIKey)
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if reqErr != nil {
			return false, false, reqErr
		}
		resp, doErr := a.Client.Do(httpReq)
		if doErr != nil {
			return false, true, doErr
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		var parsed []map[string]interface{}
		if decErr := json.NewDecoder(resp.Body).Decode(&parsed); decErr != nil {
			return false, false, decErr
		}
		records = make([]Record, 0, len(parsed))
		for _, row := range parsed {
			rec := Record(row)
			rec["source"] = string(model.SourceRegistry)
			records = append(records, rec)
		}
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourceRegistry, model.KindAdapterNetworkError, fmt.Sprintf("REGISTRY: %v", err))
	}
	return okResult(model.SourceRegistry, records, map[string]interface{}{
		"location": req.Search.Location,
		"industry": req.Search.Industry,
	})
}
