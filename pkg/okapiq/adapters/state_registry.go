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

// StateRegistryAdapter returns registration number, registration date,
// entity type, status, and registered agent from a state secretary-of-state registry.
type StateRegistryAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Priors  *priors.Table
}

func NewStateRegistryAdapter(baseURL, apiKey string, p *priors.Table) *StateRegistryAdapter {
	if baseURL == "" {
		baseURL = "https://api.staterecords.example.com/v1/entity-search"
	}
	return &StateRegistryAdapter{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *StateRegistryAdapter) Name() model.SourceName { return model.SourceStateRegistry }

func (a *StateRegistryAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return failResult(model.SourceStateRegistry, model.KindAdapterCredentialsMissing, "STATE_REGISTRY: API key not configured")
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}
	var rec Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		endpoint := fmt.Sprintf("%s?name=%s&api_key=%s", a.BaseURL, url.QueryEscape(req.Search.Query), a.APIKey)
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
		var parsed map[string]interface{}
		if decErr := json.NewDecoder(resp.Body).Decode(&parsed); decErr != nil {
			return false, false, decErr
		}
		rec = Record(parsed)
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourceStateRegistry, model.KindAdapterNetworkError, fmt.Sprintf("STATE_REGISTRY: %v", err))
	}
	rec["source"] = string(model.SourceStateRegistry)
	return okResult(model.SourceStateRegistry, []Record{rec}, map[string]interface{}{})
}
