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

// BizRegistryAdapter returns an EIN-like identifier, filing status,
// NAICS code, revenue band, employee band, and a compliance score for
// a named business (a business-records-lookup-shaped source).
type BizRegistryAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Priors  *priors.Table
}

func NewBizRegistryAdapter(baseURL, apiKey string, p *priors.Table) *BizRegistryAdapter {
	if baseURL == "" {
		baseURL = "https://api.bizrecords.example.com/v1/lookup"
	}
	return &BizRegistryAdapter{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *BizRegistryAdapter) Name() model.SourceName { return model.SourceBizRegistry }

func (a *BizRegistryAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return failResult(model.SourceBizRegistry, model.KindAdapterCredentialsMissing, "BIZ_REGISTRY: API key not configured")
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}
	var rec Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		endpoint := fmt.Sprintf("%s?q=%s&api_key=%s", a.BaseURL, url.QueryEscape(req.Search.Query), a.APIKey)
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
		return failResult(model.SourceBizRegistry, model.KindAdapterNetworkError, fmt.Sprintf("BIZ_REGISTRY: %v", err))
	}
	rec["source"] = string(model.SourceBizRegistry)
	return okResult(model.SourceBizRegistry, []Record{rec}, map[string]interface{}{})
}
