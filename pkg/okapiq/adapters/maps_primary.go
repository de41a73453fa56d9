package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// MapsPrimaryAdapter is the richer, headless-browser-class map
// listing source. Per spec §4.1, when it is unavailable it
// transparently delegates to MAPS_SECONDARY for the same logical query.
type MapsPrimaryAdapter struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Fallback *MapsSecondaryAdapter
	Priors   *priors.Table
}

// NewMapsPrimaryAdapter builds the adapter with its fallback wired in.
func NewMapsPrimaryAdapter(baseURL, apiKey string, fallback *MapsSecondaryAdapter, p *priors.Table) *MapsPrimaryAdapter {
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	}
	return &MapsPrimaryAdapter{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 15 * time.Second},
		Fallback: fallback,
		Priors:   p,
	}
}

func (a *MapsPrimaryAdapter) Name() model.SourceName { return model.SourceMapsPrimary }

func (a *MapsPrimaryAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.APIKey == "" {
		return a.delegateToFallback(ctx, req, "MAPS_PRIMARY: API key not configured, falling back to MAPS_SECONDARY")
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}

	var records []Record
	ok, _ := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		query := fmt.Sprintf("%s %s", req.Search.Industry, req.Search.Location)
		endpoint := fmt.Sprintf("%s?query=%s&key=%s", a.BaseURL, url.QueryEscape(query), a.APIKey)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return false, false, err
		}
		resp, err := a.Client.Do(httpReq)
		if err != nil {
			return false, true, err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			return false, true, fmt.Errorf("rate limited")
		}
		if resp.StatusCode != http.StatusOK {
			return false, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		body, err := repairAndDecodePlaces(resp.Body)
		if err != nil {
			return false, false, err
		}
		records = body
		return true, false, nil
	})
	if !ok {
		return a.delegateToFallback(ctx, req, "MAPS_PRIMARY: exhausted retries, falling back to MAPS_SECONDARY")
	}

	for i := range records {
		records[i]["source"] = string(model.SourceMapsPrimary)
	}
	return okResult(model.SourceMapsPrimary, records, map[string]interface{}{})
}

func (a *MapsPrimaryAdapter) delegateToFallback(ctx context.Context, req Request, reason string) Result {
	if a.Fallback == nil {
		return failResult(model.SourceMapsPrimary, model.KindAdapterCredentialsMissing, reason)
	}
	fallbackReq := req
	fallbackReq.SourceType = model.SourceMapsSecondary
	result := a.Fallback.Fetch(ctx, fallbackReq)
	result.SourceName = model.SourceMapsPrimary
	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}
	result.Metadata["fallback_used"] = string(model.SourceMapsSecondary)
	result.Metadata["fallback_reason"] = reason
	return result
}

// repairAndDecodePlaces tolerates mildly malformed JSON bodies from a
// flaky upstream by running them through json-repair before decoding,
// per the adapter_payload_malformed contract in spec §7.
func repairAndDecodePlaces(body interface{ Read([]byte) (int, error) }) ([]Record, error) {
	buf := make([]byte, 0, 8192)
	chunk := make([]byte, 4096)
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	repaired, err := jsonrepair.JSONRepair(string(buf))
	if err != nil {
		repaired = string(buf)
	}
	var parsed struct {
		Results []map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, mapPlaceFields(r))
	}
	return out, nil
}

// mapPlaceFields maps a Google-Places-shaped result into the common record schema.
func mapPlaceFields(r map[string]interface{}) Record {
	out := Record{}
	if v, ok := r["name"]; ok {
		out["name"] = v
	}
	if v, ok := r["formatted_address"]; ok {
		out["address"] = v
	}
	if v, ok := r["rating"]; ok {
		out["rating"] = v
	}
	if v, ok := r["user_ratings_total"]; ok {
		out["review_count"] = v
	}
	if geom, ok := r["geometry"].(map[string]interface{}); ok {
		if loc, ok := geom["location"].(map[string]interface{}); ok {
			if lat, ok := loc["lat"]; ok {
				out["lat"] = lat
			}
			if lng, ok := loc["lng"]; ok {
				out["lng"] = lng
			}
		}
	}
	return out
}
