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

// SearchSERPAdapter returns local search results; only the response's
// local_results block is read (places and organic blocks are not
// parsed). Per spec §4.1 it has a three-tier fallback: SERP -> geocoded Overpass
// POI lookup -> deterministic synthesized stand-in set, so downstream
// stages always see at least a small result set once selected.
type SearchSERPAdapter struct {
	BaseURL  string
	APIKey   string
	Client   *http.Client
	Geocoder *Geocoder
	Priors   *priors.Table
}

// NewSearchSERPAdapter builds the adapter.
func NewSearchSERPAdapter(baseURL, apiKey string, geocoder *Geocoder, p *priors.Table) *SearchSERPAdapter {
	if baseURL == "" {
		baseURL = "https://serpapi.com/search.json"
	}
	return &SearchSERPAdapter{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 15 * time.Second},
		Geocoder: geocoder,
		Priors:   p,
	}
}

func (a *SearchSERPAdapter) Name() model.SourceName { return model.SourceSearchSERP }

func (a *SearchSERPAdapter) Fetch(ctx context.Context, req Request) Result {
	meta := map[string]interface{}{}

	var records []Record
	if a.APIKey != "" {
		fetched, err := a.fetchSERP(ctx, req)
		if err == nil && len(fetched) > 0 {
			records = fetched
		} else if err != nil {
			meta["serp_error"] = err.Error()
		}
	} else {
		meta["serp_skipped"] = "no API key configured"
	}

	if len(records) == 0 {
		center := a.Geocoder.Resolve(ctx, req.Search.Location)
		overpassRecords, err := overpassFallback(ctx, a.Client, center, req.Search.Industry)
		if err == nil && len(overpassRecords) > 0 {
			records = overpassRecords
			meta["tier_used"] = "overpass"
		} else {
			if err != nil {
				meta["overpass_error"] = err.Error()
			}
			records = synthesizeStandInRecords(req.Search.Location, req.Search.Industry, a.Priors.FallbackEntityCountMax, center)
			meta["tier_used"] = "synthesized"
		}
	} else {
		meta["tier_used"] = "serp"
	}

	for i := range records {
		if _, has := records[i]["source"]; !has {
			records[i]["source"] = string(model.SourceSearchSERP)
		}
	}
	return okResult(model.SourceSearchSERP, records, meta)
}

func (a *SearchSERPAdapter) fetchSERP(ctx context.Context, req Request) ([]Record, error) {
	query := fmt.Sprintf("%s %s", req.Search.Industry, req.Search.Location)
	endpoint := fmt.Sprintf("%s?engine=google_local&q=%s&api_key=%s", a.BaseURL, url.QueryEscape(query), a.APIKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search_serp status %d", resp.StatusCode)
	}
	var parsed struct {
		LocalResults []map[string]interface{} `json:"local_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(parsed.LocalResults))
	for _, r := range parsed.LocalResults {
		rec := Record{}
		if v, ok := r["title"]; ok {
			rec["name"] = v
		}
		if v, ok := r["address"]; ok {
			rec["address"] = v
		}
		if v, ok := r["phone"]; ok {
			rec["phone"] = v
		}
		if v, ok := r["rating"]; ok {
			rec["rating"] = v
		}
		if v, ok := r["reviews"]; ok {
			rec["review_count"] = v
		}
		out = append(out, rec)
	}
	return out, nil
}
