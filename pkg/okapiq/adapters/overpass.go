package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// overpassFallback queries the public Overpass API for points of
// interest near a geocoded center when SEARCH_SERP returns no
// results, per spec §4.1's "falls back to a geocoded Overpass-style
// POI lookup using public OSM services".
func overpassFallback(ctx context.Context, client *http.Client, center GeocodeResult, industry string) ([]Record, error) {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	tag := overpassTagForIndustry(industry)
	query := fmt.Sprintf(`[out:json][timeout:15];node[%s](around:8000,%f,%f);out 20;`, tag, center.Lat, center.Lng)
	endpoint := "https://overpass-api.de/api/interpreter"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader("data="+query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass status %d", resp.StatusCode)
	}
	var parsed struct {
		Elements []struct {
			Lat  float64           `json:"lat"`
			Lon  float64           `json:"lon"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		name := el.Tags["name"]
		if name == "" {
			continue
		}
		out = append(out, newRecord(map[string]interface{}{
			"name":    name,
			"address": strings.TrimSpace(el.Tags["addr:housenumber"] + " " + el.Tags["addr:street"] + " " + el.Tags["addr:city"]),
			"phone":   el.Tags["phone"],
			"website": el.Tags["website"],
			"lat":     el.Lat,
			"lng":     el.Lon,
			"source":  "SEARCH_SERP_OVERPASS",
		}))
	}
	return out, nil
}

// overpassTagForIndustry maps a free-text industry to a rough OSM tag
// filter. Unknown industries fall back to a generic shop/office tag.
func overpassTagForIndustry(industry string) string {
	i := strings.ToLower(industry)
	switch {
	case strings.Contains(i, "restaurant") || strings.Contains(i, "food"):
		return `"amenity"="restaurant"`
	case strings.Contains(i, "hvac") || strings.Contains(i, "plumb") || strings.Contains(i, "electric"):
		return `"shop"="trade"`
	case strings.Contains(i, "health") || strings.Contains(i, "medical") || strings.Contains(i, "dental"):
		return `"amenity"="clinic"`
	case strings.Contains(i, "auto") || strings.Contains(i, "mechanic"):
		return `"shop"="car_repair"`
	case strings.Contains(i, "retail") || strings.Contains(i, "store"):
		return `"shop"="yes"`
	default:
		return `"office"="yes"`
	}
}
