package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// GenericWebAdapter performs a lightweight web search: it resolves a
// query to at most five search-result links and returns each result's
// title and URL (spec §4.1's GENERIC_WEB capability). The linked pages
// themselves are not fetched, so no page body text is returned.
type GenericWebAdapter struct {
	Client    *http.Client
	UserAgent string
	Priors    *priors.Table
}

func NewGenericWebAdapter(userAgent string, p *priors.Table) *GenericWebAdapter {
	return &GenericWebAdapter{Client: &http.Client{Timeout: 15 * time.Second}, UserAgent: userAgent, Priors: p}
}

func (a *GenericWebAdapter) Name() model.SourceName { return model.SourceGenericWeb }

func (a *GenericWebAdapter) Fetch(ctx context.Context, req Request) Result {
	query := req.Search.Query
	if query == "" {
		query = fmt.Sprintf("%s %s", req.Search.Industry, req.Search.Location)
	}

	searchURL := fmt.Sprintf("https://duckduckgo.com/html/?q=%s", url.QueryEscape(query))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return failResult(model.SourceGenericWeb, model.KindAdapterNetworkError, err.Error())
	}
	httpReq.Header.Set("User-Agent", a.UserAgent)
	resp, err := a.Client.Do(httpReq)
	if err != nil {
		return failResult(model.SourceGenericWeb, model.KindAdapterNetworkError, err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return failResult(model.SourceGenericWeb, model.KindAdapterNetworkError,
			fmt.Sprintf("GENERIC_WEB: unexpected status %d", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return failResult(model.SourceGenericWeb, model.KindAdapterPayloadMalformed, err.Error())
	}

	var records []Record
	doc.Find(".result__a").Each(func(i int, s *goquery.Selection) {
		if i >= 5 {
			return
		}
		href, _ := s.Attr("href")
		records = append(records, Record{
			"title":  s.Text(),
			"url":    href,
			"source": string(model.SourceGenericWeb),
		})
	})
	return okResult(model.SourceGenericWeb, records, map[string]interface{}{"query": query})
}
