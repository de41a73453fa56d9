package adapters

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"okapiq/pkg/okapiq/model"
	"okapiq/pkg/okapiq/priors"
)

// PageCrawlAdapter fetches a single page and extracts the raw visible
// text a downstream text-analysis pass can consume, using goquery to
// walk the parsed DOM rather than regexing raw HTML.
type PageCrawlAdapter struct {
	Client    *http.Client
	UserAgent string
	Priors    *priors.Table
}

func NewPageCrawlAdapter(userAgent string, p *priors.Table) *PageCrawlAdapter {
	return &PageCrawlAdapter{Client: &http.Client{Timeout: 15 * time.Second}, UserAgent: userAgent, Priors: p}
}

func (a *PageCrawlAdapter) Name() model.SourceName { return model.SourcePageCrawl }

func (a *PageCrawlAdapter) Fetch(ctx context.Context, req Request) Result {
	targetURL := req.TargetURLOrKey
	if targetURL == "" {
		return failResult(model.SourcePageCrawl, model.KindAdapterPayloadMalformed, "PAGE_CRAWL: no target URL provided")
	}

	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = a.Priors.AdapterMaxRetries
	}
	var text string
	var title string
	ok, err := withRetry(ctx, maxRetries, func(attempt int) (bool, bool, error) {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
		if reqErr != nil {
			return false, false, reqErr
		}
		httpReq.Header.Set("User-Agent", a.UserAgent)
		resp, doErr := a.Client.Do(httpReq)
		if doErr != nil {
			return false, true, doErr
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return false, true, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		doc, parseErr := goquery.NewDocumentFromReader(resp.Body)
		if parseErr != nil {
			return false, false, parseErr
		}
		title = strings.TrimSpace(doc.Find("title").First().Text())
		text = extractVisibleText(doc)
		return true, false, nil
	})
	if !ok {
		return failResult(model.SourcePageCrawl, model.KindAdapterNetworkError, fmt.Sprintf("PAGE_CRAWL: %v", err))
	}

	rec := Record{
		"url":    targetURL,
		"title":  title,
		"text":   text,
		"source": string(model.SourcePageCrawl),
	}
	return okResult(model.SourcePageCrawl, []Record{rec}, map[string]interface{}{})
}

// extractVisibleText collects text from the page's paragraph, heading,
// and list-item nodes, skipping script/style content.
func extractVisibleText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("p, h1, h2, h3, li").Each(func(_ int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" {
			b.WriteString(t)
			b.WriteString("\n")
		}
	})
	return b.String()
}
