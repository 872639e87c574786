package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

// CollectorConfig configures the parent collector of an HTML adapter.
type CollectorConfig struct {
	BaseURL     string
	Timeout     time.Duration
	RandomDelay time.Duration
}

// NewCollector builds the parent collector an adapter clones per request.
func NewCollector(cfg CollectorConfig) (*colly.Collector, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Hostname() == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	c := colly.NewCollector(colly.AllowedDomains(allowedDomains(base.Hostname())...), colly.AllowURLRevisit())
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: cfg.RandomDelay,
	}); err != nil {
		return nil, fmt.Errorf("failed to set limit rule: %w", err)
	}
	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}
	return c, nil
}

func allowedDomains(host string) []string {
	bare := strings.TrimPrefix(host, "www.")
	return []string{bare, "www." + bare}
}

// FetchDocument visits target with a clone of parent and parses the body.
// Transport errors and non-2xx statuses are returned as errors.
func FetchDocument(ctx context.Context, parent *colly.Collector, target string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	diag := diagnostics.FromContext(ctx)
	collector := parent.Clone()
	// clones do not inherit callbacks
	extensions.RandomUserAgent(collector)
	extensions.Referer(collector)

	var (
		doc         *goquery.Document
		responseErr error
		status      int
	)

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		diag.Debug("Making request", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			responseErr = fmt.Errorf("failed to parse html from %s: %w", target, err)
			return
		}
		doc = parsed
	})

	collector.OnError(func(r *colly.Response, err error) {
		responseErr = &domain.FetchError{URL: r.Request.URL.String(), StatusCode: r.StatusCode, Err: err}
	})

	stop := diag.StartTimer("fetch")
	err := collector.Visit(target)
	collector.Wait()
	stop()

	if responseErr != nil {
		return nil, responseErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", target, err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if doc == nil {
		return nil, fmt.Errorf("empty response from %s", target)
	}
	diag.Debug("Response received", port.Fields{"url": target, "status": status})
	return doc, nil
}
