package hallhallfetcher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	BrowserSourceID   = "hallhall-browser"
	BrowserSourceName = "Hall and Hall (Browser)"
)

// BrowserAdapter renders Hall and Hall pages in headless Chromium before
// parsing them, for listing grids that are built client side.
type BrowserAdapter struct {
	baseURL  string
	renderer pageRenderer
	limiter  *rate.Limiter
}

// NewBrowserAdapter - constructor. The browser itself starts on first use.
// ratePerMin <= 0 disables pacing.
func NewBrowserAdapter(baseURL string, timeout time.Duration, ratePerMin int) *BrowserAdapter {
	return newBrowserAdapter(baseURL, newPlaywrightRenderer(timeout), ratePerMin)
}

func newBrowserAdapter(baseURL string, renderer pageRenderer, ratePerMin int) *BrowserAdapter {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if ratePerMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(ratePerMin)), 1)
	}
	return &BrowserAdapter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		renderer: renderer,
		limiter:  limiter,
	}
}

func (a *BrowserAdapter) ID() string { return BrowserSourceID }

func (a *BrowserAdapter) Name() string { return BrowserSourceName }

// Search renders the listing page and keeps candidates inside the requested
// acreage range. Browser failures are returned.
func (a *BrowserAdapter) Search(ctx context.Context, params domain.SearchParams) ([]domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	diag.Info("Starting Hall and Hall search with browser", port.Fields{
		"states": params.States, "min_acreage": params.MinAcreage, "max_acreage": params.MaxAcreage,
	})
	stop := diag.StartTimer("search")
	defer stop()

	doc, err := a.render(ctx, a.baseURL+searchPath)
	if err != nil {
		diag.Error("Hall and Hall browser search failed", err, nil)
		return nil, fmt.Errorf("hallhall browser adapter: failed to search: %w", err)
	}

	res := scrape.RunCascade(doc, listingStrategies(BrowserSourceID, a.baseURL), diag)
	if len(res.Candidates) == 0 {
		diag.Warn("No property elements found. Page analysis", scrape.AnalyzePage(doc, res.Attempts))
		return []domain.ListingCandidate{}, nil
	}

	inRange := scrape.Narrow(res.Candidates, params, diag)
	diag.Info("Search completed successfully", port.Fields{"strategy": res.Strategy, "count": len(inRange)})
	return inRange, nil
}

func (a *BrowserAdapter) GetDetails(ctx context.Context, listingURL string) (domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	diag.Info("Getting property details with browser", port.Fields{"url": listingURL})
	stop := diag.StartTimer("getDetails")
	defer stop()

	doc, err := a.render(ctx, listingURL)
	if err != nil {
		diag.Error("Hall and Hall browser details failed", err, port.Fields{"url": listingURL})
		return domain.ListingCandidate{}, fmt.Errorf("hallhall browser adapter: failed to get details: %w", err)
	}

	c, _ := scrape.Finalize(pageToCandidate(doc, BrowserSourceID, a.baseURL, listingURL))
	diag.Info("Property details retrieved successfully", nil)
	return c, nil
}

// Close releases the browser.
func (a *BrowserAdapter) Close() error {
	return a.renderer.Close()
}

func (a *BrowserAdapter) render(ctx context.Context, target string) (*goquery.Document, error) {
	diag := diagnostics.FromContext(ctx)
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	diag.Info("Navigating to: "+target, nil)
	stopNav := diag.StartTimer("navigation")
	page, err := a.renderer.Render(ctx, target)
	stopNav()
	if err != nil {
		return nil, err
	}
	if !page.ListingsReady {
		diag.Warn("No property elements found within timeout, proceeding with page analysis", nil)
	}
	diag.Info("Analyzing page content", port.Fields{"content_length": len(page.HTML), "title": page.Title})

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered html: %w", err)
	}
	return doc, nil
}
