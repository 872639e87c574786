package landwatchfetcher

import (
	"context"
	"fmt"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// GetDetails fetches a single listing page.
func (a *LandWatchFetcherAdapter) GetDetails(ctx context.Context, listingURL string) (domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	diag.Info("Getting LandWatch listing details", port.Fields{"url": listingURL})
	stop := diag.StartTimer("landwatch-details")
	defer stop()

	doc, err := scrape.FetchDocument(ctx, a.collector, listingURL)
	if err != nil {
		diag.Error("LandWatch details request failed", err, port.Fields{"url": listingURL})
		return domain.ListingCandidate{}, fmt.Errorf("landwatch adapter: failed to get details: %w", err)
	}

	c, complete := scrape.Finalize(a.pageToCandidate(doc, listingURL))
	if !complete {
		diag.Warn("LandWatch listing page is missing title or acreage", port.Fields{"url": listingURL})
	}
	return c, nil
}
