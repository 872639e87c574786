package hallhallfetcher

import (
	"context"
	"fmt"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// GetDetails fetches a listing page. Unlike Search, failures are returned.
func (a *HallHallFetcherAdapter) GetDetails(ctx context.Context, listingURL string) (domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	diag.Info("Getting Hall and Hall listing details", port.Fields{"url": listingURL})
	stop := diag.StartTimer("hallhall-details")
	defer stop()

	doc, err := scrape.FetchDocument(ctx, a.collector, listingURL)
	if err != nil {
		diag.Error("Hall and Hall details request failed", err, port.Fields{"url": listingURL})
		return domain.ListingCandidate{}, fmt.Errorf("hallhall adapter: failed to get details: %w", err)
	}

	c, _ := scrape.Finalize(pageToCandidate(doc, SourceID, a.baseURL, listingURL))
	return c, nil
}
