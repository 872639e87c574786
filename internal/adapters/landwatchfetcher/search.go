package landwatchfetcher

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// Search fetches one result page. An empty page yields an empty slice.
func (a *LandWatchFetcherAdapter) Search(ctx context.Context, params domain.SearchParams) ([]domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	searchURL := a.searchURL(params)
	diag.Info("Starting LandWatch search", port.Fields{"url": searchURL, "states": params.States})
	stop := diag.StartTimer("landwatch-search")
	defer stop()

	doc, err := scrape.FetchDocument(ctx, a.collector, searchURL)
	if err != nil {
		diag.Error("LandWatch search request failed", err, port.Fields{"url": searchURL})
		return nil, fmt.Errorf("landwatch adapter: failed to search: %w", err)
	}

	res := scrape.RunCascade(doc, a.strategies(), diag)
	if len(res.Candidates) == 0 {
		diag.Warn("No listings found on LandWatch page", scrape.AnalyzePage(doc, res.Attempts))
		return []domain.ListingCandidate{}, nil
	}

	cands := scrape.Narrow(res.Candidates, params, diag)
	diag.Info("LandWatch search completed", port.Fields{"strategy": res.Strategy, "count": len(cands)})
	return cands, nil
}

func (a *LandWatchFetcherAdapter) searchURL(params domain.SearchParams) string {
	states := make([]string, len(params.States))
	for i, s := range params.States {
		states[i] = strings.ToLower(strings.TrimSpace(s))
	}

	q := url.Values{}
	q.Set("minacres", formatAcres(params.MinAcreage))
	q.Set("maxacres", formatAcres(params.MaxAcreage))
	q.Set("page", strconv.Itoa(params.PageOrDefault()))

	return fmt.Sprintf("%s/%s/land?%s", a.baseURL, strings.Join(states, ","), q.Encode())
}

func formatAcres(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (a *LandWatchFetcherAdapter) strategies() []scrape.SelectorStrategy {
	return []scrape.SelectorStrategy{
		{Name: "property-card", Selector: ".property-card", Extract: a.cardToCandidate},
		{Name: "data-property-id", Selector: "[data-property-id]", Extract: a.cardToCandidate},
		{Name: "listing-card", Selector: ".listing-card", Extract: scrape.GenericExtractor(SourceID, a.baseURL)},
	}
}
