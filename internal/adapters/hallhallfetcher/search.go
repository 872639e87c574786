package hallhallfetcher

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// Search never returns an error: request and parse failures yield an empty
// slice and an error entry in the diagnostics log.
func (a *HallHallFetcherAdapter) Search(ctx context.Context, params domain.SearchParams) ([]domain.ListingCandidate, error) {
	diag := diagnostics.FromContext(ctx)
	searchURL := a.searchURL(params)
	diag.Info("Starting Hall and Hall search", port.Fields{"url": searchURL})
	stop := diag.StartTimer("hallhall-search")
	defer stop()

	doc, err := scrape.FetchDocument(ctx, a.collector, searchURL)
	if err != nil {
		diag.Error("Hall and Hall search failed, returning no listings", err, port.Fields{"url": searchURL})
		return []domain.ListingCandidate{}, nil
	}

	res := scrape.RunCascade(doc, listingStrategies(SourceID, a.baseURL), diag)
	if len(res.Candidates) == 0 {
		diag.Warn("No listings found on Hall and Hall page", scrape.AnalyzePage(doc, res.Attempts))
		return []domain.ListingCandidate{}, nil
	}

	cands := scrape.Narrow(res.Candidates, params, diag)
	diag.Info("Hall and Hall search completed", port.Fields{"strategy": res.Strategy, "count": len(cands)})
	return cands, nil
}

func (a *HallHallFetcherAdapter) searchURL(params domain.SearchParams) string {
	q := url.Values{}
	q.Set("min_acres", strconv.FormatFloat(params.MinAcreage, 'f', -1, 64))
	q.Set("max_acres", strconv.FormatFloat(params.MaxAcreage, 'f', -1, 64))
	q.Set("states", strings.Join(params.States, ","))
	q.Set("page", strconv.Itoa(params.PageOrDefault()))
	return a.baseURL + searchPath + "?" + q.Encode()
}

// listingStrategies is the cascade shared by the HTTP and browser adapters.
func listingStrategies(sourceID, baseURL string) []scrape.SelectorStrategy {
	extract := scrape.GenericExtractor(sourceID, baseURL)
	selectors := []struct{ name, selector string }{
		{"ranch-listing", ".ranch-listing"},
		{"property-item", ".property-item"},
		{"property-card", ".property-card"},
		{"data-attributes", "[data-property], [data-listing], [data-listing-id]"},
		{"article", "article"},
		{"listing", ".listing"},
		{"card", ".card"},
		{"class-listing", `div[class*="listing"]`},
		{"class-ranch", `div[class*="ranch"]`},
		{"class-property", `div[class*="property"]`},
	}
	out := make([]scrape.SelectorStrategy, 0, len(selectors))
	for _, s := range selectors {
		out = append(out, scrape.SelectorStrategy{Name: s.name, Selector: s.selector, Extract: extract})
	}
	return out
}
