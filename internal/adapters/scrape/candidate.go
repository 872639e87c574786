package scrape

import (
	"net/url"
	"strings"

	"land-scanner-service/internal/core/domain"
)

// NewCandidate starts a candidate with the defaults every source shares.
func NewCandidate(sourceID, listingURL string) domain.ListingCandidate {
	return domain.ListingCandidate{
		SourceID: sourceID,
		URL:      listingURL,
		County:   domain.UnknownLocation,
		State:    domain.UnknownLocation,
		Status:   domain.ListingStatusListed,
	}
}

// Finalize normalises text fields and derives price per acre. ok is false
// when the candidate has no title or no positive acreage.
func Finalize(c domain.ListingCandidate) (domain.ListingCandidate, bool) {
	c.Title = CleanText(c.Title)
	c.Description = CleanText(c.Description)
	c.Address = CleanText(c.Address)
	c.ExternalID = strings.TrimSpace(c.ExternalID)
	c.URL = strings.TrimSpace(c.URL)
	if c.County == "" {
		c.County = domain.UnknownLocation
	}
	if c.State == "" {
		c.State = domain.UnknownLocation
	}
	if !c.Status.Valid() {
		c.Status = domain.ListingStatusListed
	}

	c.PricePerAcre = nil
	if c.Price != nil && *c.Price > 0 && c.Acreage > 0 {
		ppa := *c.Price / c.Acreage
		c.PricePerAcre = &ppa
	}
	return c, c.Title != "" && c.Acreage > 0
}

// FilterByAcreage keeps candidates with acreage in [min, max]. A zero bound
// is treated as unbounded.
func FilterByAcreage(cands []domain.ListingCandidate, min, max float64) []domain.ListingCandidate {
	out := make([]domain.ListingCandidate, 0, len(cands))
	for _, c := range cands {
		if min > 0 && c.Acreage < min {
			continue
		}
		if max > 0 && c.Acreage > max {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ResolveURL turns href into an absolute URL against base. Empty href gives "".
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
