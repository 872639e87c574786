package port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

// SourceAdapter fetches and parses one listing portal or broker site.
//
// Search returns an empty slice, not an error, when the source has no
// matching listings. Transport and parse failures are returned as errors
// unless the adapter degrades gracefully by policy.
type SourceAdapter interface {
	ID() string
	Name() string
	Search(ctx context.Context, params domain.SearchParams) ([]domain.ListingCandidate, error)
	GetDetails(ctx context.Context, url string) (domain.ListingCandidate, error)
}

// ClosableAdapter is implemented by adapters that own resources such as a browser.
type ClosableAdapter interface {
	SourceAdapter
	Close() error
}

// AdapterStatus is a hand-maintained health label.
type AdapterStatus string

const (
	AdapterWorking AdapterStatus = "working"
	AdapterPartial AdapterStatus = "partial"
	AdapterStub    AdapterStatus = "stub"
	AdapterBroken  AdapterStatus = "broken"
)

// AdapterInfo describes a registered adapter.
type AdapterInfo struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status AdapterStatus `json:"status"`
}

// AdapterRegistry resolves source identifiers to adapters.
type AdapterRegistry interface {
	Get(id string) (SourceAdapter, bool)
	List() []AdapterInfo
}
