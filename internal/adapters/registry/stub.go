package registry

import (
	"context"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// StubAdapter stands in for a source that has no scraper yet. Search finds
// nothing and GetDetails returns a placeholder listing.
type StubAdapter struct {
	id   string
	name string
}

func NewStubAdapter(id, name string) *StubAdapter {
	return &StubAdapter{id: id, name: name}
}

func (s *StubAdapter) ID() string { return s.id }

func (s *StubAdapter) Name() string { return s.name }

func (s *StubAdapter) Search(ctx context.Context, _ domain.SearchParams) ([]domain.ListingCandidate, error) {
	diagnostics.FromContext(ctx).Info("Stub adapter returns no listings", port.Fields{"adapter": s.id})
	return []domain.ListingCandidate{}, nil
}

func (s *StubAdapter) GetDetails(_ context.Context, url string) (domain.ListingCandidate, error) {
	return domain.ListingCandidate{
		SourceID: s.id,
		URL:      url,
		Title:    "Stub Listing",
		Acreage:  100,
		County:   domain.UnknownLocation,
		State:    domain.UnknownLocation,
		Status:   domain.ListingStatusListed,
	}, nil
}
