package memory

import (
	"context"
	"fmt"
	"time"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

type ListingRepository struct {
	db *db
}

func (r *ListingRepository) FindByIdentity(_ context.Context, sourceID, externalID string) (*domain.Listing, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, l := range r.db.listings {
		if l.SourceID == sourceID && l.ExternalID == externalID {
			found := l
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ListingRepository) ExistsForParcel(_ context.Context, parcelID uuid.UUID) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, l := range r.db.listings {
		if l.ParcelID == parcelID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ListingRepository) ListByParcel(_ context.Context, parcelID uuid.UUID) ([]domain.Listing, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Listing, 0)
	for _, l := range r.db.listings {
		if l.ParcelID == parcelID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *ListingRepository) Create(_ context.Context, listing domain.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, l := range r.db.listings {
		if l.SourceID == listing.SourceID && l.ExternalID == listing.ExternalID {
			return fmt.Errorf("listing %s/%s already exists", listing.SourceID, listing.ExternalID)
		}
	}
	r.db.listings = append(r.db.listings, listing)
	return nil
}

func (r *ListingRepository) Update(_ context.Context, listing domain.Listing) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.listings {
		if r.db.listings[i].ID == listing.ID {
			r.db.listings[i] = listing
			return nil
		}
	}
	return domain.ErrListingNotFound
}

func (r *ListingRepository) TouchLastSeen(_ context.Context, id uuid.UUID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.listings {
		if r.db.listings[i].ID == id {
			r.db.listings[i].LastSeenAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrListingNotFound
}

func (r *ListingRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.listings), nil
}
