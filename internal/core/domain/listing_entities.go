package domain

import (
	"time"

	"github.com/google/uuid"
)

// Listing is one source's offer for a parcel.
// Identity is (SourceID, ExternalID) where ExternalID falls back to the URL.
type Listing struct {
	ID            uuid.UUID              `json:"id"`
	ParcelID      uuid.UUID              `json:"parcelId"`
	SourceID      string                 `json:"sourceId"`
	ExternalID    string                 `json:"externalId"`
	URL           string                 `json:"url"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	Price         *float64               `json:"price,omitempty"`
	PricePerAcre  *float64               `json:"pricePerAcre,omitempty"`
	Status        ListingStatus          `json:"status"`
	Photos        []string               `json:"photos,omitempty"`
	SourceData    map[string]interface{} `json:"sourceData,omitempty"`
	FirstSeenAt   time.Time              `json:"firstSeenAt"`
	LastSeenAt    time.Time              `json:"lastSeenAt"`
	LastChangedAt time.Time              `json:"lastChangedAt"`
}

// NewListing attaches a fresh listing built from c to the parcel.
func NewListing(c ListingCandidate, parcelID uuid.UUID, now time.Time) Listing {
	return Listing{
		ID:            uuid.New(),
		ParcelID:      parcelID,
		SourceID:      c.SourceID,
		ExternalID:    c.IdentityKey(),
		URL:           c.URL,
		Title:         c.Title,
		Description:   c.Description,
		Price:         c.Price,
		PricePerAcre:  c.PricePerAcre,
		Status:        c.Status,
		Photos:        c.Photos,
		SourceData:    c.Metadata,
		FirstSeenAt:   now,
		LastSeenAt:    now,
		LastChangedAt: now,
	}
}

// ChangedFrom reports whether the core fields differ from the candidate:
// title, description, price and status.
func (l Listing) ChangedFrom(c ListingCandidate) bool {
	if l.Title != c.Title || l.Description != c.Description || l.Status != c.Status {
		return true
	}
	return !equalPrice(l.Price, c.Price)
}

// ApplyCandidate copies the mutable fields from c and bumps both timestamps.
func (l *Listing) ApplyCandidate(c ListingCandidate, now time.Time) {
	l.Title = c.Title
	l.Description = c.Description
	l.Price = c.Price
	l.PricePerAcre = c.PricePerAcre
	l.Status = c.Status
	l.Photos = c.Photos
	l.LastSeenAt = now
	l.LastChangedAt = now
}

func equalPrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ReconcileOutcome classifies what reconciliation did with a candidate.
type ReconcileOutcome string

const (
	OutcomeNew       ReconcileOutcome = "new"
	OutcomeUpdated   ReconcileOutcome = "updated"
	OutcomeDuplicate ReconcileOutcome = "duplicate"
	// OutcomeSeen: listing already known and unchanged, only lastSeenAt moved.
	OutcomeSeen ReconcileOutcome = "seen"
)

// ReconcileResult is returned for every reconciled candidate.
type ReconcileResult struct {
	Outcome       ReconcileOutcome
	ParcelID      uuid.UUID
	ListingID     uuid.UUID
	ScoreComputed bool
	Score         *FitScore
}
