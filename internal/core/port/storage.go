package port

import (
	"context"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

// ParcelRepository stores canonical parcels.
type ParcelRepository interface {
	// FindOrCreate resolves m to an existing parcel by APN+county+state, then by
	// proximity and acreage, and inserts a new parcel otherwise. It is atomic:
	// two concurrent calls for the same property yield the same parcel.
	FindOrCreate(ctx context.Context, m domain.ParcelMatch) (domain.Parcel, bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Parcel, error)
	Search(ctx context.Context, filter domain.ParcelFilter, thresholds domain.Thresholds) (domain.SearchPage, error)
	Count(ctx context.Context) (int, error)
}

// ListingRepository stores listings keyed by (source, external id).
type ListingRepository interface {
	FindByIdentity(ctx context.Context, sourceID, externalID string) (*domain.Listing, error)
	ExistsForParcel(ctx context.Context, parcelID uuid.UUID) (bool, error)
	ListByParcel(ctx context.Context, parcelID uuid.UUID) ([]domain.Listing, error)
	Create(ctx context.Context, listing domain.Listing) error
	Update(ctx context.Context, listing domain.Listing) error
	TouchLastSeen(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}

// FeaturesRepository reads enrichment data. Returns nil, nil when absent.
type FeaturesRepository interface {
	GetByParcel(ctx context.Context, parcelID uuid.UUID) (*domain.Features, error)
}

// FitScoreRepository stores one score snapshot per parcel.
type FitScoreRepository interface {
	Upsert(ctx context.Context, score domain.FitScore) error
	GetByParcel(ctx context.Context, parcelID uuid.UUID) (*domain.FitScore, error)
	CountByTier(ctx context.Context, thresholds domain.Thresholds) (high int, medium int, err error)
}

// ScanRunRepository keeps the append-only history of scan runs.
type ScanRunRepository interface {
	Create(ctx context.Context, run domain.ScanRun) error
	Finish(ctx context.Context, run domain.ScanRun) error
	CreateSource(ctx context.Context, src domain.ScanRunSource) error
	FinishSource(ctx context.Context, src domain.ScanRunSource) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.ScanRun, error)
	ListRecent(ctx context.Context, limit int) ([]domain.ScanRun, error)
	Latest(ctx context.Context) (*domain.ScanRun, error)
}

// DebugLogStore persists diagnostic summaries.
type DebugLogStore interface {
	SaveDebugLog(ctx context.Context, record domain.DebugLogRecord) error
}

// Store groups the repositories the core needs.
type Store struct {
	Parcels   ParcelRepository
	Listings  ListingRepository
	Features  FeaturesRepository
	FitScores FitScoreRepository
	ScanRuns  ScanRunRepository
	DebugLogs DebugLogStore
}
