package usecase

import (
	"context"
	"fmt"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/fitscore"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
)

// Reconciler merges one candidate into the persisted parcel and listing state.
type Reconciler struct {
	store port.Store
	now   func() time.Time
}

func NewReconciler(store port.Store) *Reconciler {
	return &Reconciler{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Reconcile classifies c as new, updated, duplicate or seen. New and updated
// listings get their parcel's fit score recomputed with cfg.
func (r *Reconciler) Reconcile(ctx context.Context, c domain.ListingCandidate, cfg domain.ScanConfig) (domain.ReconcileResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "Reconciler",
		"source_id": c.SourceID,
		"url":       c.URL,
	})

	existing, err := r.store.Listings.FindByIdentity(ctx, c.SourceID, c.IdentityKey())
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("failed to look up listing: %w", err)
	}

	if existing != nil {
		result := domain.ReconcileResult{ParcelID: existing.ParcelID, ListingID: existing.ID}
		if !existing.ChangedFrom(c) {
			if err := r.store.Listings.TouchLastSeen(ctx, existing.ID); err != nil {
				return domain.ReconcileResult{}, fmt.Errorf("failed to touch listing: %w", err)
			}
			result.Outcome = domain.OutcomeSeen
			return result, nil
		}

		existing.ApplyCandidate(c, r.now())
		if err := r.store.Listings.Update(ctx, *existing); err != nil {
			return domain.ReconcileResult{}, fmt.Errorf("failed to update listing: %w", err)
		}
		logger.Debug("Listing changed", port.Fields{"listing_id": existing.ID})

		parcel, err := r.store.Parcels.GetByID(ctx, existing.ParcelID)
		if err != nil {
			return domain.ReconcileResult{}, fmt.Errorf("failed to load parcel %s: %w", existing.ParcelID, err)
		}
		score, err := r.recompute(ctx, parcel, cfg)
		if err != nil {
			return domain.ReconcileResult{}, err
		}
		result.Outcome = domain.OutcomeUpdated
		result.ScoreComputed = true
		result.Score = &score
		return result, nil
	}

	parcel, created, err := r.store.Parcels.FindOrCreate(ctx, domain.NewParcelMatch(c))
	if err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("failed to resolve parcel: %w", err)
	}

	if !created {
		attached, err := r.store.Listings.ExistsForParcel(ctx, parcel.ID)
		if err != nil {
			return domain.ReconcileResult{}, fmt.Errorf("failed to check parcel listings: %w", err)
		}
		if attached {
			logger.Debug("Parcel already has a listing", port.Fields{"parcel_id": parcel.ID})
			return domain.ReconcileResult{Outcome: domain.OutcomeDuplicate, ParcelID: parcel.ID}, nil
		}
	}

	listing := domain.NewListing(c, parcel.ID, r.now())
	if err := r.store.Listings.Create(ctx, listing); err != nil {
		return domain.ReconcileResult{}, fmt.Errorf("failed to create listing: %w", err)
	}

	score, err := r.recompute(ctx, parcel, cfg)
	if err != nil {
		return domain.ReconcileResult{}, err
	}
	return domain.ReconcileResult{
		Outcome:       domain.OutcomeNew,
		ParcelID:      parcel.ID,
		ListingID:     listing.ID,
		ScoreComputed: true,
		Score:         &score,
	}, nil
}

func (r *Reconciler) recompute(ctx context.Context, parcel domain.Parcel, cfg domain.ScanConfig) (domain.FitScore, error) {
	features, err := r.store.Features.GetByParcel(ctx, parcel.ID)
	if err != nil {
		return domain.FitScore{}, fmt.Errorf("failed to load features: %w", err)
	}
	score := domain.FitScore{
		ParcelID:       parcel.ID,
		FitScoreResult: fitscore.Calculate(parcel, features, cfg),
		ComputedAt:     r.now(),
	}
	if err := r.store.FitScores.Upsert(ctx, score); err != nil {
		return domain.FitScore{}, fmt.Errorf("failed to save fit score for parcel %s: %w", parcel.ID, err)
	}
	return score, nil
}

// scoredEvent builds the event published after a recompute.
func scoredEvent(s domain.FitScore, runID uuid.UUID, t domain.Thresholds) domain.ParcelScoredEvent {
	return domain.ParcelScoredEvent{
		ParcelID:     s.ParcelID,
		ScanRunID:    runID,
		OverallScore: s.OverallScore,
		Tier:         fitscore.Tier(s.OverallScore, t),
		AutoFailed:   s.AutoFailed,
		TopReasons:   s.TopReasons,
		ComputedAt:   s.ComputedAt,
	}
}
