package memory

import (
	"context"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

type FitScoreRepository struct {
	db *db
}

func (r *FitScoreRepository) Upsert(_ context.Context, score domain.FitScore) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.scores[score.ParcelID] = score
	return nil
}

func (r *FitScoreRepository) GetByParcel(_ context.Context, parcelID uuid.UUID) (*domain.FitScore, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	s, ok := r.db.scores[parcelID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *FitScoreRepository) CountByTier(_ context.Context, thresholds domain.Thresholds) (int, int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var high, medium int
	for _, s := range r.db.scores {
		switch {
		case s.OverallScore >= thresholds.High:
			high++
		case s.OverallScore >= thresholds.Medium:
			medium++
		}
	}
	return high, medium, nil
}
