package memory

import (
	"context"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

// FeaturesRepository is read-only for the core. Put seeds it.
type FeaturesRepository struct {
	db *db
}

func (r *FeaturesRepository) GetByParcel(_ context.Context, parcelID uuid.UUID) (*domain.Features, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	f, ok := r.db.features[parcelID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

// Put stores enrichment data the way the external enrichment job would.
func (r *FeaturesRepository) Put(f domain.Features) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.features[f.ParcelID] = f
}
