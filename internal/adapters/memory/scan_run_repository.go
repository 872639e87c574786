package memory

import (
	"context"
	"fmt"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

type ScanRunRepository struct {
	db *db
}

func (r *ScanRunRepository) Create(_ context.Context, run domain.ScanRun) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	run.Sources = nil
	r.db.runs = append(r.db.runs, run)
	return nil
}

// Finish rejects runs that already reached a terminal state.
func (r *ScanRunRepository) Finish(_ context.Context, run domain.ScanRun) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.runs {
		if r.db.runs[i].ID != run.ID {
			continue
		}
		if r.db.runs[i].Status.Terminal() {
			return fmt.Errorf("scan run %s is already %s", run.ID, r.db.runs[i].Status)
		}
		run.Sources = nil
		r.db.runs[i] = run
		return nil
	}
	return domain.ErrScanRunNotFound
}

func (r *ScanRunRepository) CreateSource(_ context.Context, src domain.ScanRunSource) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.runSources = append(r.db.runSources, src)
	return nil
}

func (r *ScanRunRepository) FinishSource(_ context.Context, src domain.ScanRunSource) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i := range r.db.runSources {
		if r.db.runSources[i].ID == src.ID {
			r.db.runSources[i] = src
			return nil
		}
	}
	return domain.ErrScanRunNotFound
}

func (r *ScanRunRepository) GetByID(_ context.Context, id uuid.UUID) (domain.ScanRun, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, run := range r.db.runs {
		if run.ID == id {
			run.Sources = r.sourcesLocked(id)
			return run, nil
		}
	}
	return domain.ScanRun{}, domain.ErrScanRunNotFound
}

func (r *ScanRunRepository) sourcesLocked(runID uuid.UUID) []domain.ScanRunSource {
	out := make([]domain.ScanRunSource, 0)
	for _, s := range r.db.runSources {
		if s.ScanRunID == runID {
			out = append(out, s)
		}
	}
	return out
}

// ListRecent returns the newest runs first.
func (r *ScanRunRepository) ListRecent(_ context.Context, limit int) ([]domain.ScanRun, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.ScanRun, 0, limit)
	for i := len(r.db.runs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, r.db.runs[i])
	}
	return out, nil
}

func (r *ScanRunRepository) Latest(_ context.Context) (*domain.ScanRun, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if len(r.db.runs) == 0 {
		return nil, nil
	}
	latest := r.db.runs[len(r.db.runs)-1]
	return &latest, nil
}
