// Package memory keeps every repository in process memory. It backs the
// use-case tests and STORAGE_BACKEND=memory.
package memory

import (
	"sync"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
)

type db struct {
	mu sync.RWMutex

	parcels      []domain.Parcel
	listings     []domain.Listing
	features     map[uuid.UUID]domain.Features
	scores       map[uuid.UUID]domain.FitScore
	runs         []domain.ScanRun
	runSources   []domain.ScanRunSource
	debugRecords []domain.DebugLogRecord
}

// Store owns the shared state behind all repositories.
type Store struct {
	db *db

	Parcels   *ParcelRepository
	Listings  *ListingRepository
	Features  *FeaturesRepository
	FitScores *FitScoreRepository
	ScanRuns  *ScanRunRepository
	DebugLogs *DebugLogStore
}

func NewStore() *Store {
	d := &db{
		features: make(map[uuid.UUID]domain.Features),
		scores:   make(map[uuid.UUID]domain.FitScore),
	}
	return &Store{
		db:        d,
		Parcels:   &ParcelRepository{db: d},
		Listings:  &ListingRepository{db: d},
		Features:  &FeaturesRepository{db: d},
		FitScores: &FitScoreRepository{db: d},
		ScanRuns:  &ScanRunRepository{db: d},
		DebugLogs: &DebugLogStore{db: d},
	}
}

// Ports returns the store as the core's repository bundle.
func (s *Store) Ports() port.Store {
	return port.Store{
		Parcels:   s.Parcels,
		Listings:  s.Listings,
		Features:  s.Features,
		FitScores: s.FitScores,
		ScanRuns:  s.ScanRuns,
		DebugLogs: s.DebugLogs,
	}
}

// DebugRecords returns a copy of everything persisted through DebugLogs.
func (s *Store) DebugRecords() []domain.DebugLogRecord {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	out := make([]domain.DebugLogRecord, len(s.db.debugRecords))
	copy(out, s.db.debugRecords)
	return out
}
