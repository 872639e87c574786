package postgres

import (
	"fmt"

	"land-scanner-service/internal/core/port"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewStore builds every repository over one pool.
func NewStore(pool *pgxpool.Pool) (port.Store, error) {
	if pool == nil {
		return port.Store{}, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	parcels, err := NewParcelRepository(pool)
	if err != nil {
		return port.Store{}, err
	}
	listings, err := NewListingRepository(pool)
	if err != nil {
		return port.Store{}, err
	}
	features, err := NewFeaturesRepository(pool)
	if err != nil {
		return port.Store{}, err
	}
	scores, err := NewFitScoreRepository(pool)
	if err != nil {
		return port.Store{}, err
	}
	runs, err := NewScanRunRepository(pool)
	if err != nil {
		return port.Store{}, err
	}
	debugLogs, err := NewDebugLogStore(pool)
	if err != nil {
		return port.Store{}, err
	}
	return port.Store{
		Parcels:   parcels,
		Listings:  listings,
		Features:  features,
		FitScores: scores,
		ScanRuns:  runs,
		DebugLogs: debugLogs,
	}, nil
}
