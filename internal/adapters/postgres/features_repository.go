package postgres

import (
	"context"
	"errors"
	"fmt"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeaturesRepository reads rows written by the enrichment job.
type FeaturesRepository struct {
	pool *pgxpool.Pool
}

func NewFeaturesRepository(pool *pgxpool.Pool) (*FeaturesRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FeaturesRepository{pool: pool}, nil
}

func (r *FeaturesRepository) GetByParcel(ctx context.Context, parcelID uuid.UUID) (*domain.Features, error) {
	var (
		f                         domain.Features
		slopeMean, over20, over40 *float64
		roadAccess, nearestMetro  *string
	)
	err := r.pool.QueryRow(ctx, `SELECT parcel_id, land_cover_mix, slope_mean, slope_pct_over_20, slope_pct_over_40,
			water_presence, water_features, in_floodway, wetlands_percent, road_access,
			metro_distance, nearest_metro, power_distance, water_distance, sewer_distance,
			fiber_distance, gas_distance, easements, soils_quality, updated_at
		FROM features WHERE parcel_id = $1`, parcelID).Scan(
		&f.ParcelID, &f.LandCoverMix, &slopeMean, &over20, &over40,
		&f.WaterPresence, &f.WaterFeatures, &f.InFloodway, &f.WetlandsPercent, &roadAccess,
		&f.MetroDistance, &nearestMetro, &f.PowerDistance, &f.WaterDistance, &f.SewerDistance,
		&f.FiberDistance, &f.GasDistance, &f.Easements, &f.SoilsQuality, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get features for parcel %s: %w", parcelID, err)
	}

	if slopeMean != nil {
		f.SlopeStats = &domain.SlopeStats{Mean: *slopeMean}
		if over20 != nil {
			f.SlopeStats.PercentOver20 = *over20
		}
		if over40 != nil {
			f.SlopeStats.PercentOver40 = *over40
		}
	}
	if roadAccess != nil {
		f.RoadAccess = *roadAccess
	}
	if nearestMetro != nil {
		f.NearestMetro = *nearestMetro
	}
	return &f, nil
}
