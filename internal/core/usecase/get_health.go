package usecase

import (
	"context"
	"fmt"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

type GetHealthUseCase struct {
	store   port.Store
	configs port.ScanConfigProvider
}

func NewGetHealthUseCase(store port.Store, configs port.ScanConfigProvider) *GetHealthUseCase {
	return &GetHealthUseCase{store: store, configs: configs}
}

// Execute gathers dashboard counters. Tier counts use the configured
// thresholds, falling back to the defaults when no config is available.
func (uc *GetHealthUseCase) Execute(ctx context.Context) (domain.HealthStats, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"use_case": "GetHealth"})

	cfg, err := uc.configs.Load(ctx)
	if err != nil {
		ucLogger.Warn("Using default config for health stats", port.Fields{"error": err.Error()})
		cfg = domain.DefaultScanConfig()
	}

	var stats domain.HealthStats
	if stats.LatestScan, err = uc.store.ScanRuns.Latest(ctx); err != nil {
		return domain.HealthStats{}, fmt.Errorf("failed to load latest scan: %w", err)
	}
	if stats.ParcelCount, err = uc.store.Parcels.Count(ctx); err != nil {
		return domain.HealthStats{}, fmt.Errorf("failed to count parcels: %w", err)
	}
	if stats.ListingCount, err = uc.store.Listings.Count(ctx); err != nil {
		return domain.HealthStats{}, fmt.Errorf("failed to count listings: %w", err)
	}
	if stats.HighFitCount, stats.MediumFitCount, err = uc.store.FitScores.CountByTier(ctx, cfg.FitScore.Thresholds); err != nil {
		return domain.HealthStats{}, fmt.Errorf("failed to count fit scores: %w", err)
	}
	stats.SourcesTotal = len(cfg.ListingSources)
	stats.SourcesEnabled = len(cfg.EnabledSources())

	ucLogger.Debug("Health stats collected", port.Fields{"parcels": stats.ParcelCount, "listings": stats.ListingCount})
	return stats, nil
}
