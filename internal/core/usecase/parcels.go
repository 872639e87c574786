package usecase

import (
	"context"
	"fmt"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
)

const (
	defaultParcelLimit = 20
	maxParcelLimit     = 100
)

type SearchParcelsUseCase struct {
	parcels port.ParcelRepository
	configs port.ScanConfigProvider
}

func NewSearchParcelsUseCase(parcels port.ParcelRepository, configs port.ScanConfigProvider) *SearchParcelsUseCase {
	return &SearchParcelsUseCase{parcels: parcels, configs: configs}
}

func (uc *SearchParcelsUseCase) Execute(ctx context.Context, filter domain.ParcelFilter) (domain.SearchPage, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultParcelLimit
	}
	if filter.Limit > maxParcelLimit {
		filter.Limit = maxParcelLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchParcels",
		"state":    filter.State,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
	ucLogger.Info("Use case started", nil)

	thresholds := domain.DefaultScanConfig().FitScore.Thresholds
	if cfg, err := uc.configs.Load(ctx); err == nil {
		thresholds = cfg.FitScore.Thresholds
	}

	page, err := uc.parcels.Search(ctx, filter, thresholds)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return domain.SearchPage{}, err
	}

	ucLogger.Info("Use case finished successfully", port.Fields{
		"total_found":   page.Total,
		"items_on_page": len(page.Items),
	})
	return page, nil
}

type GetParcelDetailsUseCase struct {
	store port.Store
}

func NewGetParcelDetailsUseCase(store port.Store) *GetParcelDetailsUseCase {
	return &GetParcelDetailsUseCase{store: store}
}

func (uc *GetParcelDetailsUseCase) Execute(ctx context.Context, id uuid.UUID) (domain.ParcelDetails, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":  "GetParcelDetails",
		"parcel_id": id.String(),
	})

	parcel, err := uc.store.Parcels.GetByID(ctx, id)
	if err != nil {
		ucLogger.Warn("Parcel lookup failed", port.Fields{"error": err.Error()})
		return domain.ParcelDetails{}, err
	}

	details := domain.ParcelDetails{Parcel: parcel}
	if details.Listings, err = uc.store.Listings.ListByParcel(ctx, id); err != nil {
		return domain.ParcelDetails{}, fmt.Errorf("failed to load listings: %w", err)
	}
	if details.Features, err = uc.store.Features.GetByParcel(ctx, id); err != nil {
		return domain.ParcelDetails{}, fmt.Errorf("failed to load features: %w", err)
	}
	if details.FitScore, err = uc.store.FitScores.GetByParcel(ctx, id); err != nil {
		return domain.ParcelDetails{}, fmt.Errorf("failed to load fit score: %w", err)
	}
	return details, nil
}
