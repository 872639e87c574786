package usecase

import (
	"context"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

type GetScanConfigUseCase struct {
	configs port.ScanConfigProvider
}

func NewGetScanConfigUseCase(configs port.ScanConfigProvider) *GetScanConfigUseCase {
	return &GetScanConfigUseCase{configs: configs}
}

func (uc *GetScanConfigUseCase) Execute(ctx context.Context) (domain.ScanConfig, error) {
	return uc.configs.Load(ctx)
}
