package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

type GetScanConfigUseCase interface {
	Execute(ctx context.Context) (domain.ScanConfig, error)
}
