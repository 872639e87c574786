package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

type GetScanRunsUseCase interface {
	Execute(ctx context.Context, limit int) ([]domain.ScanRun, error)
}

type GetScanRunUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (domain.ScanRun, error)
}
