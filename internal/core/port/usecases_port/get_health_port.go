package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

type GetHealthUseCase interface {
	Execute(ctx context.Context) (domain.HealthStats, error)
}
