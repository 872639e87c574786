package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/domain"

	"github.com/google/uuid"
)

type SearchParcelsUseCase interface {
	Execute(ctx context.Context, filter domain.ParcelFilter) (domain.SearchPage, error)
}

type GetParcelDetailsUseCase interface {
	Execute(ctx context.Context, id uuid.UUID) (domain.ParcelDetails, error)
}
