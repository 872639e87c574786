package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/port"
)

type ListAdaptersUseCase interface {
	Execute(ctx context.Context) []port.AdapterInfo
}
