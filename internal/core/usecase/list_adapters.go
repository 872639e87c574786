package usecase

import (
	"context"

	"land-scanner-service/internal/core/port"
)

type ListAdaptersUseCase struct {
	registry port.AdapterRegistry
}

func NewListAdaptersUseCase(registry port.AdapterRegistry) *ListAdaptersUseCase {
	return &ListAdaptersUseCase{registry: registry}
}

func (uc *ListAdaptersUseCase) Execute(_ context.Context) []port.AdapterInfo {
	return uc.registry.List()
}
