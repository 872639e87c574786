package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/port"
)

type ProbeConnectivityUseCase interface {
	Execute(ctx context.Context, url string) port.ProbeResult
}
