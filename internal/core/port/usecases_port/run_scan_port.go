package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

// RunScanUseCase executes one scan run synchronously and returns its final state.
type RunScanUseCase interface {
	Execute(ctx context.Context, runType domain.RunType) (domain.ScanRun, error)
}

// StartScanUseCase validates the configuration and starts a run in the
// background. It returns once the run has been accepted.
type StartScanUseCase interface {
	Execute(ctx context.Context, runType domain.RunType) error
}
