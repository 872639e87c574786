package usecase

import (
	"context"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

type GetScanRunsUseCase struct {
	runs port.ScanRunRepository
}

func NewGetScanRunsUseCase(runs port.ScanRunRepository) *GetScanRunsUseCase {
	return &GetScanRunsUseCase{runs: runs}
}

func (uc *GetScanRunsUseCase) Execute(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetScanRuns",
		"limit":    limit,
	})

	runs, err := uc.runs.ListRecent(ctx, limit)
	if err != nil {
		ucLogger.Error("Storage returned an error", err, nil)
		return nil, err
	}
	return runs, nil
}

type GetScanRunUseCase struct {
	runs port.ScanRunRepository
}

func NewGetScanRunUseCase(runs port.ScanRunRepository) *GetScanRunUseCase {
	return &GetScanRunUseCase{runs: runs}
}

func (uc *GetScanRunUseCase) Execute(ctx context.Context, id uuid.UUID) (domain.ScanRun, error) {
	run, err := uc.runs.GetByID(ctx, id)
	if err != nil {
		contextkeys.LoggerFromContext(ctx).Warn("Scan run lookup failed", port.Fields{
			"use_case":    "GetScanRun",
			"scan_run_id": id.String(),
			"error":       err.Error(),
		})
		return domain.ScanRun{}, err
	}
	return run, nil
}
