package usecase

import (
	"context"
	"sync"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

// StartScanUseCase accepts a scan and runs it in the background on a
// service-lifetime context, so shutting the service down cancels it.
type StartScanUseCase struct {
	orchestrator *ScanOrchestrator
	baseCtx      context.Context
	wg           sync.WaitGroup
}

func NewStartScanUseCase(baseCtx context.Context, orchestrator *ScanOrchestrator) *StartScanUseCase {
	return &StartScanUseCase{orchestrator: orchestrator, baseCtx: baseCtx}
}

func (uc *StartScanUseCase) Execute(ctx context.Context, runType domain.RunType) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case": "StartScan",
		"run_type": string(runType),
	})

	cfg, err := uc.orchestrator.configs.Load(ctx)
	if err != nil {
		ucLogger.Error("Failed to load scan config", err, nil)
		return err
	}
	if runType == domain.RunTypeOnDemand && !cfg.Schedules.OnDemandScan.Enabled {
		return domain.ErrOnDemandDisabled
	}

	release, err := uc.orchestrator.acquire()
	if err != nil {
		ucLogger.Warn("Scan rejected", port.Fields{"reason": err.Error()})
		return err
	}

	runCtx := contextkeys.ContextWithLogger(uc.baseCtx, logger)
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		runCtx = contextkeys.ContextWithTraceID(runCtx, traceID)
	}

	uc.wg.Add(1)
	go func() {
		defer uc.wg.Done()
		defer release()

		run, err := uc.orchestrator.run(runCtx, runType, cfg)
		if err != nil {
			ucLogger.Error("Background scan finished with error", err, port.Fields{"scan_run_id": run.ID.String()})
			return
		}
		ucLogger.Info("Background scan finished", port.Fields{
			"scan_run_id": run.ID.String(),
			"status":      string(run.Status),
			"processed":   run.ProcessedCount,
		})
	}()

	ucLogger.Info("Scan started", nil)
	return nil
}

// Wait blocks until every background scan has returned.
func (uc *StartScanUseCase) Wait() {
	uc.wg.Wait()
}
