package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "land-scanner-service/usecase"

// ScanOrchestrator drives one scan run across all enabled sources. Sources
// and their candidates are processed sequentially; at most one run is active
// per orchestrator.
type ScanOrchestrator struct {
	configs    port.ScanConfigProvider
	registry   port.AdapterRegistry
	store      port.Store
	reconciler *Reconciler
	events     port.ScanEventsPort
	sleeper    port.Sleeper
	tracer     trace.Tracer

	running atomic.Bool
}

func NewScanOrchestrator(
	configs port.ScanConfigProvider,
	registry port.AdapterRegistry,
	store port.Store,
	events port.ScanEventsPort,
	sleeper port.Sleeper,
) *ScanOrchestrator {
	if sleeper == nil {
		sleeper = TimerSleeper{}
	}
	return &ScanOrchestrator{
		configs:    configs,
		registry:   registry,
		store:      store,
		reconciler: NewReconciler(store),
		events:     events,
		sleeper:    sleeper,
		tracer:     otel.Tracer(tracerName),
	}
}

// Running reports whether a run is in progress.
func (o *ScanOrchestrator) Running() bool {
	return o.running.Load()
}

// Execute loads the configuration and runs a scan to completion.
func (o *ScanOrchestrator) Execute(ctx context.Context, runType domain.RunType) (domain.ScanRun, error) {
	cfg, err := o.configs.Load(ctx)
	if err != nil {
		return domain.ScanRun{}, err
	}
	release, err := o.acquire()
	if err != nil {
		return domain.ScanRun{}, err
	}
	defer release()
	return o.run(ctx, runType, cfg)
}

func (o *ScanOrchestrator) acquire() (func(), error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, domain.ErrScanAlreadyRunning
	}
	return func() { o.running.Store(false) }, nil
}

// scanTally accumulates the run counters and the parcels scored on the way.
type scanTally struct {
	run           *domain.ScanRun
	failedSources []string
	scoredOrder   []uuid.UUID
	scored        map[uuid.UUID]domain.FitScore
}

func (t *scanTally) addScore(s domain.FitScore) {
	if _, seen := t.scored[s.ParcelID]; !seen {
		t.scoredOrder = append(t.scoredOrder, s.ParcelID)
	}
	t.scored[s.ParcelID] = s
}

func (o *ScanOrchestrator) run(ctx context.Context, runType domain.RunType, cfg domain.ScanConfig) (domain.ScanRun, error) {
	ctx, span := o.tracer.Start(ctx, "ScanOrchestrator.RunScan",
		trace.WithAttributes(attribute.String("scan.run_type", string(runType))))
	defer span.End()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "RunScan",
		"run_type": string(runType),
	})
	diag := diagnostics.New("scan-"+string(runType), logger)
	ctx = diagnostics.WithLogger(ctx, diag)

	run := domain.NewScanRun(runType)
	if err := o.store.ScanRuns.Create(ctx, run); err != nil {
		diag.Error("Failed to create scan run", err, nil)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create scan run")
		return domain.ScanRun{}, fmt.Errorf("failed to create scan run: %w", err)
	}
	span.SetAttributes(attribute.String("scan.run_id", run.ID.String()))
	diag.Info(fmt.Sprintf("Starting %s scan", runType), port.Fields{"scan_run_id": run.ID.String()})

	tally := &scanTally{run: &run, scored: make(map[uuid.UUID]domain.FitScore)}
	loopErr := o.scanSources(ctx, cfg, tally)

	completed := time.Now().UTC()
	run.CompletedAt = &completed
	if loopErr != nil {
		run.Status = domain.ScanStatusFailed
		run.Errors = append(run.Errors, domain.ScanError{Source: "scan", Error: loopErr.Error()})
		diag.Error("Scan failed", loopErr, nil)
		span.RecordError(loopErr)
		span.SetStatus(codes.Error, loopErr.Error())
	} else {
		run.Status = domain.ScanStatusCompleted
		diag.Info(fmt.Sprintf("Scan completed: %d processed, %d new, %d updated",
			run.ProcessedCount, run.NewCount, run.UpdatedCount), nil)
	}
	span.SetAttributes(
		attribute.Int("scan.processed", run.ProcessedCount),
		attribute.Int("scan.new", run.NewCount),
		attribute.Int("scan.errors", run.ErrorCount),
	)

	// the run must be recorded even when ctx was cancelled
	finishCtx := context.WithoutCancel(ctx)
	if err := o.store.ScanRuns.Finish(finishCtx, run); err != nil {
		diag.Error("Failed to finish scan run", err, nil)
		return run, fmt.Errorf("failed to finish scan run: %w", err)
	}

	o.publish(finishCtx, run, cfg, tally)
	diag.Persist(finishCtx, o.store.DebugLogs, &run.ID)

	if loopErr != nil {
		return run, loopErr
	}
	return run, nil
}

// scanSources turns a panic into a run-level failure.
func (o *ScanOrchestrator) scanSources(ctx context.Context, cfg domain.ScanConfig, tally *scanTally) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scan panicked: %v", r)
		}
	}()

	sources := cfg.EnabledSources()
	params := cfg.SearchParams()
	for i, src := range sources {
		if ctx.Err() != nil {
			return domain.ErrScanCancelled
		}

		resolved, err := o.scanSource(ctx, src, params, cfg, tally)
		if err != nil {
			return err
		}
		if !resolved || i == len(sources)-1 {
			continue
		}

		if pause := pacing(src.RateLimitPerMin); pause > 0 {
			if err := o.sleeper.Sleep(ctx, pause); err != nil {
				return domain.ErrScanCancelled
			}
		}
	}
	return nil
}

// pacing is the fixed pause after a source: one minute divided by its rate.
func pacing(ratePerMin int) time.Duration {
	if ratePerMin <= 0 {
		return 0
	}
	return time.Minute / time.Duration(ratePerMin)
}

// scanSource processes one source. It reports false when no adapter is
// registered for it. Only cancellation is returned as an error; every other
// failure is recorded on the run.
func (o *ScanOrchestrator) scanSource(ctx context.Context, src domain.ListingSource, params domain.SearchParams, cfg domain.ScanConfig, tally *scanTally) (bool, error) {
	ctx, span := o.tracer.Start(ctx, "ScanOrchestrator.ScanSource",
		trace.WithAttributes(attribute.String("scan.source_id", src.ID)))
	defer span.End()

	diag := diagnostics.FromContext(ctx)
	run := tally.run

	srcRun := domain.NewScanRunSource(run.ID, src.ID)
	if err := o.store.ScanRuns.CreateSource(ctx, srcRun); err != nil {
		diag.Error("Failed to create source run", err, port.Fields{"source": src.ID})
		run.Errors = append(run.Errors, domain.ScanError{Source: src.Name, Error: err.Error()})
		tally.failedSources = append(tally.failedSources, src.ID)
		return true, nil
	}

	adapterID := src.Adapter
	if adapterID == "" {
		adapterID = src.ID
	}
	adapter, ok := o.registry.Get(adapterID)
	if !ok {
		diag.Warn(fmt.Sprintf("No adapter found for %s", src.Name), port.Fields{"adapter": adapterID})
		o.finishSource(ctx, srcRun, domain.ScanStatusFailed, domain.ErrAdapterNotFound.Error())
		return false, nil
	}

	stop := diag.StartTimer("source " + src.ID)
	candidates, err := adapter.Search(ctx, params)
	stop()
	if err != nil {
		if ctx.Err() != nil {
			o.finishSource(ctx, srcRun, domain.ScanStatusFailed, domain.ErrScanCancelled.Error())
			return true, domain.ErrScanCancelled
		}
		diag.Error(fmt.Sprintf("Error processing source %s", src.Name), err, port.Fields{"source": src.ID})
		span.RecordError(err)
		span.SetStatus(codes.Error, "adapter search failed")
		run.Errors = append(run.Errors, domain.ScanError{Source: src.Name, Error: err.Error()})
		tally.failedSources = append(tally.failedSources, src.ID)
		o.finishSource(ctx, srcRun, domain.ScanStatusFailed, err.Error())
		return true, nil
	}
	diag.Info(fmt.Sprintf("Found %d listings from %s", len(candidates), src.Name), port.Fields{"source": src.ID})
	span.SetAttributes(attribute.Int("scan.candidates", len(candidates)))

	for _, c := range candidates {
		if ctx.Err() != nil {
			o.finishSource(ctx, srcRun, domain.ScanStatusFailed, domain.ErrScanCancelled.Error())
			return true, domain.ErrScanCancelled
		}
		run.ProcessedCount++

		// listings belong to the configured source, whichever adapter serves it
		c.SourceID = src.ID
		result, err := o.reconciler.Reconcile(ctx, c, cfg)
		if err != nil {
			run.ErrorCount++
			run.Errors = append(run.Errors, domain.ScanError{Source: src.Name, Listing: c.URL, Error: err.Error()})
			diag.Error("Error processing listing", err, port.Fields{"source": src.ID, "url": c.URL})
			continue
		}

		switch result.Outcome {
		case domain.OutcomeNew:
			run.NewCount++
		case domain.OutcomeUpdated:
			run.UpdatedCount++
		case domain.OutcomeDuplicate:
			run.DuplicateCount++
		}
		if result.Score != nil {
			tally.addScore(*result.Score)
		}
	}

	srcRun.Processed = len(candidates)
	o.finishSource(ctx, srcRun, domain.ScanStatusCompleted, "")
	return true, nil
}

func (o *ScanOrchestrator) finishSource(ctx context.Context, src domain.ScanRunSource, status domain.ScanStatus, errText string) {
	completed := time.Now().UTC()
	src.Status = status
	src.Errors = errText
	src.CompletedAt = &completed
	if err := o.store.ScanRuns.FinishSource(context.WithoutCancel(ctx), src); err != nil {
		diagnostics.FromContext(ctx).Error("Failed to finish source run", err, port.Fields{"source": src.SourceID})
	}
}

// publish sends the completion event and one event per scored parcel. Broker
// failures are logged only.
func (o *ScanOrchestrator) publish(ctx context.Context, run domain.ScanRun, cfg domain.ScanConfig, tally *scanTally) {
	if o.events == nil {
		return
	}
	diag := diagnostics.FromContext(ctx)

	for _, id := range tally.scoredOrder {
		event := scoredEvent(tally.scored[id], run.ID, cfg.FitScore.Thresholds)
		if err := o.events.PublishParcelScored(ctx, event); err != nil {
			diag.Warn("Failed to publish parcel scored event", port.Fields{"parcel_id": id.String(), "error": err.Error()})
		}
	}

	completedAt := time.Now().UTC()
	if run.CompletedAt != nil {
		completedAt = *run.CompletedAt
	}
	event := domain.ScanCompletedEvent{
		ScanRunID:      run.ID,
		RunType:        run.RunType,
		Status:         run.Status,
		ProcessedCount: run.ProcessedCount,
		NewCount:       run.NewCount,
		UpdatedCount:   run.UpdatedCount,
		DuplicateCount: run.DuplicateCount,
		ErrorCount:     run.ErrorCount,
		FailedSources:  tally.failedSources,
		NotifyEmails:   cfg.Notifications.OnScanComplete.EmailList,
		CompletedAt:    completedAt,
	}
	if err := o.events.PublishScanCompleted(ctx, event); err != nil {
		diag.Warn("Failed to publish scan completed event", port.Fields{"error": err.Error()})
	}
}

// TimerSleeper waits on a timer and gives up when ctx is done.
type TimerSleeper struct{}

func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
