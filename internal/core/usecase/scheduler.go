package usecase

import (
	"context"
	"errors"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/port/usecases_port"
)

// WeeklyScheduler starts the weekly scan when the configured UTC weekday and
// hour come around.
type WeeklyScheduler struct {
	configs  port.ScanConfigProvider
	runs     port.ScanRunRepository
	starter  usecases_port.StartScanUseCase
	interval time.Duration
	now      func() time.Time

	lastFired time.Time
}

func NewWeeklyScheduler(configs port.ScanConfigProvider, runs port.ScanRunRepository, starter usecases_port.StartScanUseCase) *WeeklyScheduler {
	return &WeeklyScheduler{
		configs:  configs,
		runs:     runs,
		starter:  starter,
		interval: time.Minute,
		now:      time.Now,
	}
}

// Run checks once per interval until ctx is done.
func (s *WeeklyScheduler) Run(ctx context.Context) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "WeeklyScheduler"})
	logger.Info("Scheduler started", port.Fields{"interval": s.interval.String()})

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Scheduler stopped", nil)
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick reports whether a weekly scan was started.
func (s *WeeklyScheduler) tick(ctx context.Context) bool {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "WeeklyScheduler"})

	cfg, err := s.configs.Load(ctx)
	if err != nil {
		logger.Warn("Cannot load scan config", port.Fields{"error": err.Error()})
		return false
	}
	weekly := cfg.Schedules.WeeklyScan
	if !weekly.Enabled {
		return false
	}

	now := s.now().UTC()
	if int(now.Weekday()) != weekly.DayOfWeekUTC || now.Hour() != weekly.HourUTC {
		return false
	}
	slot := now.Truncate(time.Hour)
	if s.lastFired.Equal(slot) {
		return false
	}

	latest, err := s.runs.Latest(ctx)
	if err != nil {
		logger.Error("Failed to load latest scan run", err, nil)
		return false
	}
	if latest != nil && !latest.StartedAt.UTC().Before(slot) {
		s.lastFired = slot
		return false
	}

	if err := s.starter.Execute(ctx, domain.RunTypeWeekly); err != nil {
		if errors.Is(err, domain.ErrScanAlreadyRunning) {
			logger.Info("Weekly scan skipped, a scan is already running", nil)
		} else {
			logger.Error("Failed to start weekly scan", err, nil)
		}
		return false
	}
	s.lastFired = slot
	return true
}
