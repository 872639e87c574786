package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"land-scanner-service/internal/adapters/memory"
	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStarter struct {
	mu    sync.Mutex
	calls []domain.RunType
	err   error
}

func (s *recordingStarter) Execute(_ context.Context, runType domain.RunType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.calls = append(s.calls, runType)
	return nil
}

// Sunday 18 October 2026, 02:15 UTC.
var sundayTwoAM = time.Date(2026, 10, 18, 2, 15, 0, 0, time.UTC)

func newTestScheduler(cfg domain.ScanConfig, store *memory.Store, starter *recordingStarter, now time.Time) *WeeklyScheduler {
	s := NewWeeklyScheduler(staticConfig{cfg: cfg}, store.ScanRuns, starter)
	s.now = func() time.Time { return now }
	return s
}

func TestSchedulerFiresOncePerSlot(t *testing.T) {
	starter := &recordingStarter{}
	s := newTestScheduler(domain.DefaultScanConfig(), memory.NewStore(), starter, sundayTwoAM)

	assert.True(t, s.tick(context.Background()))
	assert.False(t, s.tick(context.Background()))
	assert.Equal(t, []domain.RunType{domain.RunTypeWeekly}, starter.calls)
}

func TestSchedulerWaitsForConfiguredSlot(t *testing.T) {
	starter := &recordingStarter{}
	s := newTestScheduler(domain.DefaultScanConfig(), memory.NewStore(), starter, sundayTwoAM.Add(time.Hour))
	assert.False(t, s.tick(context.Background()))

	s = newTestScheduler(domain.DefaultScanConfig(), memory.NewStore(), starter, sundayTwoAM.Add(24*time.Hour))
	assert.False(t, s.tick(context.Background()))

	cfg := domain.DefaultScanConfig()
	cfg.Schedules.WeeklyScan.Enabled = false
	s = newTestScheduler(cfg, memory.NewStore(), starter, sundayTwoAM)
	assert.False(t, s.tick(context.Background()))

	assert.Empty(t, starter.calls)
}

func TestSchedulerSkipsWhenRunAlreadyStartedThisHour(t *testing.T) {
	store := memory.NewStore()
	run := domain.NewScanRun(domain.RunTypeOnDemand)
	run.StartedAt = sundayTwoAM.Add(-5 * time.Minute)
	require.NoError(t, store.ScanRuns.Create(context.Background(), run))

	starter := &recordingStarter{}
	s := newTestScheduler(domain.DefaultScanConfig(), store, starter, sundayTwoAM)
	assert.False(t, s.tick(context.Background()))
	assert.Empty(t, starter.calls)
}

func TestSchedulerRetriesWhileAnotherScanRuns(t *testing.T) {
	starter := &recordingStarter{err: domain.ErrScanAlreadyRunning}
	s := newTestScheduler(domain.DefaultScanConfig(), memory.NewStore(), starter, sundayTwoAM)
	assert.False(t, s.tick(context.Background()))

	starter.err = nil
	assert.True(t, s.tick(context.Background()))
}
