package usecase

import (
	"context"
	"testing"

	"land-scanner-service/internal/adapters/memory"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct{ got string }

func (p *fakeProber) Probe(_ context.Context, url string) port.ProbeResult {
	p.got = url
	return port.ProbeResult{Success: true, URL: url, Status: 200}
}

func seedScan(t *testing.T, store *memory.Store, cfg domain.ScanConfig) domain.ScanRun {
	t.Helper()
	a := &fakeAdapter{id: "a", candidates: []domain.ListingCandidate{
		candidate("a", "Q-1", 200),
		candidate("a", "Q-2", 900),
	}}
	orch := NewScanOrchestrator(staticConfig{cfg: cfg}, fakeRegistry{"a": a}, store.Ports(), nil, &recordingSleeper{})
	run, err := orch.Execute(context.Background(), domain.RunTypeOnDemand)
	require.NoError(t, err)
	return run
}

func TestGetHealth(t *testing.T) {
	store := memory.NewStore()
	cfg := configWith(source("a"), domain.ListingSource{ID: "off", Adapter: "off"})
	run := seedScan(t, store, cfg)

	stats, err := NewGetHealthUseCase(store.Ports(), staticConfig{cfg: cfg}).Execute(context.Background())
	require.NoError(t, err)
	require.NotNil(t, stats.LatestScan)
	assert.Equal(t, run.ID, stats.LatestScan.ID)
	assert.Equal(t, 2, stats.ParcelCount)
	assert.Equal(t, 2, stats.ListingCount)
	assert.Equal(t, 2, stats.SourcesTotal)
	assert.Equal(t, 1, stats.SourcesEnabled)
}

func TestGetHealthWithoutConfig(t *testing.T) {
	store := memory.NewStore()
	stats, err := NewGetHealthUseCase(store.Ports(), staticConfig{err: domain.ErrConfigNotFound}).Execute(context.Background())
	require.NoError(t, err)
	assert.Nil(t, stats.LatestScan)
	assert.Equal(t, 13, stats.SourcesTotal)
}

func TestScanRunQueries(t *testing.T) {
	store := memory.NewStore()
	cfg := configWith(source("a"))
	first := seedScan(t, store, cfg)
	second := seedScan(t, store, cfg)

	runs, err := NewGetScanRunsUseCase(store.ScanRuns).Execute(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second.ID, runs[0].ID)
	assert.Equal(t, first.ID, runs[1].ID)

	got, err := NewGetScanRunUseCase(store.ScanRuns).Execute(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Len(t, got.Sources, 1)

	_, err = NewGetScanRunUseCase(store.ScanRuns).Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrScanRunNotFound)
}

func TestParcelQueries(t *testing.T) {
	store := memory.NewStore()
	cfg := configWith(source("a"))
	seedScan(t, store, cfg)

	page, err := NewSearchParcelsUseCase(store.Parcels, staticConfig{cfg: cfg}).Execute(context.Background(), domain.ParcelFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	require.Len(t, page.Items, 2)
	require.NotNil(t, page.Items[0].OverallScore)
	require.NotNil(t, page.Items[1].OverallScore)
	assert.GreaterOrEqual(t, *page.Items[0].OverallScore, *page.Items[1].OverallScore)

	details, err := NewGetParcelDetailsUseCase(store.Ports()).Execute(context.Background(), page.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, details.Listings, 1)
	assert.Nil(t, details.Features)
	require.NotNil(t, details.FitScore)

	_, err = NewGetParcelDetailsUseCase(store.Ports()).Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrParcelNotFound)
}

func TestProbeDefaultsURL(t *testing.T) {
	prober := &fakeProber{}
	uc := NewProbeConnectivityUseCase(prober, "https://www.landwatch.com")

	res := uc.Execute(context.Background(), "")
	assert.Equal(t, "https://www.landwatch.com", prober.got)
	assert.True(t, res.Success)

	uc.Execute(context.Background(), "https://example.com")
	assert.Equal(t, "https://example.com", prober.got)
}

func TestListAdaptersAndConfig(t *testing.T) {
	reg := fakeRegistry{"a": &fakeAdapter{id: "a"}}
	assert.Len(t, NewListAdaptersUseCase(reg).Execute(context.Background()), 1)

	cfg := configWith(source("a"))
	got, err := NewGetScanConfigUseCase(staticConfig{cfg: cfg}).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
