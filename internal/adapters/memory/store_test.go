package memory

import (
	"context"
	"testing"

	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestFindOrCreateByAPN(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	first, created, err := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "123-45", County: "Halifax", State: "VA", Acreage: 200})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "123-45", County: "Halifax", State: "VA", Acreage: 500})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	other, created, err := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "123-45", County: "Pittsylvania", State: "VA", Acreage: 200})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestFindOrCreateByProximity(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	base, _, err := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{Lat: ptr(36.5), Lon: ptr(-79.2), Acreage: 300})
	require.NoError(t, err)

	near, created, err := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{Lat: ptr(36.501), Lon: ptr(-79.2015), Acreage: 305})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, base.ID, near.ID)

	_, created, err = s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{Lat: ptr(36.501), Lon: ptr(-79.2015), Acreage: 400})
	require.NoError(t, err)
	assert.True(t, created, "acreage outside 3% makes a new parcel")

	_, created, err = s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{Lat: ptr(36.51), Lon: ptr(-79.2), Acreage: 300})
	require.NoError(t, err)
	assert.True(t, created, "centroid too far makes a new parcel")
}

func TestSearchSortsByScoreAndFilters(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	thresholds := domain.Thresholds{High: 80, Medium: 60}

	a, _, _ := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "A", County: "X", State: "VA", Acreage: 150})
	b, _, _ := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "B", County: "X", State: "VA", Acreage: 500})
	c, _, _ := s.Parcels.FindOrCreate(ctx, domain.ParcelMatch{APN: "C", County: "Y", State: "NC", Acreage: 700})

	require.NoError(t, s.FitScores.Upsert(ctx, domain.FitScore{ParcelID: a.ID, FitScoreResult: domain.FitScoreResult{OverallScore: 65}}))
	require.NoError(t, s.FitScores.Upsert(ctx, domain.FitScore{ParcelID: b.ID, FitScoreResult: domain.FitScoreResult{OverallScore: 90}}))

	page, err := s.Parcels.Search(ctx, domain.ParcelFilter{Limit: 10}, thresholds)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, b.ID, page.Items[0].ID)
	assert.Equal(t, domain.TierHigh, page.Items[0].Tier)
	assert.Equal(t, a.ID, page.Items[1].ID)
	assert.Equal(t, domain.TierMedium, page.Items[1].Tier)
	assert.Equal(t, c.ID, page.Items[2].ID)
	assert.Nil(t, page.Items[2].OverallScore)

	minScore := 70
	page, err = s.Parcels.Search(ctx, domain.ParcelFilter{MinScore: &minScore, Limit: 10}, thresholds)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	page, err = s.Parcels.Search(ctx, domain.ParcelFilter{State: "va", MaxAcreage: ptr(200), Limit: 10}, thresholds)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	page, err = s.Parcels.Search(ctx, domain.ParcelFilter{Limit: 2, Offset: 2}, thresholds)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 1)

	high, medium, err := s.FitScores.CountByTier(ctx, thresholds)
	require.NoError(t, err)
	assert.Equal(t, 1, high)
	assert.Equal(t, 1, medium)
}

func TestScanRunFinishIsFinal(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	run := domain.NewScanRun(domain.RunTypeOnDemand)
	require.NoError(t, s.ScanRuns.Create(ctx, run))

	src := domain.NewScanRunSource(run.ID, "landwatch")
	require.NoError(t, s.ScanRuns.CreateSource(ctx, src))
	src.Status = domain.ScanStatusCompleted
	require.NoError(t, s.ScanRuns.FinishSource(ctx, src))

	run.Status = domain.ScanStatusCompleted
	require.NoError(t, s.ScanRuns.Finish(ctx, run))

	run.Status = domain.ScanStatusFailed
	assert.Error(t, s.ScanRuns.Finish(ctx, run))

	got, err := s.ScanRuns.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScanStatusCompleted, got.Status)
	require.Len(t, got.Sources, 1)
	assert.Equal(t, domain.ScanStatusCompleted, got.Sources[0].Status)

	latest, err := s.ScanRuns.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
}
