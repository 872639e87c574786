package postgres

import (
	"testing"

	"land-scanner-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestSearchCellsCoverTolerance(t *testing.T) {
	lat, lon := 36.50001, -79.20001
	cells := searchCells(ptr(lat), ptr(lon))
	require.Len(t, cells, 9)

	for _, d := range [][2]float64{{0.002, 0.002}, {-0.002, -0.002}, {0.002, -0.002}, {-0.002, 0.002}} {
		other := geohash.EncodeWithPrecision(lat+d[0], lon+d[1], geohashPrecision)
		assert.Contains(t, cells, other)
	}
}

func TestSearchCellsWithoutCoordinates(t *testing.T) {
	assert.Nil(t, searchCells(nil, ptr(1)))
	assert.Equal(t, "", parcelCell(ptr(1), nil))
}

func TestLockKeysAreSortedAndOverlap(t *testing.T) {
	a := lockKeys(domain.ParcelMatch{APN: "12-3", County: "Halifax", State: "va", Lat: ptr(36.5), Lon: ptr(-79.2)})
	require.Len(t, a, 10)
	assert.IsNonDecreasing(t, a)
	assert.Contains(t, a, "apn:VA:halifax:12-3")

	b := lockKeys(domain.ParcelMatch{Lat: ptr(36.5015), Lon: ptr(-79.2015)})
	overlap := 0
	for _, k := range b {
		for _, k2 := range a {
			if k == k2 {
				overlap++
			}
		}
	}
	assert.Greater(t, overlap, 0)

	assert.Empty(t, lockKeys(domain.ParcelMatch{Acreage: 100}))
}
