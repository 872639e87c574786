package postgres

import (
	"sort"
	"strings"

	"land-scanner-service/internal/core/domain"

	"github.com/mmcloughlin/geohash"
)

// Precision 6 cells are roughly 0.0055° by 0.011°, wider than the proximity
// tolerance, so a match is always in the candidate's cell or a neighbour.
const geohashPrecision = 6

func parcelCell(lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}
	return geohash.EncodeWithPrecision(*lat, *lon, geohashPrecision)
}

// searchCells returns the candidate's cell followed by its eight neighbours.
func searchCells(lat, lon *float64) []string {
	cell := parcelCell(lat, lon)
	if cell == "" {
		return nil
	}
	return append([]string{cell}, geohash.Neighbors(cell)...)
}

// lockKeys lists the advisory lock keys for a match in a stable order so
// concurrent transactions acquire overlapping keys in the same sequence.
func lockKeys(m domain.ParcelMatch) []string {
	keys := make([]string, 0, 10)
	if m.APN != "" {
		keys = append(keys, "apn:"+strings.ToUpper(m.State)+":"+strings.ToLower(m.County)+":"+m.APN)
	}
	for _, cell := range searchCells(m.Lat, m.Lon) {
		keys = append(keys, "cell:"+cell)
	}
	sort.Strings(keys)
	return keys
}
