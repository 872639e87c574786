// Package fitscore computes how well a parcel matches the buyer's criteria.
// Calculate is pure: no I/O, no randomness, same input gives same output.
package fitscore

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"land-scanner-service/internal/core/domain"
)

const maxReasons = 5

type reason struct {
	value float64
	text  string
}

// Calculate scores parcel against cfg. features may be nil.
func Calculate(parcel domain.Parcel, features *domain.Features, cfg domain.ScanConfig) domain.FitScoreResult {
	if failed, ok := autoFail(features, cfg.FitScore.AutoFail); ok {
		return failed
	}

	w := cfg.FitScore.Weights
	scores := make(map[string]float64, 9)
	var reasons []reason

	acreage := acreageScore(parcel.Acreage, cfg.Acreage)
	scores[domain.FactorAcreage] = weighted(acreage, w.Acreage)
	if acreage >= 80 {
		reasons = append(reasons, reason{scores[domain.FactorAcreage],
			fmt.Sprintf("Excellent acreage (%s acres) in target range", formatNumber(parcel.Acreage))})
	}

	if features != nil && features.LandCoverMix != nil {
		s := landCoverScore(features.LandCoverMix)
		scores[domain.FactorLandCoverMix] = weighted(s, w.LandCoverMix)
		if s >= 70 {
			reasons = append(reasons, reason{scores[domain.FactorLandCoverMix], "Good land cover diversity"})
		}
	} else {
		scores[domain.FactorLandCoverMix] = w.LandCoverMix * 0.5
	}

	if features != nil {
		s := 30.0
		if features.WaterPresence {
			s = 100
		}
		scores[domain.FactorWaterPresence] = weighted(s, w.WaterPresence)
		if features.WaterPresence && len(features.WaterFeatures) > 0 {
			reasons = append(reasons, reason{scores[domain.FactorWaterPresence],
				"Water features: " + strings.Join(features.WaterFeatures, ", ")})
		}
	} else {
		scores[domain.FactorWaterPresence] = w.WaterPresence * 0.3
	}

	if features != nil && features.MetroDistance != nil {
		d := *features.MetroDistance
		s := metroScore(d, cfg.MetroRadiusMiles)
		scores[domain.FactorMetroProximity] = weighted(s, w.MetroProximity)
		if s >= 70 {
			metro := features.NearestMetro
			if metro == "" {
				metro = "metro"
			}
			reasons = append(reasons, reason{scores[domain.FactorMetroProximity],
				fmt.Sprintf("%.0f miles from %s", d, metro)})
		}
	} else {
		scores[domain.FactorMetroProximity] = w.MetroProximity * 0.5
	}

	if features != nil && features.SlopeStats != nil {
		s := slopeScore(*features.SlopeStats, cfg.Filters.SlopeMaxPct)
		scores[domain.FactorSlope] = weighted(s, w.Slope)
		if s >= 80 {
			reasons = append(reasons, reason{scores[domain.FactorSlope], "Favorable topography"})
		}
	} else {
		scores[domain.FactorSlope] = w.Slope * 0.6
	}

	if features != nil && features.SoilsQuality != nil {
		s := *features.SoilsQuality / 10 * 100
		scores[domain.FactorSoils] = weighted(s, w.Soils)
		if s >= 70 {
			reasons = append(reasons, reason{scores[domain.FactorSoils], "Good soil quality"})
		}
	} else {
		scores[domain.FactorSoils] = w.Soils * 0.5
	}

	if features != nil && features.RoadAccess != "" {
		s := roadScore(features.RoadAccess)
		scores[domain.FactorRoadAccess] = weighted(s, w.RoadAccess)
		if s >= 80 {
			reasons = append(reasons, reason{scores[domain.FactorRoadAccess], features.RoadAccess + " road access"})
		}
	} else {
		scores[domain.FactorRoadAccess] = w.RoadAccess * 0.5
	}

	// easements are a penalty: the shortfall below 100 is subtracted
	if features != nil && len(features.Easements) > 0 {
		s := easementScore(len(features.Easements))
		penalty := weighted(100-s, w.EasementPenalty)
		scores[domain.FactorEasementPenalty] = -penalty
		if s < 50 {
			reasons = append(reasons, reason{-penalty, "Easements: " + strings.Join(features.Easements, ", ")})
		}
	} else {
		scores[domain.FactorEasementPenalty] = 0
	}

	if features != nil {
		s := utilityScore(*features, cfg.Filters.Utilities)
		scores[domain.FactorUtilities] = weighted(s, w.Utilities)
		if s >= 70 {
			reasons = append(reasons, reason{scores[domain.FactorUtilities], "Good utility access"})
		}
	} else {
		scores[domain.FactorUtilities] = w.Utilities * 0.4
	}

	return domain.FitScoreResult{
		OverallScore:   aggregate(scores),
		ScoreBreakdown: scores,
		TopReasons:     topReasons(reasons),
		AutoFailed:     false,
	}
}

// Tier buckets a score by the configured thresholds.
func Tier(score int, t domain.Thresholds) string {
	switch {
	case score >= t.High:
		return domain.TierHigh
	case score >= t.Medium:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

func autoFail(features *domain.Features, cfg domain.AutoFailConfig) (domain.FitScoreResult, bool) {
	if features == nil {
		return domain.FitScoreResult{}, false
	}
	if cfg.Floodway && features.InFloodway {
		return domain.FitScoreResult{
			OverallScore:   0,
			ScoreBreakdown: map[string]float64{},
			TopReasons:     []string{"Property is in a floodway"},
			AutoFailed:     true,
			AutoFailReason: "In floodway",
		}, true
	}
	if cfg.WetlandsOverPct != nil && *cfg.WetlandsOverPct > 0 &&
		features.WetlandsPercent != nil && *features.WetlandsPercent > *cfg.WetlandsOverPct {
		return domain.FitScoreResult{
			OverallScore:   0,
			ScoreBreakdown: map[string]float64{},
			TopReasons:     []string{fmt.Sprintf("Wetlands exceed %s%%", formatNumber(*cfg.WetlandsOverPct))},
			AutoFailed:     true,
			AutoFailReason: fmt.Sprintf("Wetlands %s%%", formatNumber(*features.WetlandsPercent)),
		}, true
	}
	return domain.FitScoreResult{}, false
}

func weighted(score, weight float64) float64 {
	return score * weight / 100
}

// aggregate sums in a fixed key order so float addition is reproducible.
func aggregate(scores map[string]float64) int {
	keys := make([]string, 0, len(scores))
	for k := range scores {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	total := 0.0
	for _, k := range keys {
		total += scores[k]
	}
	total = math.Min(100, math.Max(0, total))
	return int(math.Floor(total + 0.5))
}

func topReasons(reasons []reason) []string {
	sort.SliceStable(reasons, func(i, j int) bool {
		return math.Abs(reasons[i].value) > math.Abs(reasons[j].value)
	})
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, r.text)
	}
	return out
}

func acreageScore(acreage float64, r domain.AcreageRange) float64 {
	if acreage < r.Min {
		distance := (r.Min - acreage) / r.Min
		return math.Max(0, 100-distance*100)
	}
	if r.Max > 0 && acreage > r.Max {
		distance := (acreage - r.Max) / r.Max
		return math.Max(0, 100-distance*100)
	}
	if r.Max <= r.Min {
		return 100
	}
	midpoint := (r.Min + r.Max) / 2
	deviation := math.Abs(acreage-midpoint) / (r.Max - r.Min)
	return 100 - deviation*20
}

// landCoverScore is the Shannon diversity index normalised by ln(categories).
func landCoverScore(mix map[string]float64) float64 {
	keys := make([]string, 0, len(mix))
	total := 0.0
	for k, v := range mix {
		keys = append(keys, k)
		total += v
	}
	if total == 0 {
		return 50
	}
	if len(keys) < 2 {
		return 0
	}
	sort.Strings(keys)

	diversity := 0.0
	for _, k := range keys {
		if v := mix[k]; v > 0 {
			p := v / total
			diversity -= p * math.Log(p)
		}
	}
	return math.Min(100, diversity/math.Log(float64(len(keys)))*100)
}

func metroScore(distance, radius float64) float64 {
	if radius > 0 && distance <= radius {
		return 100 - distance/radius*30
	}
	excess := distance - radius
	return math.Max(0, 70-excess*2)
}

func slopeScore(stats domain.SlopeStats, maxSlope *float64) float64 {
	score := 100.0
	score -= stats.PercentOver40 * 2
	score -= stats.PercentOver20 * 0.5
	if maxSlope != nil && *maxSlope > 0 && stats.Mean > *maxSlope {
		score -= (stats.Mean - *maxSlope) * 2
	}
	return math.Max(0, score)
}

var roadScores = map[string]float64{
	"paved":  100,
	"gravel": 70,
	"dirt":   40,
	"none":   10,
}

func roadScore(access string) float64 {
	if s, ok := roadScores[strings.ToLower(strings.TrimSpace(access))]; ok {
		return s
	}
	return 50
}

func easementScore(count int) float64 {
	return math.Max(0, 100-float64(count)*20)
}

type utility struct {
	distance *float64
	max      *float64
	weight   float64
}

func utilityScore(f domain.Features, limits domain.UtilityMaxMiles) float64 {
	utilities := []utility{
		{f.PowerDistance, limits.PowerMaxMiles, 30},
		{f.WaterDistance, limits.WaterMaxMiles, 25},
		{f.SewerDistance, limits.SewerMaxMiles, 20},
		{f.FiberDistance, limits.FiberMaxMiles, 15},
		{f.GasDistance, limits.GasMaxMiles, 10},
	}

	score := 100.0
	known := 0
	for _, u := range utilities {
		if u.distance == nil {
			continue
		}
		known++
		d := *u.distance
		if u.max != nil && *u.max > 0 && d > *u.max {
			score -= u.weight * ((d - *u.max) / *u.max)
		} else if d <= 1 {
			score += u.weight * 0.2
		}
	}
	if known == 0 {
		return 50
	}
	return math.Max(0, math.Min(100, score))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
