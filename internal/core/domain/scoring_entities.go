package domain

import (
	"time"

	"github.com/google/uuid"
)

// SlopeStats summarises the slope raster over a parcel.
type SlopeStats struct {
	Mean          float64 `json:"mean"`
	PercentOver20 float64 `json:"percentOver20"`
	PercentOver40 float64 `json:"percentOver40"`
}

// Features is enrichment data produced outside this service. Nil pointers
// and nil maps mean "not measured".
type Features struct {
	ParcelID        uuid.UUID          `json:"parcelId"`
	LandCoverMix    map[string]float64 `json:"landCoverMix,omitempty"`
	SlopeStats      *SlopeStats        `json:"slopeStats,omitempty"`
	WaterPresence   bool               `json:"waterPresence"`
	WaterFeatures   []string           `json:"waterFeatures,omitempty"`
	InFloodway      bool               `json:"inFloodway"`
	WetlandsPercent *float64           `json:"wetlandsPercent,omitempty"`
	RoadAccess      string             `json:"roadAccess,omitempty"`
	MetroDistance   *float64           `json:"metroDistance,omitempty"`
	NearestMetro    string             `json:"nearestMetro,omitempty"`
	PowerDistance   *float64           `json:"powerDistance,omitempty"`
	WaterDistance   *float64           `json:"waterDistance,omitempty"`
	SewerDistance   *float64           `json:"sewerDistance,omitempty"`
	FiberDistance   *float64           `json:"fiberDistance,omitempty"`
	GasDistance     *float64           `json:"gasDistance,omitempty"`
	Easements       []string           `json:"easements,omitempty"`
	SoilsQuality    *float64           `json:"soilsQuality,omitempty"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// Score breakdown keys.
const (
	FactorAcreage         = "acreage"
	FactorLandCoverMix    = "landCoverMix"
	FactorWaterPresence   = "waterPresence"
	FactorMetroProximity  = "metroProximity"
	FactorSlope           = "slope"
	FactorSoils           = "soils"
	FactorRoadAccess      = "roadAccess"
	FactorEasementPenalty = "easementPenalty"
	FactorUtilities       = "utilities"
)

// FitScoreResult is the output of the scoring engine.
type FitScoreResult struct {
	OverallScore   int                `json:"overallScore"`
	ScoreBreakdown map[string]float64 `json:"scoreBreakdown"`
	TopReasons     []string           `json:"topReasons"`
	AutoFailed     bool               `json:"autoFailed"`
	AutoFailReason string             `json:"autoFailReason,omitempty"`
}

// FitScore is the persisted scoring snapshot of a parcel. It is overwritten
// on every recompute.
type FitScore struct {
	ParcelID uuid.UUID `json:"parcelId"`
	FitScoreResult
	ComputedAt time.Time `json:"computedAt"`
}

// Score tiers used by the dashboard.
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)
