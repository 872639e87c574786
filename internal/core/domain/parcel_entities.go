package domain

import (
	"time"

	"github.com/google/uuid"
)

// Parcel is the deduplicated real-world property.
type Parcel struct {
	ID          uuid.UUID `json:"id"`
	APN         string    `json:"apn,omitempty"`
	Acreage     float64   `json:"acreage"`
	CentroidLat *float64  `json:"centroidLat,omitempty"`
	CentroidLon *float64  `json:"centroidLon,omitempty"`
	County      string    `json:"county"`
	State       string    `json:"state"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Parcel identity tolerances.
const (
	ParcelCoordinateTolerance = 0.002
	ParcelAcreageLowerRatio   = 0.97
	ParcelAcreageUpperRatio   = 1.03
)

// ParcelMatch carries the identifying attributes of a candidate used to
// resolve or create a parcel.
type ParcelMatch struct {
	APN     string
	County  string
	State   string
	Lat     *float64
	Lon     *float64
	Acreage float64
	Address string
}

// NewParcelMatch extracts the identity attributes from a candidate.
func NewParcelMatch(c ListingCandidate) ParcelMatch {
	return ParcelMatch{
		APN:     c.APN,
		County:  c.County,
		State:   c.State,
		Lat:     c.Lat,
		Lon:     c.Lon,
		Acreage: c.Acreage,
		Address: c.Address,
	}
}

// MatchesByAPN applies identity rule (a): same APN, county and state.
func (m ParcelMatch) MatchesByAPN(p Parcel) bool {
	return m.APN != "" && p.APN == m.APN && p.County == m.County && p.State == m.State
}

// MatchesByProximity applies identity rule (b): centroid within the
// coordinate tolerance and acreage within ±3%.
func (m ParcelMatch) MatchesByProximity(p Parcel) bool {
	if m.Lat == nil || m.Lon == nil || p.CentroidLat == nil || p.CentroidLon == nil {
		return false
	}
	if *p.CentroidLat < *m.Lat-ParcelCoordinateTolerance || *p.CentroidLat > *m.Lat+ParcelCoordinateTolerance {
		return false
	}
	if *p.CentroidLon < *m.Lon-ParcelCoordinateTolerance || *p.CentroidLon > *m.Lon+ParcelCoordinateTolerance {
		return false
	}
	return p.Acreage >= m.Acreage*ParcelAcreageLowerRatio && p.Acreage <= m.Acreage*ParcelAcreageUpperRatio
}

// NewParcel builds a parcel from a match that resolved to nothing.
func NewParcel(m ParcelMatch) Parcel {
	now := time.Now().UTC()
	return Parcel{
		ID:          uuid.New(),
		APN:         m.APN,
		Acreage:     m.Acreage,
		CentroidLat: m.Lat,
		CentroidLon: m.Lon,
		County:      m.County,
		State:       m.State,
		Address:     m.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ParcelFilter drives the parcel search endpoint.
type ParcelFilter struct {
	State      string
	MinAcreage *float64
	MaxAcreage *float64
	MinScore   *int
	Limit      int
	Offset     int
}

// ParcelSummary is a parcel row with its score for listing views.
type ParcelSummary struct {
	Parcel
	OverallScore *int   `json:"overallScore,omitempty"`
	AutoFailed   bool   `json:"autoFailed"`
	Tier         string `json:"tier,omitempty"`
	ListingCount int    `json:"listingCount"`
}

// ParcelDetails is a parcel with everything attached to it.
type ParcelDetails struct {
	Parcel   Parcel    `json:"parcel"`
	Listings []Listing `json:"listings"`
	Features *Features `json:"features,omitempty"`
	FitScore *FitScore `json:"fitScore,omitempty"`
}

// SearchPage is a page of parcels plus the total match count.
type SearchPage struct {
	Items  []ParcelSummary `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}
