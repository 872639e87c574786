package domain

// ListingStatus is the market state a source reports for a listing.
type ListingStatus string

const (
	ListingStatusListed     ListingStatus = "listed"
	ListingStatusOffMarket  ListingStatus = "off-market"
	ListingStatusDistressed ListingStatus = "distressed"
	ListingStatusSold       ListingStatus = "sold"
)

// Valid reports whether s is one of the known statuses.
func (s ListingStatus) Valid() bool {
	switch s {
	case ListingStatusListed, ListingStatusOffMarket, ListingStatusDistressed, ListingStatusSold:
		return true
	}
	return false
}

// UnknownLocation is stored when county or state cannot be parsed.
const UnknownLocation = "Unknown"

// ListingCandidate is one source's view of a property at scan time.
// Adapters create a fresh value on every search; it is never mutated after
// being handed to reconciliation.
type ListingCandidate struct {
	SourceID     string                 `json:"sourceId"`
	ExternalID   string                 `json:"externalId,omitempty"`
	URL          string                 `json:"url"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Lat          *float64               `json:"lat,omitempty"`
	Lon          *float64               `json:"lon,omitempty"`
	Acreage      float64                `json:"acreage"`
	County       string                 `json:"county"`
	State        string                 `json:"state"`
	Price        *float64               `json:"price,omitempty"`
	PricePerAcre *float64               `json:"pricePerAcre,omitempty"`
	Photos       []string               `json:"photos,omitempty"`
	Status       ListingStatus          `json:"status"`
	APN          string                 `json:"apn,omitempty"`
	Address      string                 `json:"address,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// IdentityKey is externalId when the source exposes one, the URL otherwise.
func (c ListingCandidate) IdentityKey() string {
	if c.ExternalID != "" {
		return c.ExternalID
	}
	return c.URL
}

// HasCoordinates reports whether both lat and lon are known.
func (c ListingCandidate) HasCoordinates() bool {
	return c.Lat != nil && c.Lon != nil
}

// SearchParams narrows an adapter search.
type SearchParams struct {
	States     []string `json:"states"`
	MinAcreage float64  `json:"minAcreage"`
	MaxAcreage float64  `json:"maxAcreage"`
	Page       int      `json:"page,omitempty"`
	Limit      int      `json:"limit,omitempty"`
}

// PageOrDefault returns the requested page, starting at 1.
func (p SearchParams) PageOrDefault() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}
