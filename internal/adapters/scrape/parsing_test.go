package scrape

import (
	"testing"

	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAcreage(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"347.5 acres", 347.5},
		{"1,200 ac", 1200},
		{"Approx. 85 Acres of pasture", 85},
		{"1 acre lot", 1},
		{"2,450± acres", 2450},
		{"no size listed", 0},
		{"120 acreage", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcreage(tt.in))
		})
	}
}

func TestParsePrice(t *testing.T) {
	p := ParsePrice("$1,250,000")
	require.NotNil(t, p)
	assert.Equal(t, 1250000.0, *p)

	p = ParsePrice("Offered at $ 975,000.50")
	require.NotNil(t, p)
	assert.Equal(t, 975000.5, *p)

	assert.Nil(t, ParsePrice("Price upon request"))
	assert.Nil(t, ParsePrice("Contact agent - $1,000,000"))
	assert.Nil(t, ParsePrice("Call for pricing"))
	assert.Nil(t, ParsePrice("1,000,000"))
	assert.Nil(t, ParsePrice("$0"))
	assert.Nil(t, ParsePrice("Inquire for price"))

	for _, text := range []string{
		"Historically significant ranch, $1,250,000",
		"Locally owned farm 200 acres $900,000",
		"Typically wooded tract $450,000",
		"Physically level cropland, $450,000",
		"Recontacted buyers welcome $450,000",
	} {
		assert.NotNil(t, ParsePrice(text), text)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		in            string
		county, state string
	}{
		{"Madison County, VA", "Madison", "VA"},
		{"Bozeman, MT", "Bozeman", "MT"},
		{"GALLATIN COUNTY - MT", "Gallatin", "MT"},
		{"Listing ID 42 - 320 acres in Park County, MT", "Park", "MT"},
		{"$1,000,000 Prince William County, VA", "Prince William", "VA"},
		{"Big Sky, Montana", "Big Sky", "Montana"},
		{"Somewhere nice", domain.UnknownLocation, domain.UnknownLocation},
		{"", domain.UnknownLocation, domain.UnknownLocation},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			county, state := ParseLocation(tt.in)
			assert.Equal(t, tt.county, county)
			assert.Equal(t, tt.state, state)
		})
	}
}

func TestExtractCoordinates(t *testing.T) {
	lat, lon := ExtractCoordinates(`var propertyMapData = {"latitude": 38.123, "longitude": -78.456};`)
	require.NotNil(t, lat)
	require.NotNil(t, lon)
	assert.Equal(t, 38.123, *lat)
	assert.Equal(t, -78.456, *lon)

	lat, lon = ExtractCoordinates(`map.init({lat: 45.5, lng: -110.25})`)
	require.NotNil(t, lat)
	assert.Equal(t, 45.5, *lat)
	assert.Equal(t, -110.25, *lon)

	lat, lon = ExtractCoordinates(`{"latitude": 38.1}`)
	assert.Nil(t, lat)
	assert.Nil(t, lon)

	lat, lon = ParseCoordinatePair("120", "10")
	assert.Nil(t, lat)
	assert.Nil(t, lon)
}

func TestParseAPN(t *testing.T) {
	assert.Equal(t, "012-345-67", ParseAPN("APN: 012-345-67"))
	assert.Equal(t, "A12B", ParseAPN("Parcel apn #a12b"))
	assert.Equal(t, "", ParseAPN("no parcel number"))
}

func TestFinalizeDerivesPricePerAcre(t *testing.T) {
	price := 1250000.0
	c := NewCandidate("landwatch", "https://example.com/1")
	c.Title = "  Big   Creek Ranch "
	c.Acreage = 500
	c.Price = &price
	c.County = ""

	out, ok := Finalize(c)
	require.True(t, ok)
	assert.Equal(t, "Big Creek Ranch", out.Title)
	assert.Equal(t, domain.UnknownLocation, out.County)
	assert.Equal(t, domain.ListingStatusListed, out.Status)
	require.NotNil(t, out.PricePerAcre)
	assert.Equal(t, 2500.0, *out.PricePerAcre)
}

func TestFinalizeRejectsIncomplete(t *testing.T) {
	c := NewCandidate("hallhall", "https://example.com/2")
	c.Title = "Ranch"
	_, ok := Finalize(c)
	assert.False(t, ok)

	c.Acreage = 10
	c.Title = "   "
	_, ok = Finalize(c)
	assert.False(t, ok)
}

func TestFinalizeWithoutPriceHasNoPricePerAcre(t *testing.T) {
	c := NewCandidate("hallhall", "https://example.com/3")
	c.Title = "Ranch"
	c.Acreage = 10

	out, ok := Finalize(c)
	require.True(t, ok)
	assert.Nil(t, out.PricePerAcre)
}

func TestFilterByAcreage(t *testing.T) {
	cands := []domain.ListingCandidate{
		{Title: "a", Acreage: 50},
		{Title: "b", Acreage: 100},
		{Title: "c", Acreage: 700},
		{Title: "d", Acreage: 1500},
	}

	once := FilterByAcreage(cands, 100, 1000)
	require.Len(t, once, 2)
	assert.Equal(t, "b", once[0].Title)
	assert.Equal(t, "c", once[1].Title)
	assert.Equal(t, once, FilterByAcreage(once, 100, 1000))

	assert.Len(t, FilterByAcreage(cands, 0, 0), 4)
	assert.Len(t, FilterByAcreage(cands, 600, 0), 2)
}

func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://hallhall.com/ranch/1", ResolveURL("https://hallhall.com", "/ranch/1"))
	assert.Equal(t, "https://hallhall.com/ranch/1", ResolveURL("https://hallhall.com/", "ranch/1"))
	assert.Equal(t, "https://cdn.example.com/a.jpg", ResolveURL("https://hallhall.com", "https://cdn.example.com/a.jpg"))
	assert.Equal(t, "", ResolveURL("https://hallhall.com", "  "))
}
