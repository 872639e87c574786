package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubAdapter(t *testing.T) {
	s := NewStubAdapter("whitetail", "Whitetail Properties")

	cands, err := s.Search(context.Background(), domain.SearchParams{States: []string{"VA"}})
	require.NoError(t, err)
	assert.NotNil(t, cands)
	assert.Empty(t, cands)

	c, err := s.GetDetails(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingCandidate{
		SourceID: "whitetail",
		URL:      "https://example.com/x",
		Title:    "Stub Listing",
		Acreage:  100,
		County:   "Unknown",
		State:    "Unknown",
		Status:   domain.ListingStatusListed,
	}, c)
}

func TestNewDefault(t *testing.T) {
	r, err := NewDefault(Config{
		LandWatchBaseURL: "https://www.landwatch.com",
		HallHallBaseURL:  "https://hallhall.com",
		Timeout:          time.Second,
	})
	require.NoError(t, err)

	list := r.List()
	require.Len(t, list, 13)
	assert.Equal(t, port.AdapterInfo{ID: "landwatch", Name: "LandWatch", Status: port.AdapterPartial}, list[0])
	assert.Equal(t, port.AdapterInfo{ID: "hallhall", Name: "Hall and Hall", Status: port.AdapterPartial}, list[1])
	for _, info := range list[2:] {
		assert.Equal(t, port.AdapterStub, info.Status, info.ID)
	}

	_, ok := r.Get("hallhall-browser")
	assert.False(t, ok)
	a, ok := r.Get("loopnet")
	require.True(t, ok)
	assert.Equal(t, "LoopNet", a.Name())
	_, ok = r.Get("zillow")
	assert.False(t, ok)

	assert.NoError(t, r.Close())
}

func TestNewDefaultWithBrowser(t *testing.T) {
	r, err := NewDefault(Config{
		LandWatchBaseURL: "https://www.landwatch.com",
		HallHallBaseURL:  "https://hallhall.com",
		Timeout:          time.Second,
		BrowserEnabled:   true,
	})
	require.NoError(t, err)

	a, ok := r.Get("hallhall-browser")
	require.True(t, ok)
	_, closable := a.(port.ClosableAdapter)
	assert.True(t, closable)
	assert.Len(t, r.List(), 14)
	// browser never started, so closing is a no-op
	assert.NoError(t, r.Close())
}

func TestNewDefaultRejectsBadURL(t *testing.T) {
	_, err := NewDefault(Config{LandWatchBaseURL: "::bad", HallHallBaseURL: "https://hallhall.com"})
	assert.Error(t, err)
}

type closingAdapter struct {
	*StubAdapter
	err error
}

func (c closingAdapter) Close() error { return c.err }

func TestRegisterReplacesAndClose(t *testing.T) {
	r := New()
	r.Register(NewStubAdapter("a", "First"), port.AdapterStub)
	r.Register(NewStubAdapter("b", "Second"), port.AdapterStub)
	r.Register(closingAdapter{NewStubAdapter("a", "Replaced"), errors.New("boom")}, port.AdapterBroken)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, port.AdapterInfo{ID: "a", Name: "Replaced", Status: port.AdapterBroken}, list[0])

	err := r.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close adapter a")
}
