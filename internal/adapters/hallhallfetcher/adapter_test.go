package hallhallfetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ranchesPage = `<html><head><title>Ranches For Sale</title></head><body>
<header class="site-header">Ranch land 100 acres $1 header header header header header header</header>
<div class="ranch-listing" data-listing-id="hh-7">
  <a class="listing-link" href="/ranches/wind-river"><img src="/img/wind-river.jpg"></a>
  <h2 class="listing-title">Wind River Ranch</h2>
  <div class="summary">Cattle ranch with river frontage and mountain views.</div>
  <span class="acres">5,200 acres</span>
  <span class="location">Fremont County, WY</span>
  <span class="price">$12,500,000</span>
</div>
<div class="ranch-listing" data-listing-id="hh-8">
  <a class="listing-link" href="/ranches/little-creek"></a>
  <h2 class="listing-title">Little Creek Farm</h2>
  <span class="acres">80 acres</span>
  <span class="location">Gallatin County, MT</span>
  <span class="price">Price upon request</span>
</div>
</body></html>`

const ranchDetailPage = `<html><body>
<div data-listing-id="hh-7"></div>
<h1 class="property-name">Wind River Ranch</h1>
<div class="overview">Cattle ranch with river frontage.</div>
<span class="acreage">5,200± acres</span>
<span class="property-location">Fremont County, WY</span>
<span class="listing-price">$12,500,000</span>
<div class="photo-gallery"><img src="/img/a.jpg"><img src="/img/logo.svg"></div>
<script>var map = {lat: 43.01, lng: -108.38};</script>
</body></html>`

func newRanchServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(searchPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("states") == "XX" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(ranchesPage))
	})
	mux.HandleFunc("/ranches/wind-river", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(ranchDetailPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPSearch(t *testing.T) {
	srv := newRanchServer(t)
	a, err := NewHallHallFetcherAdapter(srv.URL, 5*time.Second, 0)
	require.NoError(t, err)

	cands, err := a.Search(context.Background(), domain.SearchParams{States: []string{"WY", "MT"}})
	require.NoError(t, err)
	require.Len(t, cands, 2)

	assert.Equal(t, "hh-7", cands[0].ExternalID)
	assert.Equal(t, "Wind River Ranch", cands[0].Title)
	assert.Equal(t, srv.URL+"/ranches/wind-river", cands[0].URL)
	assert.Equal(t, 5200.0, cands[0].Acreage)
	assert.Equal(t, "Fremont", cands[0].County)
	assert.Equal(t, "WY", cands[0].State)
	assert.Equal(t, []string{srv.URL + "/img/wind-river.jpg"}, cands[0].Photos)

	assert.Equal(t, 80.0, cands[1].Acreage)
	assert.Nil(t, cands[1].Price)
}

func TestHTTPSearchDropsListingsOutsideAcreageRange(t *testing.T) {
	srv := newRanchServer(t)
	a, err := NewHallHallFetcherAdapter(srv.URL, 5*time.Second, 0)
	require.NoError(t, err)

	cands, err := a.Search(context.Background(), domain.SearchParams{States: []string{"WY", "MT"}, MinAcreage: 100, MaxAcreage: 10000})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "hh-7", cands[0].ExternalID)
}

func TestHTTPSearchDegradesGracefully(t *testing.T) {
	srv := newRanchServer(t)
	a, err := NewHallHallFetcherAdapter(srv.URL, 5*time.Second, 0)
	require.NoError(t, err)
	diag := diagnostics.New("hallhall-test", nil)

	cands, err := a.Search(diagnostics.WithLogger(context.Background(), diag), domain.SearchParams{States: []string{"XX"}})
	require.NoError(t, err)
	assert.NotNil(t, cands)
	assert.Empty(t, cands)
	assert.True(t, diag.Summary().HasErrors)
}

func TestHTTPGetDetails(t *testing.T) {
	srv := newRanchServer(t)
	a, err := NewHallHallFetcherAdapter(srv.URL, 5*time.Second, 0)
	require.NoError(t, err)

	c, err := a.GetDetails(context.Background(), srv.URL+"/ranches/wind-river")
	require.NoError(t, err)
	assert.Equal(t, "hh-7", c.ExternalID)
	assert.Equal(t, "Wind River Ranch", c.Title)
	assert.Equal(t, 5200.0, c.Acreage)
	require.NotNil(t, c.PricePerAcre)
	assert.InDelta(t, 2403.846, *c.PricePerAcre, 0.001)
	assert.Equal(t, []string{srv.URL + "/img/a.jpg"}, c.Photos)
	require.True(t, c.HasCoordinates())
	assert.Equal(t, 43.01, *c.Lat)

	_, err = a.GetDetails(context.Background(), srv.URL+"/ranches/missing")
	assert.Error(t, err)
}

type fakeRenderer struct {
	pages  map[string]renderedPage
	err    error
	calls  []string
	closed bool
}

func (f *fakeRenderer) Render(_ context.Context, url string) (renderedPage, error) {
	f.calls = append(f.calls, url)
	if f.err != nil {
		return renderedPage{}, f.err
	}
	return f.pages[url], nil
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func TestBrowserSearchFiltersByAcreage(t *testing.T) {
	r := &fakeRenderer{pages: map[string]renderedPage{
		"https://hallhall.com" + searchPath: {HTML: ranchesPage, Title: "Ranches", ListingsReady: true},
	}}
	a := newBrowserAdapter("https://hallhall.com/", r, 0)

	cands, err := a.Search(context.Background(), domain.SearchParams{MinAcreage: 100, MaxAcreage: 10000})
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, BrowserSourceID, cands[0].SourceID)
	assert.Equal(t, "https://hallhall.com/ranches/wind-river", cands[0].URL)
	assert.Equal(t, []string{"https://hallhall.com" + searchPath}, r.calls)
}

func TestBrowserSearchReturnsRendererErrors(t *testing.T) {
	r := &fakeRenderer{err: errors.New("chromium crashed")}
	a := newBrowserAdapter("https://hallhall.com", r, 0)
	diag := diagnostics.New("browser-test", nil)

	_, err := a.Search(diagnostics.WithLogger(context.Background(), diag), domain.SearchParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chromium crashed")
	assert.True(t, diag.Summary().HasErrors)
}

func TestBrowserSearchLogsPageAnalysisWhenEmpty(t *testing.T) {
	r := &fakeRenderer{pages: map[string]renderedPage{
		"https://hallhall.com" + searchPath: {HTML: `<html><head><title>Just a moment</title></head><body></body></html>`},
	}}
	a := newBrowserAdapter("https://hallhall.com", r, 0)
	diag := diagnostics.New("browser-test", nil)

	cands, err := a.Search(diagnostics.WithLogger(context.Background(), diag), domain.SearchParams{})
	require.NoError(t, err)
	assert.Empty(t, cands)

	var analysed bool
	for _, e := range diag.Summary().Logs {
		if e.Message == "No property elements found. Page analysis" {
			analysed = true
			assert.Equal(t, "Just a moment", e.Data["title"])
		}
	}
	assert.True(t, analysed)
}

func TestBrowserCloseReleasesRenderer(t *testing.T) {
	r := &fakeRenderer{}
	a := newBrowserAdapter("https://hallhall.com", r, 6)
	require.NoError(t, a.Close())
	assert.True(t, r.closed)
}

func TestPlaywrightRendererCloseWithoutBrowser(t *testing.T) {
	assert.NoError(t, newPlaywrightRenderer(time.Second).Close())
}
