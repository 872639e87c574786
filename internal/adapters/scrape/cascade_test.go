package scrape

import (
	"strings"
	"testing"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const brokerPage = `<html><head><title>Ranches for sale</title></head><body>
<div class="nav-menu">Ranch land farm 500 acres $1,000,000 menu menu menu menu menu menu</div>
<article data-listing-id="r-1">
  <h2>Big Creek Ranch</h2>
  <a href="/ranches/big-creek">View</a>
  <img src="/img/logo.png"><img src="/img/big-creek-1.jpg"><img data-src="/img/big-creek-2.jpg" src="">
  <p class="summary">Rolling pasture with a year-round creek.</p>
  <span class="acres">1,250 acres</span>
  <span class="price">$3,750,000</span>
  <span class="location">Park County, MT</span>
</article>
<article data-listing-id="r-2">
  <h2>Cedar Hollow Farm</h2>
  <a href="https://hallhall.com/ranches/cedar-hollow">View</a>
  <span class="acres">320 acres</span>
  <span class="price">Price upon request</span>
  <span class="location">Madison County, VA</span>
  <p>Productive farm land close to town.</p>
</article>
<article><h2>News</h2><p>Our brokers attended the land conference this year and more.</p></article>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestLooksLikeListing(t *testing.T) {
	doc := mustDoc(t, brokerPage)

	assert.False(t, LooksLikeListing(doc.Find(".nav-menu")))
	assert.True(t, LooksLikeListing(doc.Find("article").Eq(0)))
	assert.True(t, LooksLikeListing(doc.Find("article").Eq(1)))
	assert.False(t, LooksLikeListing(doc.Find("article").Eq(2)))
}

func TestRunCascadeFallsThroughToFirstProductiveStrategy(t *testing.T) {
	doc := mustDoc(t, brokerPage)
	diag := diagnostics.New("test", nil)
	extract := GenericExtractor("hallhall", "https://hallhall.com")

	res := RunCascade(doc, []SelectorStrategy{
		{Name: "ranch-listing", Selector: ".ranch-listing", Extract: extract},
		{Name: "menu", Selector: ".nav-menu", Extract: extract},
		{Name: "article", Selector: "article", Extract: extract},
	}, diag)

	assert.Equal(t, "article", res.Strategy)
	require.Len(t, res.Attempts, 3)
	assert.Equal(t, 0, res.Attempts[0].Found)
	assert.Equal(t, 1, res.Attempts[1].Found)
	assert.Equal(t, 0, res.Attempts[1].Kept)
	assert.Equal(t, 3, res.Attempts[2].Found)
	assert.Equal(t, 2, res.Attempts[2].Kept)

	require.Len(t, res.Candidates, 2)
	first := res.Candidates[0]
	assert.Equal(t, "r-1", first.ExternalID)
	assert.Equal(t, "Big Creek Ranch", first.Title)
	assert.Equal(t, "https://hallhall.com/ranches/big-creek", first.URL)
	assert.Equal(t, 1250.0, first.Acreage)
	require.NotNil(t, first.Price)
	assert.Equal(t, 3750000.0, *first.Price)
	require.NotNil(t, first.PricePerAcre)
	assert.Equal(t, 3000.0, *first.PricePerAcre)
	assert.Equal(t, "Park", first.County)
	assert.Equal(t, "MT", first.State)
	assert.Equal(t, "Rolling pasture with a year-round creek.", first.Description)
	assert.Equal(t, []string{
		"https://hallhall.com/img/big-creek-1.jpg",
		"https://hallhall.com/img/big-creek-2.jpg",
	}, first.Photos)

	second := res.Candidates[1]
	assert.Nil(t, second.Price)
	assert.Nil(t, second.PricePerAcre)
	assert.Equal(t, "Madison", second.County)
	assert.Equal(t, "VA", second.State)

	assert.False(t, diag.Summary().HasErrors)
}

func TestRunCascadeNoMatches(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Blocked</title></head><body><p>Access denied</p></body></html>`)
	diag := diagnostics.New("test", nil)

	res := RunCascade(doc, []SelectorStrategy{
		{Name: "card", Selector: ".property-card", Extract: GenericExtractor("x", "https://x.test")},
	}, diag)

	assert.Empty(t, res.Candidates)
	assert.Empty(t, res.Strategy)

	analysis := AnalyzePage(doc, res.Attempts)
	assert.Equal(t, "Blocked", analysis["title"])
	assert.Equal(t, false, analysis["has_acres"])
}

func TestExtractTitleFallsBackToSentence(t *testing.T) {
	doc := mustDoc(t, `<div><span>Beautiful Ranch Property near the river. 40 acres</span></div>`)
	assert.Equal(t, "Beautiful Ranch Property near the river", ExtractTitle(doc.Find("div")))
}

func TestNarrow(t *testing.T) {
	cands := []domain.ListingCandidate{
		{Title: "small", Acreage: 12},
		{Title: "a", Acreage: 240},
		{Title: "b", Acreage: 310},
		{Title: "huge", Acreage: 4800},
	}
	diag := diagnostics.New("narrow-test", nil)

	out := Narrow(cands, domain.SearchParams{MinAcreage: 100, MaxAcreage: 1000}, diag)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, "b", out[1].Title)
	assert.Equal(t, 1, diag.Summary().LogCounts[diagnostics.LevelDebug])

	out = Narrow(cands, domain.SearchParams{MinAcreage: 100, MaxAcreage: 1000, Limit: 1}, diag)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Title)

	assert.Len(t, Narrow(cands, domain.SearchParams{}, diag), 4)
}
