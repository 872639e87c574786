package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
)

const minListingTextLen = 50

var (
	acresTokenRe = regexp.MustCompile(`(?i)\d+\s*(?:acres?|ac\b)`)
	priceTokenRe = regexp.MustCompile(`\$[\d,]+`)
	landTermRe   = regexp.MustCompile(`(?i)ranch|property|land|farm`)
	chromeRe     = regexp.MustCompile(`(?i)nav|footer|menu|header`)
	titleTermRe  = regexp.MustCompile(`(?i)ranch|property|land|farm|acres`)
)

// Extractor turns one matched element into a candidate.
type Extractor func(s *goquery.Selection) domain.ListingCandidate

// SelectorStrategy is one step of a selector cascade.
type SelectorStrategy struct {
	Name     string
	Selector string
	Extract  Extractor
}

// Attempt records what one strategy matched.
type Attempt struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
	Found    int    `json:"found"`
	Kept     int    `json:"kept"`
	Valid    int    `json:"valid"`
}

// CascadeResult is the outcome of RunCascade.
type CascadeResult struct {
	Strategy   string
	Candidates []domain.ListingCandidate
	Attempts   []Attempt
}

// LooksLikeListing applies the content heuristics used to tell a listing
// card from page chrome.
func LooksLikeListing(s *goquery.Selection) bool {
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	if chromeRe.MatchString(class) || chromeRe.MatchString(id) {
		return false
	}
	text := CleanText(s.Text())
	if len(text) < minListingTextLen {
		return false
	}
	if !acresTokenRe.MatchString(text) {
		return false
	}
	return priceTokenRe.MatchString(text) || landTermRe.MatchString(text)
}

// RunCascade tries strategies in order. The first strategy that yields at
// least one valid candidate wins; its candidates are returned finalized.
func RunCascade(doc *goquery.Document, strategies []SelectorStrategy, diag *diagnostics.Logger) CascadeResult {
	var res CascadeResult
	for _, st := range strategies {
		matched := doc.Find(st.Selector)
		attempt := Attempt{Name: st.Name, Selector: st.Selector, Found: matched.Length()}
		if attempt.Found == 0 {
			diag.Debug(fmt.Sprintf("Selector %q found 0 elements", st.Selector), nil)
			res.Attempts = append(res.Attempts, attempt)
			continue
		}

		var cands []domain.ListingCandidate
		matched.Each(func(_ int, s *goquery.Selection) {
			if !LooksLikeListing(s) {
				return
			}
			attempt.Kept++
			if c, ok := Finalize(st.Extract(s)); ok {
				cands = append(cands, c)
			} else {
				diag.Debug("Skipping incomplete listing", port.Fields{"title": c.Title, "acreage": c.Acreage})
			}
		})
		attempt.Valid = len(cands)
		res.Attempts = append(res.Attempts, attempt)
		diag.Info(fmt.Sprintf("Selector %q found %d total, %d after filtering", st.Selector, attempt.Found, attempt.Kept),
			port.Fields{"strategy": st.Name, "valid": attempt.Valid})

		if len(cands) > 0 {
			res.Strategy = st.Name
			res.Candidates = cands
			return res
		}
	}
	return res
}

// Narrow drops candidates outside the requested acreage range, since sources
// do not always honour their own range filter, and caps the result at
// params.Limit when it is set.
func Narrow(cands []domain.ListingCandidate, params domain.SearchParams, diag *diagnostics.Logger) []domain.ListingCandidate {
	out := FilterByAcreage(cands, params.MinAcreage, params.MaxAcreage)
	if skipped := len(cands) - len(out); skipped > 0 {
		diag.Debug("Skipping listings outside acreage range", port.Fields{
			"skipped": skipped,
			"min":     params.MinAcreage,
			"max":     params.MaxAcreage,
		})
	}
	if params.Limit > 0 && len(out) > params.Limit {
		out = out[:params.Limit]
	}
	return out
}

// AnalyzePage summarises a page that produced no listings.
func AnalyzePage(doc *goquery.Document, attempts []Attempt) port.Fields {
	body := strings.ToLower(doc.Find("body").Text())
	return port.Fields{
		"title":         CleanText(doc.Find("title").First().Text()),
		"body_length":   len(body),
		"has_ranch":     strings.Contains(body, "ranch"),
		"has_acres":     strings.Contains(body, "acres"),
		"has_price":     strings.Contains(body, "$"),
		"divs":          doc.Find("div").Length(),
		"articles":      doc.Find("article").Length(),
		"cards":         doc.Find(".card").Length(),
		"class_listing": doc.Find(`[class*="listing"]`).Length(),
		"class_ranch":   doc.Find(`[class*="ranch"]`).Length(),
		"attempts":      attempts,
	}
}

// ExtractText returns the first non-empty text among selectors within s.
func ExtractText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if t := CleanText(s.Find(sel).First().Text()); t != "" {
			return t
		}
	}
	return ""
}

var titleSelectors = []string{
	"h1", "h2", "h3", "h4",
	".title", ".property-title", ".listing-title", ".property-name", ".ranch-name",
	`a[href*="ranch"], a[href*="property"], a[href*="listing"]`,
}

// ExtractTitle finds a heading-like title inside a listing card, falling back
// to the first capitalised sentence that mentions land terms.
func ExtractTitle(s *goquery.Selection) string {
	for _, sel := range titleSelectors {
		t := CleanText(s.Find(sel).First().Text())
		if len(t) > 5 && !strings.Contains(strings.ToLower(t), "menu") {
			return t
		}
	}
	for _, line := range strings.FieldsFunc(s.Text(), func(r rune) bool { return r == '.' || r == '\n' }) {
		line = CleanText(line)
		if len(line) > 10 && len(line) < 100 && line[0] >= 'A' && line[0] <= 'Z' && titleTermRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// ExtractExternalID reads the first present id attribute.
func ExtractExternalID(s *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		if v, ok := s.Attr(a); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// FirstLink resolves the first anchor in s, or in its parent when s has none.
func FirstLink(s *goquery.Selection, base string) string {
	if s.Is("a") {
		if href, ok := s.Attr("href"); ok {
			return ResolveURL(base, href)
		}
	}
	href, ok := s.Find("a[href]").First().Attr("href")
	if !ok {
		href, _ = s.Parent().Find("a[href]").First().Attr("href")
	}
	return ResolveURL(base, href)
}

// ExtractPhotos collects image URLs from s and the images below it, skipping
// logos, icons and placeholders. Duplicates are dropped.
func ExtractPhotos(s *goquery.Selection, base string) []string {
	var photos []string
	seen := map[string]struct{}{}
	s.Filter("img").AddSelection(s.Find("img")).Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if strings.TrimSpace(src) == "" {
			src, _ = img.Attr("data-src")
		}
		lower := strings.ToLower(src)
		if src == "" || strings.Contains(lower, "logo") || strings.Contains(lower, "icon") ||
			strings.Contains(lower, "placeholder") {
			return
		}
		abs := ResolveURL(base, src)
		if _, dup := seen[abs]; dup || abs == "" {
			return
		}
		seen[abs] = struct{}{}
		photos = append(photos, abs)
	})
	return photos
}

// GenericExtractor reads a card whose markup is unknown, relying on text
// heuristics rather than fixed class names.
func GenericExtractor(sourceID, base string) Extractor {
	return func(s *goquery.Selection) domain.ListingCandidate {
		text := CleanText(s.Text())
		c := NewCandidate(sourceID, FirstLink(s, base))
		c.ExternalID = ExtractExternalID(s, "data-property-id", "data-listing-id", "id")
		c.Title = ExtractTitle(s)
		c.Description = ExtractText(s, ".description", ".summary", ".excerpt", ".overview", ".listing-description")

		if acres := ExtractText(s, ".acres", ".size", ".acreage"); acres != "" {
			c.Acreage = ParseAcreage(acres)
		}
		if c.Acreage == 0 {
			c.Acreage = ParseAcreage(text)
		}
		if price := ExtractText(s, ".price", ".listing-price"); price != "" {
			c.Price = ParsePrice(price)
		} else {
			c.Price = ParsePrice(text)
		}
		location := ExtractText(s, ".location", ".address")
		if location == "" {
			location = text
		}
		c.County, c.State = ParseLocation(location)
		c.Photos = ExtractPhotos(s, base)

		if latText, ok := s.Attr("data-lat"); ok {
			lonText, _ := s.Attr("data-lng")
			c.Lat, c.Lon = ParseCoordinatePair(latText, lonText)
		}
		return c
	}
}
