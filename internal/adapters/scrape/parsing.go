// Package scrape holds the parsing helpers shared by the HTML source adapters.
package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"land-scanner-service/internal/core/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	acreageRe     = regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d+)?)\s*±?\s*(?:acres?|ac)\b`)
	priceRe       = regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d+)?)`)
	priceHiddenRe = regexp.MustCompile(`(?i)\b(?:request|contact|call|inquire)\b`)
	stateCodeRe   = regexp.MustCompile(`\b([A-Z]{2})\b`)
	countyWordRe  = regexp.MustCompile(`(?i)\bcounty\b`)
	apnRe         = regexp.MustCompile(`(?i)APN[:\s#]+([A-Z0-9-]+)`)
	latRe         = regexp.MustCompile(`(?i)\blat(?:itude)?['":\s]+(-?\d+(?:\.\d+)?)`)
	lonRe         = regexp.MustCompile(`(?i)\b(?:lng|lon|longitude)['":\s]+(-?\d+(?:\.\d+)?)`)
	locationSepRe = regexp.MustCompile(`[,\-–|]`)
)

const locationSeps = ",-–|"

// maxCountyLen guards against taking a whole card's text as a county name.
const maxCountyLen = 40

var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
}

var titleCaser = cases.Title(language.English)

// ParseAcreage returns the first "N acres" figure in text, or 0.
func ParseAcreage(text string) float64 {
	m := acreageRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := parseNumber(m[1])
	if err != nil {
		return 0
	}
	return v
}

// ParsePrice returns nil when the price is hidden ("Price upon request") or
// no dollar amount is present.
func ParsePrice(text string) *float64 {
	if priceHiddenRe.MatchString(text) {
		return nil
	}
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v, err := parseNumber(m[1])
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// ParseLocation extracts county and state from free text such as
// "Madison County, VA". Missing parts are domain.UnknownLocation.
func ParseLocation(text string) (county, state string) {
	text = CleanText(text)
	county, state = domain.UnknownLocation, domain.UnknownLocation
	if text == "" {
		return county, state
	}

	// "City, ST" wins over a bare code elsewhere in the text ("Listing ID 42").
	stateIdx := -1
	for _, loc := range stateCodeRe.FindAllStringSubmatchIndex(text, -1) {
		code := text[loc[2]:loc[3]]
		if _, ok := usStates[code]; !ok {
			continue
		}
		afterSep := precededBySeparator(text, loc[2])
		if stateIdx == -1 || afterSep {
			state = code
			stateIdx = loc[2]
		}
		if afterSep {
			break
		}
	}

	if loc := countyWordRe.FindStringIndex(text); loc != nil {
		if c := trailingName(text[:loc[0]]); c != "" {
			return c, state
		}
	}

	if stateIdx > 0 {
		if c := trailingName(text[:stateIdx]); c != "" {
			county = c
		}
		return county, state
	}

	parts := locationSepRe.Split(text, -1)
	if state == domain.UnknownLocation && len(parts) > 1 {
		if last := strings.TrimSpace(parts[len(parts)-1]); last != "" && len(last) <= maxCountyLen {
			state = last
		}
		if c := normalizeCounty(parts[0]); c != "" {
			county = c
		}
	}
	return county, state
}

// trailingName returns up to two words right before the end of text, stopping
// at separators, digits or lowercase words: "…$1,000,000 Prince William" gives
// "Prince William".
func trailingName(text string) string {
	words := strings.Fields(strings.TrimRight(text, " "+locationSeps))
	var name []string
	for i := len(words) - 1; i >= 0 && len(name) < 2; i-- {
		w := words[i]
		if last, _ := utf8.DecodeLastRuneInString(w); strings.ContainsRune(locationSeps, last) {
			break
		}
		r, _ := utf8.DecodeRuneInString(w)
		if !unicode.IsLetter(r) || (len(name) > 0 && !unicode.IsUpper(r)) {
			break
		}
		name = append([]string{w}, name...)
	}
	return normalizeCounty(strings.Join(name, " "))
}

func precededBySeparator(text string, idx int) bool {
	prefix := strings.TrimRight(text[:idx], " ")
	if prefix == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(prefix)
	return strings.ContainsRune(locationSeps, r)
}

func normalizeCounty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxCountyLen {
		return ""
	}
	if s == strings.ToLower(s) || s == strings.ToUpper(s) {
		s = titleCaser.String(strings.ToLower(s))
	}
	return s
}

// ExtractCoordinates finds latitude/longitude pairs in inline map scripts.
// Both are nil unless a valid pair is found.
func ExtractCoordinates(script string) (lat, lon *float64) {
	latM := latRe.FindStringSubmatch(script)
	lonM := lonRe.FindStringSubmatch(script)
	if latM == nil || lonM == nil {
		return nil, nil
	}
	return ParseCoordinatePair(latM[1], lonM[1])
}

// ParseCoordinatePair parses attribute values such as data-lat/data-lng.
func ParseCoordinatePair(latText, lonText string) (lat, lon *float64) {
	la, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil || la < -90 || la > 90 {
		return nil, nil
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lonText), 64)
	if err != nil || lo < -180 || lo > 180 {
		return nil, nil
	}
	return &la, &lo
}

// ParseAPN returns the assessor parcel number mentioned in text, or "".
func ParseAPN(text string) string {
	m := apnRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.ToUpper(m[1])
}

// DigitsOnly keeps the digits of s, used for ids rendered as "ID: 12345".
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanText collapses runs of whitespace.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
