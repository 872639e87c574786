package landwatchfetcher

import (
	"strings"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
)

// cardToCandidate maps a search result card.
func (a *LandWatchFetcherAdapter) cardToCandidate(s *goquery.Selection) domain.ListingCandidate {
	href, _ := s.Find("a.property-title").First().Attr("href")
	link := scrape.ResolveURL(a.baseURL, href)
	if link == "" {
		link = scrape.FirstLink(s, a.baseURL)
	}

	c := scrape.NewCandidate(SourceID, link)
	c.ExternalID = scrape.ExtractExternalID(s, "data-property-id")
	c.Title = scrape.ExtractText(s, ".property-title", "h2", "h3")
	c.Description = scrape.ExtractText(s, ".property-description")
	c.Acreage = scrape.ParseAcreage(s.Find(".property-acres").Text())
	if c.Acreage == 0 {
		c.Acreage = scrape.ParseAcreage(s.Text())
	}
	c.County, c.State = scrape.ParseLocation(s.Find(".property-location").Text())
	c.Price = scrape.ParsePrice(s.Find(".property-price").Text())

	if img, ok := s.Find("img.property-image").First().Attr("src"); ok && img != "" {
		c.Photos = []string{scrape.ResolveURL(a.baseURL, img)}
	}

	latText, hasLat := s.Attr("data-lat")
	lonText, hasLon := s.Attr("data-lng")
	if hasLat && hasLon {
		c.Lat, c.Lon = scrape.ParseCoordinatePair(latText, lonText)
	}
	return c
}

// pageToCandidate maps a full listing page.
func (a *LandWatchFetcherAdapter) pageToCandidate(doc *goquery.Document, pageURL string) domain.ListingCandidate {
	root := doc.Selection

	c := scrape.NewCandidate(SourceID, pageURL)
	c.ExternalID = scrape.ExtractExternalID(root.Find("[data-property-id]").First(), "data-property-id")
	if c.ExternalID == "" {
		c.ExternalID = scrape.DigitsOnly(root.Find(".property-id").First().Text())
	}
	c.Title = scrape.ExtractText(root, "h1.property-title", "h1")
	c.Description = scrape.ExtractText(root, ".property-description-full", ".property-description")
	c.Acreage = scrape.ParseAcreage(root.Find(".property-detail-acres").Text())
	if c.Acreage == 0 {
		c.Acreage = scrape.ParseAcreage(root.Find(".property-acres").Text())
	}
	c.County, c.State = scrape.ParseLocation(root.Find(".property-location").First().Text())
	c.Price = scrape.ParsePrice(root.Find(".property-price").First().Text())
	c.Address = scrape.ExtractText(root, ".property-address")
	c.Photos = scrape.ExtractPhotos(root.Find(".property-gallery, .gallery-image, .property-image"), a.baseURL)

	root.Find(".property-detail").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(strings.ToUpper(text), "APN") {
			c.APN = scrape.ParseAPN(text)
		}
		return c.APN == ""
	})

	root.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()
		if !strings.Contains(script, "propertyMapData") {
			return true
		}
		c.Lat, c.Lon = scrape.ExtractCoordinates(script)
		return false
	})
	return c
}
