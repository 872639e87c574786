package hallhallfetcher

import (
	"strings"

	"land-scanner-service/internal/adapters/scrape"
	"land-scanner-service/internal/core/domain"

	"github.com/PuerkitoBio/goquery"
)

// pageToCandidate maps a listing page. Rendered and static pages share the
// same markup, so both adapters use it.
func pageToCandidate(doc *goquery.Document, sourceID, baseURL, pageURL string) domain.ListingCandidate {
	root := doc.Selection
	body := root.Find("body").Text()

	c := scrape.NewCandidate(sourceID, pageURL)
	c.ExternalID = scrape.ExtractExternalID(root.Find("[data-property-id]").First(), "data-property-id")
	if c.ExternalID == "" {
		c.ExternalID = scrape.ExtractExternalID(root.Find("[data-listing-id]").First(), "data-listing-id")
	}
	if c.ExternalID == "" {
		c.ExternalID = scrape.DigitsOnly(root.Find(".listing-id, .property-id").First().Text())
	}

	c.Title = scrape.ExtractText(root, "h1.property-name", "h1", ".property-title", ".listing-title")
	c.Description = scrape.ExtractText(root, ".property-description", ".overview", ".description", ".summary")

	c.Acreage = scrape.ParseAcreage(root.Find(".property-acres, .acreage, .acres, .size").Text())
	if c.Acreage == 0 {
		c.Acreage = scrape.ParseAcreage(body)
	}

	location := scrape.ExtractText(root, ".property-location", ".location", ".address")
	if location == "" {
		location = body
	}
	c.County, c.State = scrape.ParseLocation(location)

	priceText := root.Find(".property-price, .listing-price, .price").First().Text()
	if strings.TrimSpace(priceText) == "" {
		priceText = body
	}
	c.Price = scrape.ParsePrice(priceText)

	c.Address = scrape.ExtractText(root, ".property-address", ".address")
	c.Photos = scrape.ExtractPhotos(root.Find(".photo-gallery, .slideshow, .property-photos, .gallery"), baseURL)
	c.APN = scrape.ParseAPN(body)

	root.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()
		if !strings.Contains(script, "lat") {
			return true
		}
		c.Lat, c.Lon = scrape.ExtractCoordinates(script)
		return !c.HasCoordinates()
	})
	return c
}
