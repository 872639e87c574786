package hallhallfetcher

import (
	"fmt"
	"strings"
	"time"

	"land-scanner-service/internal/adapters/scrape"

	"github.com/gocolly/colly/v2"
)

const (
	SourceID   = "hallhall"
	SourceName = "Hall and Hall"

	searchPath = "/ranches-for-sale"
)

// HallHallFetcherAdapter reads the broker's server-rendered listing pages.
// Search failures degrade to an empty result; they are recorded in the
// diagnostics log instead of being returned.
type HallHallFetcherAdapter struct {
	collector *colly.Collector
	baseURL   string
}

// NewHallHallFetcherAdapter - constructor
func NewHallHallFetcherAdapter(baseURL string, timeout, randomDelay time.Duration) (*HallHallFetcherAdapter, error) {
	c, err := scrape.NewCollector(scrape.CollectorConfig{
		BaseURL:     baseURL,
		Timeout:     timeout,
		RandomDelay: randomDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("hallhall adapter: %w", err)
	}
	return &HallHallFetcherAdapter{
		collector: c,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

func (a *HallHallFetcherAdapter) ID() string { return SourceID }

func (a *HallHallFetcherAdapter) Name() string { return SourceName }
