package landwatchfetcher

import (
	"fmt"
	"strings"
	"time"

	"land-scanner-service/internal/adapters/scrape"

	"github.com/gocolly/colly/v2"
)

const (
	SourceID   = "landwatch"
	SourceName = "LandWatch"
)

// LandWatchFetcherAdapter searches LandWatch result pages and listing pages.
type LandWatchFetcherAdapter struct {
	// parent collector shared by every clone so limits apply across calls
	collector *colly.Collector
	baseURL   string
}

// NewLandWatchFetcherAdapter - constructor
func NewLandWatchFetcherAdapter(baseURL string, timeout, randomDelay time.Duration) (*LandWatchFetcherAdapter, error) {
	c, err := scrape.NewCollector(scrape.CollectorConfig{
		BaseURL:     baseURL,
		Timeout:     timeout,
		RandomDelay: randomDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("landwatch adapter: %w", err)
	}
	return &LandWatchFetcherAdapter{
		collector: c,
		baseURL:   strings.TrimRight(baseURL, "/"),
	}, nil
}

func (a *LandWatchFetcherAdapter) ID() string { return SourceID }

func (a *LandWatchFetcherAdapter) Name() string { return SourceName }
