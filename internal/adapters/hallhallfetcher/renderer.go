package hallhallfetcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	listingWaitMs    = 10000
)

// listingReadySelector matches any element a rendered listing grid is built from.
const listingReadySelector = `div[class*="property"], div[class*="listing"], div[class*="ranch"], .card, article`

// renderedPage is the HTML of a page after client-side rendering.
type renderedPage struct {
	HTML  string
	Title string
	// ListingsReady is false when no listing-like element appeared in time.
	ListingsReady bool
}

// pageRenderer loads a URL in a real browser.
type pageRenderer interface {
	Render(ctx context.Context, url string) (renderedPage, error)
	Close() error
}

// playwrightRenderer launches Chromium on first use and reuses it. Every
// Render opens its own page and closes it before returning.
type playwrightRenderer struct {
	timeout time.Duration

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func newPlaywrightRenderer(timeout time.Duration) *playwrightRenderer {
	return &playwrightRenderer{timeout: timeout}
}

func (r *playwrightRenderer) ensureBrowser() (playwright.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	r.pw = pw
	r.browser = browser
	return browser, nil
}

func (r *playwrightRenderer) Render(ctx context.Context, url string) (renderedPage, error) {
	if err := ctx.Err(); err != nil {
		return renderedPage{}, err
	}
	browser, err := r.ensureBrowser()
	if err != nil {
		return renderedPage{}, err
	}

	page, err := browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String(browserUserAgent),
		Viewport:  &playwright.Size{Width: 1920, Height: 1080},
	})
	if err != nil {
		return renderedPage{}, fmt.Errorf("could not open page: %w", err)
	}
	defer page.Close()

	// playwright calls are not context aware; closing the page unblocks them
	stopWatch := context.AfterFunc(ctx, func() { _ = page.Close() })
	defer stopWatch()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(r.timeout.Milliseconds())),
	}); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return renderedPage{}, ctxErr
		}
		return renderedPage{}, fmt.Errorf("navigation to %s failed: %w", url, err)
	}

	ready := page.Locator(listingReadySelector).First().WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(listingWaitMs),
	}) == nil

	html, err := page.Content()
	if err != nil {
		return renderedPage{}, fmt.Errorf("could not read page content: %w", err)
	}
	title, _ := page.Title()
	return renderedPage{HTML: html, Title: title, ListingsReady: ready}, nil
}

// Close shuts the browser and the driver down. Safe to call when the browser
// was never started.
func (r *playwrightRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			firstErr = fmt.Errorf("could not close browser: %w", err)
		}
		r.browser = nil
	}
	if r.pw != nil {
		if err := r.pw.Stop(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("could not stop playwright: %w", err)
		}
		r.pw = nil
	}
	return firstErr
}
