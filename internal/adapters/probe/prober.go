// Package probe issues a single browser-like GET and reports what came back.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/port"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	acceptHeader    = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	maxBodyBytes    = 5 << 20
	sampleLength    = 200
	minContentBytes = 1000
	noTitle         = "No title found"
)

// HTTPProber implements port.ConnectivityProber.
type HTTPProber struct {
	client *http.Client
}

func NewHTTPProber(timeout time.Duration) *HTTPProber {
	return &HTTPProber{client: &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}}
}

// Probe never returns an error; failures are described in the result.
// Responses with a status below 500 count as reachable.
func (p *HTTPProber) Probe(ctx context.Context, url string) port.ProbeResult {
	probeLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "HTTPProber",
		"url":       url,
	})

	result := port.ProbeResult{URL: url}
	start := time.Now()
	finish := func() port.ProbeResult {
		result.Duration = time.Since(start)
		result.DurationMs = result.Duration.Milliseconds()
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.Error = fmt.Sprintf("invalid url: %v", err)
		return finish()
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := p.client.Do(req)
	if err != nil {
		result.Error = err.Error()
		result.IsTimeout = isTimeout(err)
		result.IsNetworkError = isNetworkError(err)
		probeLogger.Warn("Connectivity probe failed", port.Fields{"error": err.Error()})
		return finish()
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.StatusText = http.StatusText(resp.StatusCode)
	result.IsBlocked = resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		result.Error = fmt.Sprintf("failed to read body: %v", err)
		result.IsTimeout = isTimeout(err)
		return finish()
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		result.Error = fmt.Sprintf("request failed with status code %d", resp.StatusCode)
		return finish()
	}

	result.Success = true
	result.ContentLength = len(body)
	result.ContentType = resp.Header.Get("Content-Type")
	result.HasContent = len(body) > minContentBytes
	result.Title = extractTitle(body)
	result.SampleContent = sample(body)
	return finish()
}

func extractTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return noTitle
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return noTitle
	}
	return title
}

func sample(body []byte) string {
	if len(body) > sampleLength {
		body = body[:sampleLength]
	}
	return strings.ToValidUTF8(string(body), "")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isNetworkError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
