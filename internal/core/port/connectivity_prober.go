package port

import (
	"context"
	"time"
)

// ProbeResult is what a single GET against an arbitrary URL revealed.
type ProbeResult struct {
	Success        bool          `json:"success"`
	URL            string        `json:"url"`
	Status         int           `json:"status,omitempty"`
	StatusText     string        `json:"statusText,omitempty"`
	Duration       time.Duration `json:"-"`
	DurationMs     int64         `json:"durationMs"`
	ContentLength  int           `json:"contentLength"`
	ContentType    string        `json:"contentType,omitempty"`
	Title          string        `json:"title,omitempty"`
	IsBlocked      bool          `json:"isBlocked"`
	HasContent     bool          `json:"hasContent"`
	SampleContent  string        `json:"sampleContent,omitempty"`
	Error          string        `json:"error,omitempty"`
	IsTimeout      bool          `json:"isTimeout,omitempty"`
	IsNetworkError bool          `json:"isNetworkError,omitempty"`
}

// ConnectivityProber fetches a URL and reports on the response.
type ConnectivityProber interface {
	Probe(ctx context.Context, url string) ProbeResult
}
