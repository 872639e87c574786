package domain

import (
	"errors"
	"fmt"
)

var (
	ErrParcelNotFound     = errors.New("parcel not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrScanRunNotFound    = errors.New("scan run not found")
	ErrAdapterNotFound    = errors.New("adapter not found")
	ErrScanAlreadyRunning = errors.New("a scan is already running")
	ErrScanCancelled      = errors.New("scan cancelled")
	ErrConfigNotFound     = errors.New("scan configuration not found")
	ErrInvalidConfig      = errors.New("invalid scan configuration")
	ErrOnDemandDisabled   = errors.New("on-demand scans are disabled")
)

// FetchError is returned by adapters when a source answered with a non-2xx
// status or the request did not complete.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("request to %s failed with status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
