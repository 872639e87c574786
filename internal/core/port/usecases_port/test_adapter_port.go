package usecases_port

import (
	"context"

	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
)

type TestMode string

const (
	TestModeBasic    TestMode = "basic"
	TestModeDetailed TestMode = "detailed"
)

// AdapterTestRequest drives a manual adapter run. A nil Params falls back to
// a Georgia 100-500 acre search.
type AdapterTestRequest struct {
	AdapterID string
	Mode      TestMode
	Params    *domain.SearchParams
}

// DataQuality counts how many results carried each field.
type DataQuality struct {
	WithPrice       int                       `json:"withPrice"`
	WithAcreage     int                       `json:"withAcreage"`
	WithLocation    int                       `json:"withLocation"`
	WithCoordinates int                       `json:"withCoordinates"`
	Samples         []domain.ListingCandidate `json:"samples"`
}

type AdapterTestReport struct {
	Success         bool                      `json:"success"`
	AdapterID       string                    `json:"adapterId"`
	ResultCount     int                       `json:"resultCount"`
	Results         []domain.ListingCandidate `json:"results"`
	Analysis        *DataQuality              `json:"analysis,omitempty"`
	Details         *domain.ListingCandidate  `json:"details,omitempty"`
	Error           string                    `json:"error,omitempty"`
	DebugSummary    diagnostics.Summary       `json:"debugSummary"`
	Recommendations []string                  `json:"recommendations"`
}

// TestAdapterUseCase returns domain.ErrAdapterNotFound for unknown ids. Adapter
// failures are reported inside the report, not as an error.
type TestAdapterUseCase interface {
	Execute(ctx context.Context, req AdapterTestRequest) (AdapterTestReport, error)
}
