package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/diagnostics"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/port/usecases_port"
)

const (
	testResultLimit = 5
	testSampleLimit = 3
)

// DefaultTestParams is used when a test request carries no parameters.
func DefaultTestParams() domain.SearchParams {
	return domain.SearchParams{States: []string{"GA"}, MinAcreage: 100, MaxAcreage: 500, Page: 1}
}

// TestAdapterUseCase runs one adapter search, and optionally one detail
// fetch, under a bounded timeout.
type TestAdapterUseCase struct {
	registry port.AdapterRegistry
	timeout  time.Duration
}

func NewTestAdapterUseCase(registry port.AdapterRegistry, timeout time.Duration) *TestAdapterUseCase {
	return &TestAdapterUseCase{registry: registry, timeout: timeout}
}

func (uc *TestAdapterUseCase) Execute(ctx context.Context, req usecases_port.AdapterTestRequest) (usecases_port.AdapterTestReport, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "TestAdapter",
		"adapter_id": req.AdapterID,
	})

	adapter, ok := uc.registry.Get(req.AdapterID)
	if !ok {
		return usecases_port.AdapterTestReport{}, fmt.Errorf("%w: %s", domain.ErrAdapterNotFound, req.AdapterID)
	}

	diag := diagnostics.New("AdapterTest", logger)
	ctx = diagnostics.WithLogger(ctx, diag)
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	mode := req.Mode
	if mode == "" {
		mode = usecases_port.TestModeBasic
	}
	params := DefaultTestParams()
	if req.Params != nil {
		params = *req.Params
	}
	diag.Info("Testing adapter: "+req.AdapterID, port.Fields{"testMode": string(mode), "adapter": adapter.Name()})
	diag.Info("Starting search with params", port.Fields{
		"states":     params.States,
		"minAcreage": params.MinAcreage,
		"maxAcreage": params.MaxAcreage,
		"page":       params.PageOrDefault(),
	})

	report := usecases_port.AdapterTestReport{AdapterID: req.AdapterID, Results: []domain.ListingCandidate{}}

	stop := diag.StartTimer("adapter.search")
	results, searchErr := adapter.Search(ctx, params)
	stop()

	if searchErr != nil {
		diag.Error("Search failed", searchErr, nil)
		report.Error = searchErr.Error()
	} else {
		report.Success = true
		diag.Info(fmt.Sprintf("Search completed. Found %d listings", len(results)), nil)

		report.ResultCount = len(results)
		report.Results = head(results, testResultLimit)
		analysis := analyse(results)
		report.Analysis = &analysis
		diag.Info("Results analysis", port.Fields{
			"count":           len(results),
			"withPrice":       analysis.WithPrice,
			"withAcreage":     analysis.WithAcreage,
			"withLocation":    analysis.WithLocation,
			"withCoordinates": analysis.WithCoordinates,
		})

		if mode == usecases_port.TestModeDetailed && len(results) > 0 {
			stopDetails := diag.StartTimer("getDetails")
			details, err := adapter.GetDetails(ctx, results[0].URL)
			stopDetails()
			if err != nil {
				diag.Error("Detail fetch failed", err, nil)
			} else {
				report.Details = &details
				diag.Info("Detail fetch successful", port.Fields{
					"hasDescription":    details.Description != "",
					"descriptionLength": len(details.Description),
					"hasApn":            details.APN != "",
					"hasAddress":        details.Address != "",
				})
			}
		}
	}

	report.DebugSummary = diag.Summary()
	report.Recommendations = Recommendations(report.DebugSummary, results, searchErr)
	return report, nil
}

func head(in []domain.ListingCandidate, n int) []domain.ListingCandidate {
	if len(in) <= n {
		out := make([]domain.ListingCandidate, len(in))
		copy(out, in)
		return out
	}
	out := make([]domain.ListingCandidate, n)
	copy(out, in[:n])
	return out
}

func analyse(results []domain.ListingCandidate) usecases_port.DataQuality {
	q := usecases_port.DataQuality{Samples: head(results, testSampleLimit)}
	for _, r := range results {
		if r.Price != nil {
			q.WithPrice++
		}
		if r.Acreage > 0 {
			q.WithAcreage++
		}
		if hasLocation(r) {
			q.WithLocation++
		}
		if r.HasCoordinates() {
			q.WithCoordinates++
		}
	}
	return q
}

func hasLocation(c domain.ListingCandidate) bool {
	known := func(v string) bool { return v != "" && v != domain.UnknownLocation }
	return known(c.County) || known(c.State)
}

// Recommendations turns a test outcome into hints for whoever maintains the
// adapter.
func Recommendations(summary diagnostics.Summary, results []domain.ListingCandidate, searchErr error) []string {
	recs := make([]string, 0)

	if searchErr != nil {
		if isTimeout(searchErr) {
			recs = append(recs,
				"Increase timeout duration",
				"Check if website is blocking requests",
				"Consider using proxy service",
			)
		}
		var fetchErr *domain.FetchError
		if errors.As(searchErr, &fetchErr) {
			switch fetchErr.StatusCode {
			case http.StatusForbidden, http.StatusTooManyRequests:
				recs = append(recs,
					"Website is blocking requests - need better headers",
					"Implement request delays",
					"Consider rotating User-Agent strings",
				)
			case http.StatusNotFound:
				recs = append(recs,
					"URL structure may have changed",
					"Update search URL patterns",
				)
			}
		}
	}

	if len(results) == 0 && searchErr == nil {
		recs = append(recs,
			"HTML structure may have changed",
			"Update CSS selectors in adapter",
			"Check if website requires JavaScript rendering",
		)
	}

	if n := float64(len(results)); n > 0 {
		q := analyse(results)
		if float64(q.WithPrice)/n < 0.5 {
			recs = append(recs, "Price extraction needs improvement")
		}
		if float64(q.WithAcreage)/n < 0.5 {
			recs = append(recs, "Acreage parsing needs improvement")
		}
		if float64(q.WithLocation)/n < 0.5 {
			recs = append(recs, "Location extraction needs improvement")
		}
	}

	if summary.HasErrors {
		recs = append(recs, "Review error logs for specific issues")
	}
	if len(recs) == 0 {
		recs = append(recs, "Adapter is working correctly!")
	}
	return recs
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
