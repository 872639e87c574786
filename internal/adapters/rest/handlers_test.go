package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
	"land-scanner-service/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                  {}
func (nopLogger) Warn(string, port.Fields)                  {}
func (nopLogger) Error(string, error, port.Fields)          {}
func (nopLogger) Debug(string, port.Fields)                 {}
func (n nopLogger) WithFields(port.Fields) port.LoggerPort { return n }

type fakeStartScan struct {
	err     error
	runType domain.RunType
}

func (f *fakeStartScan) Execute(_ context.Context, runType domain.RunType) error {
	f.runType = runType
	return f.err
}

type fakeRuns struct {
	runs  []domain.ScanRun
	limit int
}

func (f *fakeRuns) Execute(_ context.Context, limit int) ([]domain.ScanRun, error) {
	f.limit = limit
	return f.runs, nil
}

type fakeRun struct {
	run domain.ScanRun
	err error
}

func (f *fakeRun) Execute(context.Context, uuid.UUID) (domain.ScanRun, error) { return f.run, f.err }

type fakeListAdapters struct{}

func (fakeListAdapters) Execute(context.Context) []port.AdapterInfo {
	return []port.AdapterInfo{{ID: "landwatch", Name: "LandWatch", Status: port.AdapterPartial}}
}

type fakeTestAdapter struct {
	req usecases_port.AdapterTestRequest
	err error
}

func (f *fakeTestAdapter) Execute(_ context.Context, req usecases_port.AdapterTestRequest) (usecases_port.AdapterTestReport, error) {
	f.req = req
	if f.err != nil {
		return usecases_port.AdapterTestReport{}, f.err
	}
	return usecases_port.AdapterTestReport{Success: true, AdapterID: req.AdapterID, Results: []domain.ListingCandidate{}}, nil
}

type fakeProbe struct {
	result port.ProbeResult
	url    string
}

func (f *fakeProbe) Execute(_ context.Context, url string) port.ProbeResult {
	f.url = url
	return f.result
}

type fakeHealth struct{}

func (fakeHealth) Execute(context.Context) (domain.HealthStats, error) {
	return domain.HealthStats{ParcelCount: 3, SourcesTotal: 13}, nil
}

type fakeConfig struct{ err error }

func (f fakeConfig) Execute(context.Context) (domain.ScanConfig, error) {
	return domain.DefaultScanConfig(), f.err
}

type fakeSearch struct{ filter domain.ParcelFilter }

func (f *fakeSearch) Execute(_ context.Context, filter domain.ParcelFilter) (domain.SearchPage, error) {
	f.filter = filter
	return domain.SearchPage{Items: []domain.ParcelSummary{}, Limit: 20}, nil
}

type fakeDetails struct{ err error }

func (f fakeDetails) Execute(_ context.Context, id uuid.UUID) (domain.ParcelDetails, error) {
	return domain.ParcelDetails{Parcel: domain.Parcel{ID: id}}, f.err
}

type testDeps struct {
	start   *fakeStartScan
	runs    *fakeRuns
	run     *fakeRun
	test    *fakeTestAdapter
	probe   *fakeProbe
	search  *fakeSearch
	details fakeDetails
	config  fakeConfig
}

func newTestRouter(d *testDeps) http.Handler {
	if d.start == nil {
		d.start = &fakeStartScan{}
	}
	if d.runs == nil {
		d.runs = &fakeRuns{}
	}
	if d.run == nil {
		d.run = &fakeRun{}
	}
	if d.test == nil {
		d.test = &fakeTestAdapter{}
	}
	if d.probe == nil {
		d.probe = &fakeProbe{}
	}
	if d.search == nil {
		d.search = &fakeSearch{}
	}
	return NewRouter(ServerConfig{}, Handlers{
		Scans:   NewScanHandlers(d.start, d.runs, d.run),
		Admin:   NewAdminHandlers(fakeListAdapters{}, d.test, d.probe, fakeHealth{}, d.config),
		Parcels: NewParcelHandlers(d.search, d.details),
	}, nopLogger{})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), rec.Body.String())
	return m
}

func TestStartScanAccepted(t *testing.T) {
	d := &testDeps{}
	rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/scans", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Scan started successfully", body["message"])
	assert.Equal(t, "running", body["status"])
	assert.Equal(t, domain.RunTypeOnDemand, d.start.runType)
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestStartScanErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: scan_config.yaml", domain.ErrConfigNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad hour", domain.ErrInvalidConfig), http.StatusInternalServerError},
		{domain.ErrScanAlreadyRunning, http.StatusConflict},
		{domain.ErrOnDemandDisabled, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			d := &testDeps{start: &fakeStartScan{err: tt.err}}
			rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/scans", "")
			assert.Equal(t, tt.status, rec.Code)
			assert.NotEmpty(t, decode(t, rec)["error"])
		})
	}
}

func TestStartScanRejectsUnknownRunType(t *testing.T) {
	rec := do(t, newTestRouter(&testDeps{}), http.MethodPost, "/api/v1/scans", `{"runType":"hourly"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListScanRunsPassesLimit(t *testing.T) {
	d := &testDeps{runs: &fakeRuns{runs: []domain.ScanRun{{ID: uuid.New()}}}}
	rec := do(t, newTestRouter(d), http.MethodGet, "/api/v1/scans?limit=5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, d.runs.limit)

	rec = do(t, newTestRouter(d), http.MethodGet, "/api/v1/scans?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScanRun(t *testing.T) {
	rec := do(t, newTestRouter(&testDeps{}), http.MethodGet, "/api/v1/scans/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	d := &testDeps{run: &fakeRun{err: domain.ErrScanRunNotFound}}
	rec = do(t, newTestRouter(d), http.MethodGet, "/api/v1/scans/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	id := uuid.New()
	d = &testDeps{run: &fakeRun{run: domain.ScanRun{ID: id, Status: domain.ScanStatusCompleted}}}
	rec = do(t, newTestRouter(d), http.MethodGet, "/api/v1/scans/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), decode(t, rec)["id"])
}

func TestListAdapters(t *testing.T) {
	rec := do(t, newTestRouter(&testDeps{}), http.MethodGet, "/api/v1/admin/adapters", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"landwatch","name":"LandWatch","status":"partial"}]`, rec.Body.String())
}

func TestTestAdapterValidation(t *testing.T) {
	router := newTestRouter(&testDeps{})

	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/v1/admin/adapters/test", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodPost, "/api/v1/admin/adapters/test", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(t, router, http.MethodPost, "/api/v1/admin/adapters/test", `{"adapterId":"landwatch","testMode":"deep"}`).Code)
}

func TestTestAdapterUnknownAdapter(t *testing.T) {
	d := &testDeps{test: &fakeTestAdapter{err: fmt.Errorf("%w: zillow", domain.ErrAdapterNotFound)}}
	rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/admin/adapters/test", `{"adapterId":"zillow"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "zillow")
}

func TestTestAdapterPassesParams(t *testing.T) {
	d := &testDeps{}
	rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/admin/adapters/test",
		`{"adapterId":"hallhall","testMode":"detailed","testParams":{"states":["TX"],"minAcreage":50,"maxAcreage":900}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hallhall", d.test.req.AdapterID)
	assert.Equal(t, usecases_port.TestModeDetailed, d.test.req.Mode)
	require.NotNil(t, d.test.req.Params)
	assert.Equal(t, []string{"TX"}, d.test.req.Params.States)
	assert.Equal(t, 900.0, d.test.req.Params.MaxAcreage)
	assert.Equal(t, true, decode(t, rec)["success"])
}

func TestProbeConnectivityFailureShape(t *testing.T) {
	d := &testDeps{probe: &fakeProbe{result: port.ProbeResult{
		URL:            "https://example.invalid",
		Error:          "no such host",
		DurationMs:     12,
		IsNetworkError: true,
	}}}
	rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/admin/connectivity", `{"url":"https://example.invalid"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "no such host", body["error"])
	assert.Equal(t, true, body["isNetworkError"])
	assert.Equal(t, "https://example.invalid", d.probe.url)
}

func TestProbeConnectivityDefaultsURL(t *testing.T) {
	d := &testDeps{probe: &fakeProbe{result: port.ProbeResult{Success: true, Status: 200, Title: "LandWatch"}}}
	rec := do(t, newTestRouter(d), http.MethodPost, "/api/v1/admin/connectivity", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", d.probe.url)
	assert.Equal(t, "LandWatch", decode(t, rec)["title"])
}

func TestHealthAndConfig(t *testing.T) {
	router := newTestRouter(&testDeps{})

	rec := do(t, router, http.MethodGet, "/api/v1/admin/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), decode(t, rec)["parcelCount"])

	rec = do(t, router, http.MethodGet, "/api/v1/admin/config", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec), "listingSources")

	router = newTestRouter(&testDeps{config: fakeConfig{err: domain.ErrConfigNotFound}})
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, "/api/v1/admin/config", "").Code)
}

func TestSearchParcelsParsesFilters(t *testing.T) {
	d := &testDeps{}
	rec := do(t, newTestRouter(d), http.MethodGet,
		"/api/v1/parcels?state=va&minAcreage=100&maxAcreage=250.5&minScore=60&limit=10&offset=20", "")

	require.Equal(t, http.StatusOK, rec.Code)
	f := d.search.filter
	assert.Equal(t, "va", f.State)
	require.NotNil(t, f.MinAcreage)
	assert.Equal(t, 100.0, *f.MinAcreage)
	require.NotNil(t, f.MaxAcreage)
	assert.Equal(t, 250.5, *f.MaxAcreage)
	require.NotNil(t, f.MinScore)
	assert.Equal(t, 60, *f.MinScore)
	assert.Equal(t, 10, f.Limit)
	assert.Equal(t, 20, f.Offset)

	rec = do(t, newTestRouter(d), http.MethodGet, "/api/v1/parcels?minScore=high", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetParcel(t *testing.T) {
	rec := do(t, newTestRouter(&testDeps{details: fakeDetails{err: domain.ErrParcelNotFound}}),
		http.MethodGet, "/api/v1/parcels/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	id := uuid.New()
	rec = do(t, newTestRouter(&testDeps{}), http.MethodGet, "/api/v1/parcels/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, id.String(), decode(t, rec)["parcel"].(map[string]interface{})["id"])
}

func TestTraceIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/adapters", nil)
	req.Header.Set("X-Trace-ID", "abc-123")
	rec := httptest.NewRecorder()
	newTestRouter(&testDeps{}).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Trace-ID"))
}
