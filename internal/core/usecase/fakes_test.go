package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"
)

type staticConfig struct {
	cfg domain.ScanConfig
	err error
}

func (s staticConfig) Load(context.Context) (domain.ScanConfig, error) {
	return s.cfg, s.err
}

type fakeAdapter struct {
	id         string
	candidates []domain.ListingCandidate
	err        error
	details    domain.ListingCandidate
	detailsErr error
	calls      int
}

func (f *fakeAdapter) ID() string   { return f.id }
func (f *fakeAdapter) Name() string { return "Fake " + f.id }

func (f *fakeAdapter) Search(context.Context, domain.SearchParams) ([]domain.ListingCandidate, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeAdapter) GetDetails(_ context.Context, url string) (domain.ListingCandidate, error) {
	if f.detailsErr != nil {
		return domain.ListingCandidate{}, f.detailsErr
	}
	d := f.details
	d.URL = url
	return d, nil
}

type fakeRegistry map[string]port.SourceAdapter

func (r fakeRegistry) Get(id string) (port.SourceAdapter, bool) {
	a, ok := r[id]
	return a, ok
}

func (r fakeRegistry) List() []port.AdapterInfo {
	out := make([]port.AdapterInfo, 0, len(r))
	for id, a := range r {
		out = append(out, port.AdapterInfo{ID: id, Name: a.Name(), Status: port.AdapterPartial})
	}
	return out
}

type recordingSleeper struct {
	mu     sync.Mutex
	pauses []time.Duration
	onCall func()
	err    error
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.pauses = append(s.pauses, d)
	s.mu.Unlock()
	if s.onCall != nil {
		s.onCall()
	}
	if s.err != nil {
		return s.err
	}
	return ctx.Err()
}

type recordingEvents struct {
	mu        sync.Mutex
	completed []domain.ScanCompletedEvent
	scored    []domain.ParcelScoredEvent
	fail      bool
}

func (e *recordingEvents) PublishScanCompleted(_ context.Context, ev domain.ScanCompletedEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return errors.New("broker down")
	}
	e.completed = append(e.completed, ev)
	return nil
}

func (e *recordingEvents) PublishParcelScored(_ context.Context, ev domain.ParcelScoredEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fail {
		return errors.New("broker down")
	}
	e.scored = append(e.scored, ev)
	return nil
}

// failingListings fails Create for one URL.
type failingListings struct {
	port.ListingRepository
	failURL string
}

func (f failingListings) Create(ctx context.Context, l domain.Listing) error {
	if l.URL == f.failURL {
		return errors.New("insert failed")
	}
	return f.ListingRepository.Create(ctx, l)
}

func ptr(v float64) *float64 { return &v }

func candidate(sourceID, apn string, acreage float64) domain.ListingCandidate {
	return domain.ListingCandidate{
		SourceID:   sourceID,
		ExternalID: sourceID + "-" + apn,
		URL:        "https://" + sourceID + ".example.com/listing/" + apn,
		Title:      "Ranch " + apn,
		Acreage:    acreage,
		County:     "Halifax",
		State:      "VA",
		Price:      ptr(acreage * 3000),
		Status:     domain.ListingStatusListed,
		APN:        apn,
	}
}

func source(id string) domain.ListingSource {
	return domain.ListingSource{
		ID:              id,
		Name:            "Source " + id,
		Adapter:         id,
		Enabled:         true,
		CrawlFrequency:  "weekly",
		RateLimitPerMin: 6,
	}
}

func configWith(sources ...domain.ListingSource) domain.ScanConfig {
	cfg := domain.DefaultScanConfig()
	cfg.ListingSources = sources
	return cfg
}
