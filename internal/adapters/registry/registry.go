// Package registry maps source identifiers to adapters. It is built once at
// startup and read-only afterwards.
package registry

import (
	"errors"
	"fmt"
	"time"

	"land-scanner-service/internal/adapters/hallhallfetcher"
	"land-scanner-service/internal/adapters/landwatchfetcher"
	"land-scanner-service/internal/core/port"
)

type entry struct {
	adapter port.SourceAdapter
	status  port.AdapterStatus
}

// Registry implements port.AdapterRegistry.
type Registry struct {
	order   []string
	entries map[string]entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds an adapter under its ID. A later registration with the same
// ID replaces the earlier one but keeps its position.
func (r *Registry) Register(a port.SourceAdapter, status port.AdapterStatus) {
	if _, exists := r.entries[a.ID()]; !exists {
		r.order = append(r.order, a.ID())
	}
	r.entries[a.ID()] = entry{adapter: a, status: status}
}

func (r *Registry) Get(id string) (port.SourceAdapter, bool) {
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.adapter, true
}

// List returns adapters in registration order.
func (r *Registry) List() []port.AdapterInfo {
	out := make([]port.AdapterInfo, 0, len(r.order))
	for _, id := range r.order {
		e := r.entries[id]
		out = append(out, port.AdapterInfo{ID: id, Name: e.adapter.Name(), Status: e.status})
	}
	return out
}

// Close releases every adapter that holds resources.
func (r *Registry) Close() error {
	var errs []error
	for _, id := range r.order {
		if c, ok := r.entries[id].adapter.(port.ClosableAdapter); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close adapter %s: %w", id, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Config holds what the built-in adapters need.
type Config struct {
	LandWatchBaseURL  string
	HallHallBaseURL   string
	Timeout           time.Duration
	RandomDelay       time.Duration
	BrowserEnabled    bool
	BrowserRatePerMin int
}

var stubSources = []struct{ id, name string }{
	{"landandfarm", "Land And Farm"},
	{"landsofamerica", "Lands of America"},
	{"whitetail", "Whitetail Properties"},
	{"unitedcountry", "United Country"},
	{"landleader", "LandLeader"},
	{"masonmorse", "Mason & Morse Ranch"},
	{"afm", "AFM Real Estate"},
	{"peoples", "Peoples Company"},
	{"nai", "NAI Land"},
	{"crexi", "Crexi"},
	{"loopnet", "LoopNet"},
}

// NewDefault registers the scraping adapters and a stub for every other
// known source.
func NewDefault(cfg Config) (*Registry, error) {
	r := New()

	lw, err := landwatchfetcher.NewLandWatchFetcherAdapter(cfg.LandWatchBaseURL, cfg.Timeout, cfg.RandomDelay)
	if err != nil {
		return nil, err
	}
	r.Register(lw, port.AdapterPartial)

	hh, err := hallhallfetcher.NewHallHallFetcherAdapter(cfg.HallHallBaseURL, cfg.Timeout, cfg.RandomDelay)
	if err != nil {
		return nil, err
	}
	r.Register(hh, port.AdapterPartial)

	for _, s := range stubSources {
		r.Register(NewStubAdapter(s.id, s.name), port.AdapterStub)
	}

	if cfg.BrowserEnabled {
		r.Register(hallhallfetcher.NewBrowserAdapter(cfg.HallHallBaseURL, cfg.Timeout, cfg.BrowserRatePerMin), port.AdapterPartial)
	}
	return r, nil
}
