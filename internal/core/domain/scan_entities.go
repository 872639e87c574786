package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunType tells how a scan was triggered.
type RunType string

const (
	RunTypeWeekly   RunType = "weekly"
	RunTypeOnDemand RunType = "on-demand"
)

// ScanStatus is the state of a scan run or of one of its sources.
type ScanStatus string

const (
	ScanStatusPending   ScanStatus = "pending"
	ScanStatusRunning   ScanStatus = "running"
	ScanStatusCompleted ScanStatus = "completed"
	ScanStatusFailed    ScanStatus = "failed"
)

// Terminal reports whether no further transition is allowed.
func (s ScanStatus) Terminal() bool {
	return s == ScanStatusCompleted || s == ScanStatusFailed
}

// ScanError is one entry of a run's serialized error list.
type ScanError struct {
	Source  string `json:"source"`
	Listing string `json:"listing,omitempty"`
	Error   string `json:"error"`
}

// ScanRun is one orchestrator execution across all enabled sources.
type ScanRun struct {
	ID             uuid.UUID       `json:"id"`
	RunType        RunType         `json:"runType"`
	Status         ScanStatus      `json:"status"`
	ProcessedCount int             `json:"processedCount"`
	NewCount       int             `json:"newCount"`
	UpdatedCount   int             `json:"updatedCount"`
	DuplicateCount int             `json:"duplicateCount"`
	ErrorCount     int             `json:"errorCount"`
	Errors         []ScanError     `json:"errors,omitempty"`
	StartedAt      time.Time       `json:"startedAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
	Sources        []ScanRunSource `json:"sources,omitempty"`
}

// NewScanRun creates a run in the running state.
func NewScanRun(runType RunType) ScanRun {
	return ScanRun{
		ID:        uuid.New(),
		RunType:   runType,
		Status:    ScanStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

// ScanRunSource is the per-source sub-run of a ScanRun.
type ScanRunSource struct {
	ID          uuid.UUID  `json:"id"`
	ScanRunID   uuid.UUID  `json:"scanRunId"`
	SourceID    string     `json:"sourceId"`
	Status      ScanStatus `json:"status"`
	Processed   int        `json:"processed"`
	Errors      string     `json:"errors,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// NewScanRunSource creates a source sub-run in the running state.
func NewScanRunSource(runID uuid.UUID, sourceID string) ScanRunSource {
	return ScanRunSource{
		ID:        uuid.New(),
		ScanRunID: runID,
		SourceID:  sourceID,
		Status:    ScanStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

// DebugLogRecord is a persisted diagnostic summary keyed to a scan run.
type DebugLogRecord struct {
	ID        uuid.UUID  `json:"id"`
	ScanRunID *uuid.UUID `json:"scanRunId,omitempty"`
	Context   string     `json:"context"`
	Level     string     `json:"level"`
	Message   string     `json:"message"`
	Data      []byte     `json:"data"`
	CreatedAt time.Time  `json:"createdAt"`
}

// HealthStats backs the admin health view.
type HealthStats struct {
	LatestScan     *ScanRun `json:"latestScan,omitempty"`
	ParcelCount    int      `json:"parcelCount"`
	ListingCount   int      `json:"listingCount"`
	HighFitCount   int      `json:"highFitCount"`
	MediumFitCount int      `json:"mediumFitCount"`
	SourcesTotal   int      `json:"sourcesTotal"`
	SourcesEnabled int      `json:"sourcesEnabled"`
}
