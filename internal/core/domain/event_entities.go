package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScanCompletedEvent is published once a run reaches a terminal state.
type ScanCompletedEvent struct {
	ScanRunID      uuid.UUID  `json:"scanRunId"`
	RunType        RunType    `json:"runType"`
	Status         ScanStatus `json:"status"`
	ProcessedCount int        `json:"processedCount"`
	NewCount       int        `json:"newCount"`
	UpdatedCount   int        `json:"updatedCount"`
	DuplicateCount int        `json:"duplicateCount"`
	ErrorCount     int        `json:"errorCount"`
	FailedSources  []string   `json:"failedSources,omitempty"`
	NotifyEmails   []string   `json:"notifyEmails,omitempty"`
	CompletedAt    time.Time  `json:"completedAt"`
}

// ParcelScoredEvent is published whenever a parcel's fit score is recomputed.
type ParcelScoredEvent struct {
	ParcelID     uuid.UUID `json:"parcelId"`
	ScanRunID    uuid.UUID `json:"scanRunId"`
	OverallScore int       `json:"overallScore"`
	Tier         string    `json:"tier"`
	AutoFailed   bool      `json:"autoFailed"`
	TopReasons   []string  `json:"topReasons"`
	ComputedAt   time.Time `json:"computedAt"`
}
