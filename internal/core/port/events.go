package port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

// ScanEventsPort publishes scan lifecycle events to other services.
type ScanEventsPort interface {
	PublishScanCompleted(ctx context.Context, event domain.ScanCompletedEvent) error
	PublishParcelScored(ctx context.Context, event domain.ParcelScoredEvent) error
}
