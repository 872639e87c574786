package port

import (
	"context"

	"land-scanner-service/internal/core/domain"
)

// ScanConfigProvider loads the validated admin configuration.
// Returns domain.ErrConfigNotFound or domain.ErrInvalidConfig (wrapped).
type ScanConfigProvider interface {
	Load(ctx context.Context) (domain.ScanConfig, error)
}
