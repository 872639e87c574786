package postgres

import (
	"context"
	"errors"
	"fmt"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/contracts"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScanConfigRowID is the admin_config key holding the scanner document.
const ScanConfigRowID = "scanner"

// ConfigStore implements port.ScanConfigProvider over the admin_config table
// the dashboard edits.
type ConfigStore struct {
	pool  *pgxpool.Pool
	rowID string
}

func NewConfigStore(pool *pgxpool.Pool) (*ConfigStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ConfigStore{pool: pool, rowID: ScanConfigRowID}, nil
}

func (s *ConfigStore) Load(ctx context.Context) (domain.ScanConfig, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ConfigStore",
		"method":    "Load",
	})

	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT config::text FROM admin_config WHERE id = $1`, s.rowID).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ScanConfig{}, fmt.Errorf("%w: admin_config row %q", domain.ErrConfigNotFound, s.rowID)
		}
		return domain.ScanConfig{}, fmt.Errorf("failed to load scan config: %w", err)
	}

	cfg, err := contracts.DecodeScanConfig(body)
	if err != nil {
		repoLogger.Warn("Scan config failed validation", port.Fields{"error": err.Error()})
		return domain.ScanConfig{}, err
	}
	return cfg, nil
}
