package postgres

import (
	"context"
	"fmt"

	"land-scanner-service/internal/core/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DebugLogStore struct {
	pool *pgxpool.Pool
}

func NewDebugLogStore(pool *pgxpool.Pool) (*DebugLogStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &DebugLogStore{pool: pool}, nil
}

func (s *DebugLogStore) SaveDebugLog(ctx context.Context, rec domain.DebugLogRecord) error {
	var data interface{}
	if len(rec.Data) > 0 {
		data = string(rec.Data)
	}
	_, err := s.pool.Exec(ctx, `INSERT INTO debug_logs (id, scan_run_id, context, level, message, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)`,
		rec.ID, rec.ScanRunID, rec.Context, rec.Level, rec.Message, data, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert debug log: %w", err)
	}
	return nil
}
