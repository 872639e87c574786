package postgres

import (
	"context"
	"errors"
	"fmt"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const scanRunColumns = `id, run_type, status, processed_count, new_count, updated_count,
	duplicate_count, error_count, errors, started_at, completed_at`

// ScanRunRepository is append-only: runs are created once and finished once.
type ScanRunRepository struct {
	pool *pgxpool.Pool
}

func NewScanRunRepository(pool *pgxpool.Pool) (*ScanRunRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ScanRunRepository{pool: pool}, nil
}

func scanRun(row pgx.Row, run *domain.ScanRun) error {
	var runType, status string
	if err := row.Scan(&run.ID, &runType, &status, &run.ProcessedCount, &run.NewCount, &run.UpdatedCount,
		&run.DuplicateCount, &run.ErrorCount, &run.Errors, &run.StartedAt, &run.CompletedAt); err != nil {
		return err
	}
	run.RunType = domain.RunType(runType)
	run.Status = domain.ScanStatus(status)
	return nil
}

func (r *ScanRunRepository) Create(ctx context.Context, run domain.ScanRun) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO scan_runs
		(id, run_type, status, processed_count, new_count, updated_count, duplicate_count, error_count, errors, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.ID, string(run.RunType), string(run.Status), run.ProcessedCount, run.NewCount, run.UpdatedCount,
		run.DuplicateCount, run.ErrorCount, run.Errors, run.StartedAt, run.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scan run: %w", err)
	}
	return nil
}

// Finish writes the final counters. A run that already reached a terminal
// state is left untouched and an error is returned.
func (r *ScanRunRepository) Finish(ctx context.Context, run domain.ScanRun) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "ScanRunRepository",
		"method":      "Finish",
		"scan_run_id": run.ID,
	})

	tag, err := r.pool.Exec(ctx, `UPDATE scan_runs SET
		status = $2, processed_count = $3, new_count = $4, updated_count = $5,
		duplicate_count = $6, error_count = $7, errors = $8, completed_at = $9
		WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
		run.ID, string(run.Status), run.ProcessedCount, run.NewCount, run.UpdatedCount,
		run.DuplicateCount, run.ErrorCount, run.Errors, run.CompletedAt)
	if err != nil {
		repoLogger.Error("Failed to finish scan run", err, nil)
		return fmt.Errorf("failed to finish scan run: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var current string
	err = r.pool.QueryRow(ctx, `SELECT status FROM scan_runs WHERE id = $1`, run.ID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrScanRunNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read scan run status: %w", err)
	}
	return fmt.Errorf("scan run %s is already %s", run.ID, current)
}

func (r *ScanRunRepository) CreateSource(ctx context.Context, src domain.ScanRunSource) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO scan_run_sources
		(id, scan_run_id, source_id, status, processed, errors, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8)`,
		src.ID, src.ScanRunID, src.SourceID, string(src.Status), src.Processed, src.Errors, src.StartedAt, src.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to insert scan run source: %w", err)
	}
	return nil
}

func (r *ScanRunRepository) FinishSource(ctx context.Context, src domain.ScanRunSource) error {
	tag, err := r.pool.Exec(ctx, `UPDATE scan_run_sources SET
		status = $2, processed = $3, errors = NULLIF($4, ''), completed_at = $5
		WHERE id = $1`,
		src.ID, string(src.Status), src.Processed, src.Errors, src.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to finish scan run source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScanRunNotFound
	}
	return nil
}

func (r *ScanRunRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.ScanRun, error) {
	var run domain.ScanRun
	if err := scanRun(r.pool.QueryRow(ctx, `SELECT `+scanRunColumns+` FROM scan_runs WHERE id = $1`, id), &run); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ScanRun{}, domain.ErrScanRunNotFound
		}
		return domain.ScanRun{}, fmt.Errorf("failed to get scan run %s: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, scan_run_id, source_id, status, processed,
			COALESCE(errors, ''), started_at, completed_at
		FROM scan_run_sources WHERE scan_run_id = $1 ORDER BY started_at`, id)
	if err != nil {
		return domain.ScanRun{}, fmt.Errorf("failed to list scan run sources: %w", err)
	}
	defer rows.Close()

	run.Sources = make([]domain.ScanRunSource, 0)
	for rows.Next() {
		var (
			s      domain.ScanRunSource
			status string
		)
		if err := rows.Scan(&s.ID, &s.ScanRunID, &s.SourceID, &status, &s.Processed,
			&s.Errors, &s.StartedAt, &s.CompletedAt); err != nil {
			return domain.ScanRun{}, fmt.Errorf("failed to scan scan run source: %w", err)
		}
		s.Status = domain.ScanStatus(status)
		run.Sources = append(run.Sources, s)
	}
	if err := rows.Err(); err != nil {
		return domain.ScanRun{}, fmt.Errorf("failed to iterate scan run sources: %w", err)
	}
	return run, nil
}

func (r *ScanRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	query := `SELECT ` + scanRunColumns + ` FROM scan_runs ORDER BY started_at DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan runs: %w", err)
	}
	defer rows.Close()

	runs := make([]domain.ScanRun, 0)
	for rows.Next() {
		var run domain.ScanRun
		if err := scanRun(rows, &run); err != nil {
			return nil, fmt.Errorf("failed to scan scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scan runs: %w", err)
	}
	return runs, nil
}

func (r *ScanRunRepository) Latest(ctx context.Context) (*domain.ScanRun, error) {
	var run domain.ScanRun
	err := scanRun(r.pool.QueryRow(ctx, `SELECT `+scanRunColumns+` FROM scan_runs ORDER BY started_at DESC LIMIT 1`), &run)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest scan run: %w", err)
	}
	return &run, nil
}
