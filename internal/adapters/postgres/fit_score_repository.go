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

type FitScoreRepository struct {
	pool *pgxpool.Pool
}

func NewFitScoreRepository(pool *pgxpool.Pool) (*FitScoreRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &FitScoreRepository{pool: pool}, nil
}

// Upsert overwrites the parcel's previous snapshot.
func (r *FitScoreRepository) Upsert(ctx context.Context, s domain.FitScore) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "FitScoreRepository",
		"method":    "Upsert",
		"parcel_id": s.ParcelID,
	})

	var reason *string
	if s.AutoFailReason != "" {
		reason = &s.AutoFailReason
	}
	topReasons := s.TopReasons
	if topReasons == nil {
		topReasons = []string{}
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO fit_scores
		(parcel_id, overall_score, score_breakdown, top_reasons, auto_failed, auto_fail_reason, computed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (parcel_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			score_breakdown = EXCLUDED.score_breakdown,
			top_reasons = EXCLUDED.top_reasons,
			auto_failed = EXCLUDED.auto_failed,
			auto_fail_reason = EXCLUDED.auto_fail_reason,
			computed_at = EXCLUDED.computed_at`,
		s.ParcelID, s.OverallScore, s.ScoreBreakdown, topReasons, s.AutoFailed, reason, s.ComputedAt)
	if err != nil {
		repoLogger.Error("Failed to upsert fit score", err, nil)
		return fmt.Errorf("failed to upsert fit score: %w", err)
	}
	return nil
}

func (r *FitScoreRepository) GetByParcel(ctx context.Context, parcelID uuid.UUID) (*domain.FitScore, error) {
	var s domain.FitScore
	err := r.pool.QueryRow(ctx, `SELECT parcel_id, overall_score, score_breakdown, top_reasons,
			auto_failed, COALESCE(auto_fail_reason, ''), computed_at
		FROM fit_scores WHERE parcel_id = $1`, parcelID).Scan(
		&s.ParcelID, &s.OverallScore, &s.ScoreBreakdown, &s.TopReasons,
		&s.AutoFailed, &s.AutoFailReason, &s.ComputedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fit score for parcel %s: %w", parcelID, err)
	}
	return &s, nil
}

// CountByTier counts high-tier parcels and medium-tier parcels below high.
func (r *FitScoreRepository) CountByTier(ctx context.Context, t domain.Thresholds) (int, int, error) {
	var high, medium int
	err := r.pool.QueryRow(ctx, `SELECT
			COUNT(*) FILTER (WHERE overall_score >= $1),
			COUNT(*) FILTER (WHERE overall_score >= $2 AND overall_score < $1)
		FROM fit_scores`, t.High, t.Medium).Scan(&high, &medium)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count fit scores by tier: %w", err)
	}
	return high, medium, nil
}
