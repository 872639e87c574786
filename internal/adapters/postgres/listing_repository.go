package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const listingColumns = `id, parcel_id, source_id, external_id, url, title, COALESCE(description, ''),
	price, price_per_acre, status, photos, source_data, first_seen_at, last_seen_at, last_changed_at`

type ListingRepository struct {
	pool *pgxpool.Pool
}

func NewListingRepository(pool *pgxpool.Pool) (*ListingRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ListingRepository{pool: pool}, nil
}

func scanListing(row pgx.Row, l *domain.Listing) error {
	var status string
	if err := row.Scan(&l.ID, &l.ParcelID, &l.SourceID, &l.ExternalID, &l.URL, &l.Title, &l.Description,
		&l.Price, &l.PricePerAcre, &status, &l.Photos, &l.SourceData,
		&l.FirstSeenAt, &l.LastSeenAt, &l.LastChangedAt); err != nil {
		return err
	}
	l.Status = domain.ListingStatus(status)
	return nil
}

func (r *ListingRepository) FindByIdentity(ctx context.Context, sourceID, externalID string) (*domain.Listing, error) {
	var l domain.Listing
	err := scanListing(r.pool.QueryRow(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE source_id = $1 AND external_id = $2`, sourceID, externalID), &l)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find listing %s/%s: %w", sourceID, externalID, err)
	}
	return &l, nil
}

func (r *ListingRepository) ExistsForParcel(ctx context.Context, parcelID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM listings WHERE parcel_id = $1)`, parcelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check listings for parcel %s: %w", parcelID, err)
	}
	return exists, nil
}

func (r *ListingRepository) ListByParcel(ctx context.Context, parcelID uuid.UUID) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE parcel_id = $1 ORDER BY first_seen_at`, parcelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for parcel %s: %w", parcelID, err)
	}
	defer rows.Close()

	listings := make([]domain.Listing, 0)
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return listings, nil
}

func (r *ListingRepository) Create(ctx context.Context, l domain.Listing) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":  "ListingRepository",
		"method":     "Create",
		"listing_id": l.ID,
	})
	repoLogger.Debug("Executing query...", nil)

	_, err := r.pool.Exec(ctx, `INSERT INTO listings
		(id, parcel_id, source_id, external_id, url, title, description, price, price_per_acre,
		 status, photos, source_data, first_seen_at, last_seen_at, last_changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10, $11, $12, $13, $14, $15)`,
		l.ID, l.ParcelID, l.SourceID, l.ExternalID, l.URL, l.Title, l.Description, l.Price, l.PricePerAcre,
		string(l.Status), l.Photos, l.SourceData, l.FirstSeenAt, l.LastSeenAt, l.LastChangedAt)
	if err != nil {
		repoLogger.Error("Failed to insert listing", err, nil)
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) Update(ctx context.Context, l domain.Listing) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET
		title = $2, description = NULLIF($3, ''), price = $4, price_per_acre = $5, status = $6,
		photos = $7, last_seen_at = $8, last_changed_at = $9
		WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Price, l.PricePerAcre, string(l.Status), l.Photos, l.LastSeenAt, l.LastChangedAt)
	if err != nil {
		return fmt.Errorf("failed to update listing %s: %w", l.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) TouchLastSeen(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE listings SET last_seen_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to touch listing %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM listings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return n, nil
}
