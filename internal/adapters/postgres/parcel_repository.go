package postgres

import (
	"context"
	"errors"
	"fmt"

	"land-scanner-service/internal/contextkeys"
	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/fitscore"
	"land-scanner-service/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const parcelColumns = `p.id, COALESCE(p.apn, ''), p.acreage, p.centroid_lat, p.centroid_lon,
	p.county, p.state, COALESCE(p.address, ''), p.created_at, p.updated_at`

// ParcelRepository implements port.ParcelRepository.
type ParcelRepository struct {
	pool *pgxpool.Pool
}

func NewParcelRepository(pool *pgxpool.Pool) (*ParcelRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &ParcelRepository{pool: pool}, nil
}

func scanParcel(row pgx.Row, p *domain.Parcel) error {
	return row.Scan(&p.ID, &p.APN, &p.Acreage, &p.CentroidLat, &p.CentroidLon,
		&p.County, &p.State, &p.Address, &p.CreatedAt, &p.UpdatedAt)
}

// FindOrCreate runs the identity lookup and the insert in one transaction that
// holds advisory locks on the APN key and on every geohash cell a match could
// live in, so concurrent scans cannot create the same parcel twice.
func (r *ParcelRepository) FindOrCreate(ctx context.Context, m domain.ParcelMatch) (domain.Parcel, bool, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "FindOrCreate",
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Parcel{}, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, key := range lockKeys(m) {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, key); err != nil {
			return domain.Parcel{}, false, fmt.Errorf("failed to acquire parcel lock: %w", err)
		}
	}

	if m.APN != "" {
		var p domain.Parcel
		err := scanParcel(tx.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels p
			WHERE p.apn = $1 AND p.county = $2 AND p.state = $3
			ORDER BY p.created_at LIMIT 1`, m.APN, m.County, m.State), &p)
		switch {
		case err == nil:
			repoLogger.Debug("Parcel matched by APN", port.Fields{"parcel_id": p.ID})
			return p, false, tx.Commit(ctx)
		case !errors.Is(err, pgx.ErrNoRows):
			return domain.Parcel{}, false, fmt.Errorf("failed to find parcel by apn: %w", err)
		}
	}

	if cells := searchCells(m.Lat, m.Lon); cells != nil {
		var p domain.Parcel
		err := scanParcel(tx.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels p
			WHERE p.geohash = ANY($1)
			  AND p.centroid_lat BETWEEN $2 AND $3
			  AND p.centroid_lon BETWEEN $4 AND $5
			  AND p.acreage BETWEEN $6 AND $7
			ORDER BY p.created_at LIMIT 1`,
			cells,
			*m.Lat-domain.ParcelCoordinateTolerance, *m.Lat+domain.ParcelCoordinateTolerance,
			*m.Lon-domain.ParcelCoordinateTolerance, *m.Lon+domain.ParcelCoordinateTolerance,
			m.Acreage*domain.ParcelAcreageLowerRatio, m.Acreage*domain.ParcelAcreageUpperRatio,
		), &p)
		switch {
		case err == nil:
			repoLogger.Debug("Parcel matched by proximity", port.Fields{"parcel_id": p.ID})
			return p, false, tx.Commit(ctx)
		case !errors.Is(err, pgx.ErrNoRows):
			return domain.Parcel{}, false, fmt.Errorf("failed to find parcel by proximity: %w", err)
		}
	}

	p := domain.NewParcel(m)
	_, err = tx.Exec(ctx, `INSERT INTO parcels
		(id, apn, acreage, centroid_lat, centroid_lon, geohash, county, state, address, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, NULLIF($6, ''), $7, $8, NULLIF($9, ''), $10, $11)`,
		p.ID, p.APN, p.Acreage, p.CentroidLat, p.CentroidLon, parcelCell(p.CentroidLat, p.CentroidLon),
		p.County, p.State, p.Address, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return domain.Parcel{}, false, fmt.Errorf("failed to insert parcel: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Parcel{}, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	repoLogger.Debug("Parcel created", port.Fields{"parcel_id": p.ID})
	return p, true, nil
}

func (r *ParcelRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Parcel, error) {
	var p domain.Parcel
	err := scanParcel(r.pool.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels p WHERE p.id = $1`, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Parcel{}, domain.ErrParcelNotFound
		}
		return domain.Parcel{}, fmt.Errorf("failed to get parcel %s: %w", id, err)
	}
	return p, nil
}

// Search pages through parcels ordered by fit score, unscored parcels last.
func (r *ParcelRepository) Search(ctx context.Context, filter domain.ParcelFilter, thresholds domain.Thresholds) (domain.SearchPage, error) {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "ParcelRepository",
		"method":    "Search",
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	whereClause, args := applyParcelFilters(filter)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.SearchPage{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := `SELECT COUNT(*) FROM parcels p LEFT JOIN fit_scores fs ON fs.parcel_id = p.id ` + whereClause
	var total int
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		repoLogger.Error("Failed to count parcels", err, port.Fields{"query": countQuery})
		return domain.SearchPage{}, fmt.Errorf("failed to count parcels: %w", err)
	}

	page := domain.SearchPage{Items: []domain.ParcelSummary{}, Total: total, Limit: filter.Limit, Offset: filter.Offset}
	if total == 0 {
		return page, tx.Commit(ctx)
	}

	dataQuery := fmt.Sprintf(`SELECT %s, fs.overall_score, COALESCE(fs.auto_failed, false),
			(SELECT COUNT(*) FROM listings l WHERE l.parcel_id = p.id)
		FROM parcels p LEFT JOIN fit_scores fs ON fs.parcel_id = p.id
		%s
		ORDER BY fs.overall_score DESC NULLS LAST, p.created_at DESC, p.id
		LIMIT $%d OFFSET $%d`, parcelColumns, whereClause, len(args)+1, len(args)+2)

	rows, err := tx.Query(ctx, dataQuery, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		repoLogger.Error("Failed to search parcels", err, port.Fields{"query": dataQuery})
		return domain.SearchPage{}, fmt.Errorf("failed to search parcels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.ParcelSummary
		if err := rows.Scan(&s.ID, &s.APN, &s.Acreage, &s.CentroidLat, &s.CentroidLon,
			&s.County, &s.State, &s.Address, &s.CreatedAt, &s.UpdatedAt,
			&s.OverallScore, &s.AutoFailed, &s.ListingCount); err != nil {
			return domain.SearchPage{}, fmt.Errorf("failed to scan parcel: %w", err)
		}
		if s.OverallScore != nil {
			s.Tier = fitscore.Tier(*s.OverallScore, thresholds)
		}
		page.Items = append(page.Items, s)
	}
	if err := rows.Err(); err != nil {
		return domain.SearchPage{}, fmt.Errorf("failed to iterate parcels: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.SearchPage{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Parcels found", port.Fields{"total": total, "page_items": len(page.Items)})
	return page, nil
}

func (r *ParcelRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM parcels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count parcels: %w", err)
	}
	return n, nil
}
