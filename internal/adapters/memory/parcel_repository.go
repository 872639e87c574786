package memory

import (
	"context"
	"sort"
	"strings"

	"land-scanner-service/internal/core/domain"
	"land-scanner-service/internal/core/fitscore"

	"github.com/google/uuid"
)

type ParcelRepository struct {
	db *db
}

// FindOrCreate holds the write lock for the whole lookup-then-insert.
func (r *ParcelRepository) FindOrCreate(ctx context.Context, m domain.ParcelMatch) (domain.Parcel, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Parcel{}, false, err
	}
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if m.APN != "" {
		for _, p := range r.db.parcels {
			if m.MatchesByAPN(p) {
				return p, false, nil
			}
		}
	}
	for _, p := range r.db.parcels {
		if m.MatchesByProximity(p) {
			return p, false, nil
		}
	}

	p := domain.NewParcel(m)
	r.db.parcels = append(r.db.parcels, p)
	return p, true, nil
}

func (r *ParcelRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Parcel, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, p := range r.db.parcels {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Parcel{}, domain.ErrParcelNotFound
}

func (r *ParcelRepository) Search(_ context.Context, filter domain.ParcelFilter, thresholds domain.Thresholds) (domain.SearchPage, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	matched := make([]domain.ParcelSummary, 0)
	for _, p := range r.db.parcels {
		if filter.State != "" && !strings.EqualFold(p.State, filter.State) {
			continue
		}
		if filter.MinAcreage != nil && p.Acreage < *filter.MinAcreage {
			continue
		}
		if filter.MaxAcreage != nil && p.Acreage > *filter.MaxAcreage {
			continue
		}

		summary := domain.ParcelSummary{Parcel: p, ListingCount: r.listingCountLocked(p.ID)}
		if s, ok := r.db.scores[p.ID]; ok {
			score := s.OverallScore
			summary.OverallScore = &score
			summary.AutoFailed = s.AutoFailed
			summary.Tier = fitscore.Tier(score, thresholds)
		}
		if filter.MinScore != nil && (summary.OverallScore == nil || *summary.OverallScore < *filter.MinScore) {
			continue
		}
		matched = append(matched, summary)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i].OverallScore, matched[j].OverallScore
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a > *b
		}
	})

	page := domain.SearchPage{Total: len(matched), Limit: filter.Limit, Offset: filter.Offset, Items: []domain.ParcelSummary{}}
	if filter.Offset >= len(matched) {
		return page, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	page.Items = matched[filter.Offset:end]
	return page, nil
}

func (r *ParcelRepository) listingCountLocked(parcelID uuid.UUID) int {
	n := 0
	for _, l := range r.db.listings {
		if l.ParcelID == parcelID {
			n++
		}
	}
	return n
}

func (r *ParcelRepository) Count(_ context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.parcels), nil
}
