package postgres

import (
	"fmt"
	"strings"

	"land-scanner-service/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
}

func (qb *queryBuilder) addCondition(condition string, field string, arg interface{}) {
	qb.args = append(qb.args, arg)
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, field, len(qb.args)))
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// applyParcelFilters expects parcels aliased p and fit_scores aliased fs.
func applyParcelFilters(f domain.ParcelFilter) (string, []interface{}) {
	qb := &queryBuilder{}
	if f.State != "" {
		qb.addCondition("%s = $%d", "p.state", strings.ToUpper(f.State))
	}
	if f.MinAcreage != nil {
		qb.addCondition("%s >= $%d", "p.acreage", *f.MinAcreage)
	}
	if f.MaxAcreage != nil {
		qb.addCondition("%s <= $%d", "p.acreage", *f.MaxAcreage)
	}
	if f.MinScore != nil {
		qb.addCondition("%s >= $%d", "fs.overall_score", *f.MinScore)
	}
	return qb.build()
}
