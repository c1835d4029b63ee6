package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list query may be ordered by. Anything
// outside the set falls back to the default column, so caller input never
// reaches the ORDER BY clause verbatim.
type sortColumns struct {
	allowed  map[string]struct{}
	fallback string
}

func newSortColumns(fallback string, columns ...string) sortColumns {
	allowed := make(map[string]struct{}, len(columns)+1)
	allowed[fallback] = struct{}{}
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return sortColumns{allowed: allowed, fallback: fallback}
}

// column returns the requested column if whitelisted, otherwise the fallback.
func (s sortColumns) column(requested string) string {
	requested = strings.TrimSpace(requested)
	if _, ok := s.allowed[requested]; ok {
		return requested
	}
	return s.fallback
}

// orderBy builds the ORDER BY expression. Direction defaults to descending
// unless "asc" is asked for in any case.
func (s sortColumns) orderBy(requested, direction string) clause.OrderByColumn {
	return clause.OrderByColumn{
		Column: clause.Column{Name: s.column(requested)},
		Desc:   !strings.EqualFold(strings.TrimSpace(direction), "asc"),
	}
}

var orderSortColumns = newSortColumns("created_at",
	"updated_at",
	"order_number",
	"status",
	"payment_status",
	"total",
	"expected_delivery_date",
)
