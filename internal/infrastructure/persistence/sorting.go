package persistence

import "strings"

// SortColumns whitelists the columns a listing may be ordered by. Anything a
// client asks for outside the list falls back to the listing's natural order.
type SortColumns struct {
	allowed  map[string]struct{}
	fallback string
}

func sortable(fallback string, columns ...string) SortColumns {
	allowed := map[string]struct{}{"id": {}, "created_at": {}, "updated_at": {}, fallback: {}}
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return SortColumns{allowed: allowed, fallback: fallback}
}

var (
	customerSorts    = sortable("created_at", "email", "first_name", "last_name", "city", "country")
	leadSorts        = sortable("created_at", "name", "email", "status", "source")
	productSorts     = sortable("created_at", "name", "slug", "category", "brand", "base_price", "status")
	orderSorts       = sortable("created_at", "order_number", "status", "total", "paid_at")
	appointmentSorts = sortable("scheduled_at", "type", "status", "name")
	userSorts        = sortable("created_at", "email", "name", "role", "last_login_at")
)

// Column resolves a requested column name, exact match only
func (s SortColumns) Column(requested string) string {
	requested = strings.TrimSpace(requested)
	if _, ok := s.allowed[requested]; ok && requested != "" {
		return requested
	}
	return s.fallback
}

// Clause renders the ORDER BY expression
func (s SortColumns) Clause(column, direction string) string {
	return s.Column(column) + " " + sortDirection(direction)
}

// sortDirection defaults to newest first
func sortDirection(direction string) string {
	if strings.EqualFold(strings.TrimSpace(direction), "asc") {
		return "ASC"
	}
	return "DESC"
}
