package persistence

import (
	"errors"
	"strings"

	"github.com/menswear/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors to domain errors. It relies on the dialector
// translating driver codes, which needs gorm.Config.TranslateError.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrCheckConstraintViolated):
		return shared.ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.ErrInvalidInput
	}
	return err
}

// applyPagination limits a query to one page of the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// applyOrder orders a query by a whitelisted column
func applyOrder(query *gorm.DB, filter shared.Filter, sorts SortColumns) *gorm.DB {
	return query.Order(sorts.Clause(filter.OrderBy, filter.OrderDir))
}

// searchPattern builds a case-insensitive LIKE pattern
func searchPattern(search string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(strings.TrimSpace(search)))
	return "%" + escaped + "%"
}

// likeAny matches the pattern against any of the columns
func likeAny(query *gorm.DB, pattern string, columns ...string) *gorm.DB {
	clauses := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, col := range columns {
		clauses[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
		args[i] = pattern
	}
	return query.Where("("+strings.Join(clauses, " OR ")+")", args...)
}
