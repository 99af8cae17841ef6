package postgres

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// applyPaginationAndSort orders by an allow-listed column and clamps the page size.
func applyPaginationAndSort(query *gorm.DB, table string, allowed map[string]bool, sortBy, sortOrder string, limit, offset int) *gorm.DB {
	if !allowed[sortBy] {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		order = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s.%s %s", table, sortBy, order))

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	query = query.Limit(limit)

	if offset > 0 {
		query = query.Offset(offset)
	}
	return query
}
