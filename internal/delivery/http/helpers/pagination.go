package helpers

import (
	"math"
	"net/http"
	"strconv"

	"groupgetaway/internal/domain"
)

// Pagination query parameter defaults and limits.
const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ParsePagination reads page and page_size from the request query string and
// clamps them to valid ranges. Anything missing or unparseable falls back to
// the defaults rather than erroring; list endpoints always paginate.
func ParsePagination(r *http.Request) domain.PaginationParams {
	return domain.PaginationParams{
		Page:     queryInt(r, "page", DefaultPage, math.MaxInt),
		PageSize: queryInt(r, "page_size", DefaultPageSize, MaxPageSize),
	}
}

func queryInt(r *http.Request, key string, fallback, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return fallback
	}
	if v > max {
		return max
	}
	return v
}

// PaginationMeta is the pagination metadata included in paginated list responses.
// swagger:model PaginationMeta
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPaginationMeta builds PaginationMeta from the current page, page size and
// total row count. TotalPages is ceiling(total / pageSize), 0 when pageSize is 0.
func NewPaginationMeta(page, pageSize, total int) PaginationMeta {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationMeta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
