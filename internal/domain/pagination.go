package domain

// PaginationParams carries page-based pagination for the operator list queries.
// Pages are 1-based.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Limit returns the LIMIT value for a list query, guarding against an unset
// page size.
func (p PaginationParams) Limit() int {
	if p.PageSize < 1 {
		return 20
	}
	return p.PageSize
}

// Offset returns the 0-based row offset for the current page.
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit()
}
