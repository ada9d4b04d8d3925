package request

import (
	"net/http"
	"strconv"
)

// Pagination holds parsed page parameters. Pages are 1-based.
type Pagination struct {
	Page     int
	PageSize int
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ParsePagination extracts page and page_size from query parameters.
// defaultSize applies when page_size is missing or invalid.
func ParsePagination(r *http.Request, defaultSize int) Pagination {
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	p := Pagination{Page: 1, PageSize: defaultSize}

	if s := r.URL.Query().Get("page"); s != "" {
		if page, err := strconv.Atoi(s); err == nil && page > 0 {
			p.Page = page
		}
	}
	if s := r.URL.Query().Get("page_size"); s != "" {
		if size, err := strconv.Atoi(s); err == nil && size > 0 {
			p.PageSize = size
		}
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	return p
}
