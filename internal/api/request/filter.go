package request

import (
	"net/http"
	"strings"
)

// ListParams holds pagination, search and filter parameters for list views.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	// Refresh forces a fresh fetch from the backend instead of serving the
	// last loaded list.
	Refresh bool
}

// ParseListParams extracts list parameters from the query string.
func ParseListParams(r *http.Request, defaultPageSize int) ListParams {
	pg := ParsePagination(r, defaultPageSize)
	q := r.URL.Query()
	return ListParams{
		Page:     pg.Page,
		PageSize: pg.PageSize,
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   strings.TrimSpace(q.Get("status")),
		Refresh:  q.Get("refresh") == "true" || q.Get("refresh") == "1",
	}
}
