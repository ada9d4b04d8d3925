// Package listview filters and pages lists that are already loaded in memory.
package listview

import (
	"strings"

	"github.com/edvin/cdcadmin/internal/model"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Fields returns the searchable text of an item.
type Fields[T any] func(T) []string

// Filter keeps the items where any field contains query, ignoring case.
// An empty or blank query keeps every item. The input is never modified.
func Filter[T any](items []T, query string, fields Fields[T]) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q == "" || matches(fields(it), q) {
			out = append(out, it)
		}
	}
	return out
}

func matches(values []string, q string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Page is one slice of a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the requested page. page is clamped to the available
// range, so an empty list yields page 1 of 1 with no items.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * size
	end := min(start+size, total)

	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)
	return Page[T]{Items: out, Page: page, PageSize: size, Total: total, TotalPages: pages}
}

// View keeps the query and page of one list screen.
type View[T any] struct {
	fields   Fields[T]
	query    string
	page     int
	pageSize int
}

func NewView[T any](fields Fields[T], pageSize int) *View[T] {
	return &View[T]{fields: fields, page: 1, pageSize: pageSize}
}

// SetQuery changes the search text and returns to the first page.
func (v *View[T]) SetQuery(q string) {
	if q != v.query {
		v.query = q
		v.page = 1
	}
}

func (v *View[T]) SetPage(p int) { v.page = p }

func (v *View[T]) Query() string { return v.query }

// Apply filters and pages items with the view's state. The page is clamped
// and remembered, so a shrinking list does not strand the view past its end.
func (v *View[T]) Apply(items []T) Page[T] {
	pg := Paginate(Filter(items, v.query, v.fields), v.page, v.pageSize)
	v.page = pg.Page
	return pg
}

// ConnectionFields searches the name, engine (raw and display label), host,
// database, role and username.
func ConnectionFields(c model.Connection) []string {
	return []string{
		c.Name,
		c.DatabaseType,
		model.DatabaseTypeLabel(c.DatabaseType),
		c.Host,
		c.Database,
		c.ConnectionType,
		c.Username,
	}
}

func PipelineFields(p model.ETLPipeline) []string {
	return []string{p.Name, p.Description, p.SourceType, p.TargetType, p.Status}
}

func UserFields(u model.User) []string {
	return []string{u.Email, u.FullName, u.RoleName, u.Status}
}

func RunFields(r model.ETLRun) []string {
	return []string{r.PipelineName, r.Status, r.ID.String()}
}
