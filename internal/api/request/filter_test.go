package request

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/connections", nil)
	p := ParseListParams(r, 10)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Empty(t, p.Search)
	assert.Empty(t, p.Status)
	assert.False(t, p.Refresh)
}

func TestParseListParams_AllParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/connections?page=2&page_size=5&search=+maria+&status=active&refresh=true", nil)
	p := ParseListParams(r, 10)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 5, p.PageSize)
	assert.Equal(t, "maria", p.Search)
	assert.Equal(t, "active", p.Status)
	assert.True(t, p.Refresh)
}

func TestParseListParams_RefreshNumeric(t *testing.T) {
	r := httptest.NewRequest("GET", "/runs?refresh=1", nil)
	assert.True(t, ParseListParams(r, 10).Refresh)
}
