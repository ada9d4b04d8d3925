package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

func TestRenderState(t *testing.T) {
	st := store.State{
		Connections: []model.Connection{{ID: "1", Name: "orders", DatabaseType: "mysql", Host: "db1", Port: 3306}},
		Pipelines:   []model.ETLPipeline{{ID: "7", Name: "nightly", Status: "active"}},
		Errors:      map[string]string{"runs": "backend unavailable"},
		UpdatedAt:   time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	out := renderState("connections", st, listFlags{page: 1, size: 10})
	assert.Contains(t, out, "orders")
	assert.NotContains(t, out, "nightly")
	assert.Contains(t, out, "refresh of runs failed: backend unavailable")

	out = renderState("pipelines", st, listFlags{page: 1, size: 10, search: "night"})
	assert.Contains(t, out, "nightly")
}

func TestApply_StatusFilter(t *testing.T) {
	items := []model.ETLPipeline{
		{ID: "1", Name: "a", Status: "active"},
		{ID: "2", Name: "b", Status: "paused"},
		{ID: "3", Name: "c", Status: "Active"},
	}

	pg := apply(items, listFlags{status: "active", page: 1, size: 10}, func(p model.ETLPipeline) []string { return []string{p.Name} }, func(p model.ETLPipeline) string { return p.Status })

	assert.Equal(t, 2, pg.Total)
	assert.Equal(t, model.ID("1"), pg.Items[0].ID)
	assert.Equal(t, model.ID("3"), pg.Items[1].ID)
}
