package cli

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/dashboard"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

func TestConnectionsTable(t *testing.T) {
	pg := listview.Paginate([]model.Connection{
		{ID: "1", Name: "orders", DatabaseType: "mysql", ConnectionType: "source", Host: "db1", Port: 3306, Database: "orders", LastTestStatus: "error"},
	}, 1, 10)

	out := ConnectionsTable(pg)

	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "MySQL")
	assert.Contains(t, out, "db1:3306")
	assert.Contains(t, out, "page 1/1, 1 total")
}

func TestTable_Empty(t *testing.T) {
	assert.Contains(t, Table([]string{"A"}, nil), "(none)")
}

func TestPipelinesTable_ShowsConnectionNames(t *testing.T) {
	pg := listview.Paginate([]model.ETLPipeline{{
		ID: "4", Name: "sync", Status: "active",
		SourceType: "connection", SourceConfig: map[string]any{"connection_name": "orders"},
		TargetType: "s3",
	}}, 1, 10)

	out := PipelinesTable(pg)

	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "s3")
}

func TestDashboardView(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	d := &core.Dashboard{
		Summary: core.DashboardSummary{Connections: 3, Pipelines: 2, ActivePipelines: 1, Replicated: 120},
		Days:    dashboard.Aggregate(now, time.UTC, nil, nil),
		RecentEvents: []model.MonitoringEvent{
			{Timestamp: now, Level: "error", Message: "replication lag"},
		},
		GeneratedAt: now,
	}

	out := DashboardView(d)

	assert.Contains(t, out, "Connections 3")
	assert.Contains(t, out, "Replicated  120")
	assert.Contains(t, out, "replication lag")
}

func TestPrinter_JSONMode(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out, JSON: true}

	p.Title("ignored")
	p.Success("ignored")
	require.NoError(t, p.Value(map[string]int{"n": 1}, func() string { return "text" }))

	var v map[string]int
	require.NoError(t, json.Unmarshal(out.Bytes(), &v))
	assert.Equal(t, 1, v["n"])
}

func TestPrinter_TextMode(t *testing.T) {
	var out bytes.Buffer
	p := &Printer{Out: &out, Err: &out}

	require.NoError(t, p.Value(nil, func() string { return "rendered" }))
	p.Success("saved")

	assert.Contains(t, out.String(), "rendered")
	assert.Contains(t, out.String(), "saved")
}
