package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/edvin/cdcadmin/internal/model"
)

func TestDashboardService_Get(t *testing.T) {
	b := &mockBackend{}
	st := newTestStore(t)
	svc := NewDashboardService(b, st, time.UTC)
	svc.now = func() time.Time { return testNow }

	since := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	b.On("ListMetrics", mock.Anything, since).Return([]model.MetricSample{
		{Timestamp: testNow.Add(-time.Hour), Replicated: 100, Synced: 90, Errors: 2},
	}, nil)
	b.On("ListEvents", mock.Anything, since).Return([]model.MonitoringEvent{
		{ID: "e1", Timestamp: testNow.Add(-2 * time.Hour), Level: "error"},
		{ID: "e2", Timestamp: testNow.Add(-time.Hour), Level: "info"},
	}, nil)
	b.On("ListConnections", mock.Anything).Return([]model.Connection{
		{ID: "1", ConnectionType: "source", LastTestStatus: "error"},
		{ID: "2", ConnectionType: "target"},
		{ID: "3", ConnectionType: "source"},
	}, nil)
	b.On("ListPipelines", mock.Anything).Return([]model.ETLPipeline{
		{ID: "p1", Status: "active"},
		{ID: "p2", Status: "paused"},
	}, nil)

	d, err := svc.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, d.Summary.Connections)
	assert.Equal(t, 2, d.Summary.SourceConnections)
	assert.Equal(t, 1, d.Summary.TargetConnections)
	assert.Equal(t, 1, d.Summary.FailedTests)
	assert.Equal(t, 2, d.Summary.Pipelines)
	assert.Equal(t, 1, d.Summary.ActivePipelines)
	assert.Equal(t, int64(100), d.Summary.Replicated)
	assert.Equal(t, int64(3), d.Summary.Errors)

	require.Len(t, d.Days, 7)
	assert.Equal(t, "2026-03-14", d.Days[6].Date)
	require.Len(t, d.RecentEvents, 2)
	assert.Equal(t, model.ID("e2"), d.RecentEvents[0].ID)

	snap := st.Snapshot()
	assert.Len(t, snap.Connections, 3)
	assert.Len(t, snap.Pipelines, 2)
}

func TestDashboardService_Get_Error(t *testing.T) {
	b := &mockBackend{}
	st := newTestStore(t)
	svc := NewDashboardService(b, st, time.UTC)

	b.On("ListMetrics", mock.Anything, mock.Anything).Return(nil, errors.New("metrics down"))
	b.On("ListEvents", mock.Anything, mock.Anything).Return([]model.MonitoringEvent{}, nil)
	b.On("ListConnections", mock.Anything).Return([]model.Connection{}, nil)
	b.On("ListPipelines", mock.Anything).Return([]model.ETLPipeline{}, nil)

	_, err := svc.Get(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list metrics")
	assert.Zero(t, st.Snapshot().Version)
}

func TestRecentEvents_Limit(t *testing.T) {
	events := make([]model.MonitoringEvent, 0, 30)
	for i := 0; i < 30; i++ {
		events = append(events, model.MonitoringEvent{Timestamp: testNow.Add(time.Duration(i) * time.Minute)})
	}
	out := recentEvents(events, RecentEventLimit)
	require.Len(t, out, RecentEventLimit)
	assert.Equal(t, testNow.Add(29*time.Minute), out[0].Timestamp)
	assert.NotNil(t, recentEvents(nil, 5))
}
