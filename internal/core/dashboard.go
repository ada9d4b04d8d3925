package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/edvin/cdcadmin/internal/dashboard"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

// RecentEventLimit caps the events returned with a dashboard.
const RecentEventLimit = 20

// DashboardSummary holds headline counts.
type DashboardSummary struct {
	Connections       int   `json:"connections"`
	SourceConnections int   `json:"source_connections"`
	TargetConnections int   `json:"target_connections"`
	FailedTests       int   `json:"failed_tests"`
	Pipelines         int   `json:"pipelines"`
	ActivePipelines   int   `json:"active_pipelines"`
	Replicated        int64 `json:"replicated"`
	Synced            int64 `json:"synced"`
	Errors            int64 `json:"errors"`
}

type Dashboard struct {
	Summary      DashboardSummary        `json:"summary"`
	Days         []dashboard.DayBucket   `json:"days"`
	RecentEvents []model.MonitoringEvent `json:"recent_events"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// DashboardService assembles the overview page from the backend.
type DashboardService struct {
	backend Backend
	store   *store.Store
	loc     *time.Location
	now     func() time.Time
}

func NewDashboardService(backend Backend, st *store.Store, loc *time.Location) *DashboardService {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{backend: backend, store: st, loc: loc, now: time.Now}
}

// Get fetches metrics, events, connections and pipelines concurrently and
// aggregates them. Connection and pipeline lists also refresh the store.
func (s *DashboardService) Get(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	since := dashboard.WindowStart(now, s.loc)

	var (
		samples   []model.MetricSample
		events    []model.MonitoringEvent
		conns     []model.Connection
		pipelines []model.ETLPipeline
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if samples, err = s.backend.ListMetrics(ctx, since); err != nil {
			return fmt.Errorf("list metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if events, err = s.backend.ListEvents(ctx, since); err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if conns, err = s.backend.ListConnections(ctx); err != nil {
			return fmt.Errorf("list connections: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if pipelines, err = s.backend.ListPipelines(ctx); err != nil {
			return fmt.Errorf("list pipelines: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.Dispatch(store.ConnectionsLoaded{Items: conns}); err != nil {
		return nil, err
	}
	if err := s.store.Dispatch(store.PipelinesLoaded{Items: pipelines}); err != nil {
		return nil, err
	}

	days := dashboard.Aggregate(now, s.loc, samples, events)
	totals := dashboard.Totals(days)

	d := &Dashboard{
		Summary: DashboardSummary{
			Connections: len(conns),
			Pipelines:   len(pipelines),
			Replicated:  totals.Replicated,
			Synced:      totals.Synced,
			Errors:      totals.Errors,
		},
		Days:         days,
		RecentEvents: recentEvents(events, RecentEventLimit),
		GeneratedAt:  now,
	}
	for _, c := range conns {
		switch c.ConnectionType {
		case model.RoleSource:
			d.Summary.SourceConnections++
		case model.RoleTarget:
			d.Summary.TargetConnections++
		}
		if c.LastTestStatus == model.StatusFailed || c.LastTestStatus == string(model.TestError) {
			d.Summary.FailedTests++
		}
	}
	for _, p := range pipelines {
		if p.Status == model.StatusActive || p.Status == model.StatusRunning {
			d.Summary.ActivePipelines++
		}
	}
	return d, nil
}

// recentEvents returns up to limit events, newest first.
func recentEvents(events []model.MonitoringEvent, limit int) []model.MonitoringEvent {
	out := slices.Clone(events)
	slices.SortStableFunc(out, func(a, b model.MonitoringEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []model.MonitoringEvent{}
	}
	return out
}
