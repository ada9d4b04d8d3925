package cdc

import (
	"context"
	"net/url"
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

// ListMetrics returns throughput samples recorded at or after since.
func (c *Client) ListMetrics(ctx context.Context, since time.Time) ([]model.MetricSample, error) {
	path := "/api/v1/monitoring/metrics?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	return list[model.MetricSample](ctx, c, path, "/api/v1/monitoring/metrics")
}

// ListEvents returns monitoring events recorded at or after since.
func (c *Client) ListEvents(ctx context.Context, since time.Time) ([]model.MonitoringEvent, error) {
	path := "/api/v1/monitoring/events?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	return list[model.MonitoringEvent](ctx, c, path, "/api/v1/monitoring/events")
}
