package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cdc_upstream_requests_total",
			Help: "Total number of requests sent to the CDC backend",
		},
		[]string{"method", "route", "status"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cdc_upstream_request_duration_seconds",
			Help:    "CDC backend request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	refreshLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "console_refresh_last_success_timestamp_seconds",
			Help: "Unix time of the last successful background refresh per task",
		},
		[]string{"task"},
	)

	refreshFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_refresh_failures_total",
			Help: "Total number of failed background refreshes per task",
		},
		[]string{"task"},
	)

	storeVersion = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "console_store_version",
		Help: "Number of state changes applied to the console store",
	})
)

// ObserveUpstream records one backend call. status 0 means the request never
// got a response.
func ObserveUpstream(method, route string, status int, d time.Duration) {
	upstreamRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	upstreamRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RefreshSucceeded marks a background refresh task as successful at t.
func RefreshSucceeded(task string, t time.Time) {
	refreshLastSuccess.WithLabelValues(task).Set(float64(t.Unix()))
}

// RefreshFailed counts a failed background refresh.
func RefreshFailed(task string) {
	refreshFailuresTotal.WithLabelValues(task).Inc()
}

// SetStoreVersion publishes the store's change counter.
func SetStoreVersion(v uint64) {
	storeVersion.Set(float64(v))
}
