package model

import "time"

// MetricSample is one replication throughput sample.
type MetricSample struct {
	Timestamp  time.Time `json:"timestamp"`
	Replicated int64     `json:"replicated"`
	Synced     int64     `json:"synced"`
	Errors     int64     `json:"errors"`
}

// Event levels.
const (
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// MonitoringEvent is an entry in the backend's event feed.
type MonitoringEvent struct {
	ID           ID        `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Level        string    `json:"level"`
	Type         string    `json:"type,omitempty"`
	Message      string    `json:"message"`
	ConnectionID ID        `json:"connection_id,omitempty"`
}
