package model

import (
	"strings"
	"time"
)

// Canonical database_type values understood by the backend.
const (
	DatabaseMySQL      = "mysql"
	DatabasePostgreSQL = "postgresql"
	DatabaseSQLServer  = "sqlserver"
	DatabaseOracle     = "oracle"
	DatabaseMongoDB    = "mongodb"
)

// Connection is a stored endpoint/credential record as returned by the backend.
// Password is write-only and never sent back out of the console.
type Connection struct {
	ID             ID         `json:"id"`
	Name           string     `json:"name"`
	DatabaseType   string     `json:"database_type"`
	ConnectionType string     `json:"connection_type"`
	Host           string     `json:"host"`
	Port           int        `json:"port"`
	Database       string     `json:"database"`
	Username       string     `json:"username"`
	Password       string     `json:"-"`
	SSLEnabled     bool       `json:"ssl_enabled"`
	Description    string     `json:"description,omitempty"`
	SchemaName     string     `json:"schema_name,omitempty"`
	LastTestStatus string     `json:"last_test_status,omitempty"`
	LastTestedAt   *time.Time `json:"last_tested_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ConnectionPayload is the normalized body sent to the backend on create,
// update and unsaved-connection tests.
type ConnectionPayload struct {
	Name           string `json:"name" validate:"required"`
	DatabaseType   string `json:"database_type" validate:"required"`
	Host           string `json:"host" validate:"required"`
	Port           int    `json:"port"`
	Database       string `json:"database" validate:"required"`
	Username       string `json:"username" validate:"required"`
	Password       string `json:"password" validate:"required"`
	ConnectionType string `json:"connection_type" validate:"oneof=source target"`
	SSLEnabled     bool   `json:"ssl_enabled"`
	Description    string `json:"description,omitempty"`
	SchemaName     string `json:"schema_name,omitempty"`
}

var databaseTypeLabels = map[string]string{
	DatabaseMySQL:      "MySQL",
	DatabasePostgreSQL: "PostgreSQL",
	DatabaseSQLServer:  "SQL Server",
	DatabaseOracle:     "Oracle",
	DatabaseMongoDB:    "MongoDB",
}

// DatabaseTypeLabel returns the display label for a database_type, or the
// value itself when it has none.
func DatabaseTypeLabel(databaseType string) string {
	if label, ok := databaseTypeLabels[strings.ToLower(databaseType)]; ok {
		return label
	}
	return databaseType
}

// TestState is the state of a connection test as shown to the user.
type TestState string

const (
	TestTesting TestState = "testing"
	TestSuccess TestState = "success"
	TestError   TestState = "error"
)

// TestResult is the outcome of a connection test.
type TestResult struct {
	State    TestState `json:"state"`
	Message  string    `json:"message,omitempty"`
	TestedAt time.Time `json:"tested_at"`
}
