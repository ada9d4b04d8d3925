package request

import (
	"strconv"
	"strings"

	"github.com/edvin/cdcadmin/internal/model"
)

// DefaultPort is used when the port field is empty or not a valid port.
const DefaultPort = 3306

// engineAliases maps the engine names users type to the backend's
// database_type. Keys are lower-case.
var engineAliases = map[string]string{
	"mysql":      model.DatabaseMySQL,
	"mariadb":    model.DatabaseMySQL,
	"postgresql": model.DatabasePostgreSQL,
	"postgres":   model.DatabasePostgreSQL,
	"sqlserver":  model.DatabaseSQLServer,
	"mssql":      model.DatabaseSQLServer,
	"azuresql":   model.DatabaseSQLServer,
	"oracle":     model.DatabaseOracle,
	"mongodb":    model.DatabaseMongoDB,
	"mongo":      model.DatabaseMongoDB,
}

// ResolveDatabaseType maps an engine name to its database_type. Unknown
// engines are passed through trimmed.
func ResolveDatabaseType(engine string) string {
	engine = strings.TrimSpace(engine)
	if dt, ok := engineAliases[strings.ToLower(engine)]; ok {
		return dt
	}
	return engine
}

// ParsePort parses a port field, falling back to DefaultPort.
func ParsePort(s string) int {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > 65535 {
		return DefaultPort
	}
	return port
}

// ConnectionForm is the connection editor as the user filled it in. Port is
// kept as text since it arrives from free-form inputs.
type ConnectionForm struct {
	Name           string `json:"name"`
	Engine         string `json:"engine"`
	ConnectionType string `json:"connection_type"`
	Host           string `json:"host"`
	Port           string `json:"port"`
	Database       string `json:"database"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	SSLEnabled     bool   `json:"ssl_enabled"`
	Description    string `json:"description"`
	SchemaName     string `json:"schema_name"`
}

// Normalize converts the form into the payload sent to the backend. It does
// not validate.
func (f ConnectionForm) Normalize() model.ConnectionPayload {
	role := strings.ToLower(strings.TrimSpace(f.ConnectionType))
	if role == "" {
		role = model.RoleSource
	}
	return model.ConnectionPayload{
		Name:           strings.TrimSpace(f.Name),
		DatabaseType:   ResolveDatabaseType(f.Engine),
		ConnectionType: role,
		Host:           strings.TrimSpace(f.Host),
		Port:           ParsePort(f.Port),
		Database:       strings.TrimSpace(f.Database),
		Username:       strings.TrimSpace(f.Username),
		Password:       strings.TrimSpace(f.Password),
		SSLEnabled:     f.SSLEnabled,
		Description:    strings.TrimSpace(f.Description),
		SchemaName:     strings.TrimSpace(f.SchemaName),
	}
}

var connectionMessages = messages{
	"name.required":            "Connection name is required",
	"database_type.required":   "Database type is required",
	"host.required":            "Host is required",
	"database.required":        "Database name is required",
	"username.required":        "Username is required",
	"password.required":        "Password is required",
	"connection_type.oneof":    "Connection type must be source or target",
	"connection_type.required": "Connection type must be source or target",
}

// ValidateConnection checks a normalized payload. All failing fields are
// reported; the first one in field order is the error message.
func ValidateConnection(p model.ConnectionPayload) error {
	return check(p, connectionMessages)
}

// Payload normalizes and validates the form in one pass.
func (f ConnectionForm) Payload() (model.ConnectionPayload, error) {
	p := f.Normalize()
	if err := ValidateConnection(p); err != nil {
		return model.ConnectionPayload{}, err
	}
	return p, nil
}
