package core

import (
	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/model"
)

// ResolveEndpoint builds the config of one pipeline side. In connection mode
// the selected connection is looked up in conns and copied into the config;
// any other mode returns the manually entered config unchanged. side is
// "source" or "target" and only affects error messages.
func ResolveEndpoint(side, mode, connectionID string, manual map[string]any, conns []model.Connection) (map[string]any, error) {
	if mode != model.EndpointModeConnection {
		return manual, nil
	}

	name, label := model.RoleSource, "Source"
	if side == model.RoleTarget {
		name, label = model.RoleTarget, "Target"
	}
	field := name + "_connection_id"

	if connectionID == "" {
		return nil, request.Invalid(field, label+" connection is required")
	}
	for _, c := range conns {
		if c.ID.String() == connectionID {
			return map[string]any{
				"connection_id":   c.ID,
				"connection_name": c.Name,
				"connection_type": c.DatabaseType,
				"host":            c.Host,
				"port":            c.Port,
				"database":        c.Database,
			}, nil
		}
	}
	return nil, &NotFoundError{
		Field:   field,
		Message: "Selected " + name + " connection not found",
	}
}
