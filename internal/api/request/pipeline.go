package request

import (
	"strings"

	"github.com/edvin/cdcadmin/internal/model"
)

// PipelineForm is the pipeline editor. When a side's type is "connection"
// the matching *ConnectionID selects a stored connection and the config
// field is ignored.
type PipelineForm struct {
	Name               string         `json:"name" validate:"required"`
	Description        string         `json:"description"`
	SourceType         string         `json:"source_type" validate:"required"`
	SourceConnectionID string         `json:"source_connection_id"`
	SourceConfig       map[string]any `json:"source_config"`
	TargetType         string         `json:"target_type" validate:"required"`
	TargetConnectionID string         `json:"target_connection_id"`
	TargetConfig       map[string]any `json:"target_config"`
	TransformationIDs  []model.ID     `json:"transformation_ids"`
	ScheduleConfig     map[string]any `json:"schedule_config"`
}

// Trim returns a copy with the text fields trimmed.
func (f PipelineForm) Trim() PipelineForm {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.SourceType = strings.TrimSpace(f.SourceType)
	f.SourceConnectionID = strings.TrimSpace(f.SourceConnectionID)
	f.TargetType = strings.TrimSpace(f.TargetType)
	f.TargetConnectionID = strings.TrimSpace(f.TargetConnectionID)
	return f
}

var pipelineMessages = messages{
	"name.required":        "Pipeline name is required",
	"source_type.required": "Source type is required",
	"target_type.required": "Target type is required",
}

// Validate checks the fields that do not depend on loaded connections.
func (f PipelineForm) Validate() error {
	return check(f, pipelineMessages)
}
