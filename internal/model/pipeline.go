package model

import "time"

// ETLPipeline is a configured source -> transform -> target flow.
type ETLPipeline struct {
	ID                ID             `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	SourceType        string         `json:"source_type"`
	SourceConfig      map[string]any `json:"source_config"`
	TargetType        string         `json:"target_type"`
	TargetConfig      map[string]any `json:"target_config"`
	TransformationIDs []ID           `json:"transformation_ids"`
	ScheduleConfig    map[string]any `json:"schedule_config,omitempty"`
	Status            string         `json:"status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PipelinePayload is the body sent to the backend when creating or updating
// a pipeline. Both configs are already resolved.
type PipelinePayload struct {
	Name              string         `json:"name"`
	Description       string         `json:"description,omitempty"`
	SourceType        string         `json:"source_type"`
	SourceConfig      map[string]any `json:"source_config"`
	TargetType        string         `json:"target_type"`
	TargetConfig      map[string]any `json:"target_config"`
	TransformationIDs []ID           `json:"transformation_ids"`
	ScheduleConfig    map[string]any `json:"schedule_config,omitempty"`
}

// ETLRun is one execution of a pipeline.
type ETLRun struct {
	ID            ID         `json:"id"`
	PipelineID    ID         `json:"pipeline_id"`
	PipelineName  string     `json:"pipeline_name,omitempty"`
	Status        string     `json:"status"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	FinishedAt    *time.Time `json:"finished_at,omitempty"`
	RowsProcessed int64      `json:"rows_processed"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
