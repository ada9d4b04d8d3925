package model

// Pipeline and run status constants.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusPaused   = "paused"
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusRunning  = "running"
	StatusSuccess  = "success"
	StatusFailed   = "failed"
)

// Connection roles.
const (
	RoleSource = "source"
	RoleTarget = "target"
)

// EndpointModeConnection marks a pipeline end that refers to a stored connection
// instead of carrying a manually entered config.
const EndpointModeConnection = "connection"
