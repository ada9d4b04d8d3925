package store

import (
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

// Refresh task names, shared with the poller.
const (
	TaskConnections = "connections"
	TaskPipelines   = "pipelines"
	TaskRuns        = "runs"
	TaskUsers       = "users"
)

// State is the console's loaded data. Values handed out by the store are
// copies; mutating them has no effect on the store.
type State struct {
	Version     uint64              `json:"version"`
	Connections []model.Connection  `json:"connections"`
	Pipelines   []model.ETLPipeline `json:"pipelines"`
	Runs        []model.ETLRun      `json:"runs"`
	Users       []model.User        `json:"users"`
	// Tests holds the latest test result per connection id. Unsaved
	// connections are keyed by the caller's test key.
	Tests map[string]model.TestResult `json:"tests"`
	// Loaded records when each task last completed successfully.
	Loaded map[string]time.Time `json:"loaded"`
	// Errors holds the last refresh error per task until the next success.
	Errors    map[string]string `json:"errors,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// HasLoaded reports whether the task has completed at least once.
func (s State) HasLoaded(task string) bool {
	_, ok := s.Loaded[task]
	return ok
}

// Connection returns the loaded connection with the given id.
func (s State) Connection(id string) (model.Connection, bool) {
	for _, c := range s.Connections {
		if c.ID.String() == id {
			return c, true
		}
	}
	return model.Connection{}, false
}

func newState() State {
	return State{
		Tests:  map[string]model.TestResult{},
		Loaded: map[string]time.Time{},
		Errors: map[string]string{},
	}
}

func (s State) clone() State {
	out := s
	out.Connections = cloneConnections(s.Connections)
	out.Pipelines = clonePipelines(s.Pipelines)
	out.Runs = cloneRuns(s.Runs)
	out.Users = append([]model.User(nil), s.Users...)
	out.Tests = make(map[string]model.TestResult, len(s.Tests))
	for k, v := range s.Tests {
		out.Tests[k] = v
	}
	out.Loaded = make(map[string]time.Time, len(s.Loaded))
	for k, v := range s.Loaded {
		out.Loaded[k] = v
	}
	out.Errors = make(map[string]string, len(s.Errors))
	for k, v := range s.Errors {
		out.Errors[k] = v
	}
	return out
}

func cloneConnections(in []model.Connection) []model.Connection {
	if in == nil {
		return nil
	}
	out := make([]model.Connection, len(in))
	for i, c := range in {
		if c.LastTestedAt != nil {
			t := *c.LastTestedAt
			c.LastTestedAt = &t
		}
		out[i] = c
	}
	return out
}

func clonePipelines(in []model.ETLPipeline) []model.ETLPipeline {
	if in == nil {
		return nil
	}
	out := make([]model.ETLPipeline, len(in))
	for i, p := range in {
		p.SourceConfig = cloneMap(p.SourceConfig)
		p.TargetConfig = cloneMap(p.TargetConfig)
		p.ScheduleConfig = cloneMap(p.ScheduleConfig)
		p.TransformationIDs = append([]model.ID(nil), p.TransformationIDs...)
		out[i] = p
	}
	return out
}

func cloneRuns(in []model.ETLRun) []model.ETLRun {
	if in == nil {
		return nil
	}
	out := make([]model.ETLRun, len(in))
	for i, r := range in {
		if r.StartedAt != nil {
			t := *r.StartedAt
			r.StartedAt = &t
		}
		if r.FinishedAt != nil {
			t := *r.FinishedAt
			r.FinishedAt = &t
		}
		out[i] = r
	}
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
