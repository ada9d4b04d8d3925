package store

import (
	"slices"
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

// Command is a state transition. Commands are applied one at a time on the
// store's goroutine.
type Command interface {
	apply(s *State)
}

type ConnectionsLoaded struct{ Items []model.Connection }

func (c ConnectionsLoaded) apply(s *State) {
	s.Connections = cloneConnections(c.Items)
	loaded(s, TaskConnections)
}

// ConnectionSaved inserts or replaces a connection by id.
type ConnectionSaved struct{ Connection model.Connection }

func (c ConnectionSaved) apply(s *State) {
	conn := cloneConnections([]model.Connection{c.Connection})[0]
	i := slices.IndexFunc(s.Connections, func(x model.Connection) bool { return x.ID == conn.ID })
	if i >= 0 {
		s.Connections[i] = conn
		return
	}
	s.Connections = append(s.Connections, conn)
}

type ConnectionDeleted struct{ ID model.ID }

func (c ConnectionDeleted) apply(s *State) {
	s.Connections = slices.DeleteFunc(s.Connections, func(x model.Connection) bool { return x.ID == c.ID })
	delete(s.Tests, c.ID.String())
}

// TestStarted marks a connection test as in flight.
type TestStarted struct {
	Key string
	At  time.Time
}

func (c TestStarted) apply(s *State) {
	s.Tests[c.Key] = model.TestResult{State: model.TestTesting, TestedAt: c.At}
}

// TestFinished records a test outcome under Key. Connection is set for
// saved connections, whose last-test fields are updated too.
type TestFinished struct {
	Key        string
	Connection model.ID
	Result     model.TestResult
}

func (c TestFinished) apply(s *State) {
	s.Tests[c.Key] = c.Result
	if c.Connection == "" {
		return
	}
	i := slices.IndexFunc(s.Connections, func(x model.Connection) bool { return x.ID == c.Connection })
	if i < 0 {
		return
	}
	at := c.Result.TestedAt
	s.Connections[i].LastTestStatus = string(c.Result.State)
	s.Connections[i].LastTestedAt = &at
}

type PipelinesLoaded struct{ Items []model.ETLPipeline }

func (c PipelinesLoaded) apply(s *State) {
	s.Pipelines = clonePipelines(c.Items)
	loaded(s, TaskPipelines)
}

type PipelineSaved struct{ Pipeline model.ETLPipeline }

func (c PipelineSaved) apply(s *State) {
	p := clonePipelines([]model.ETLPipeline{c.Pipeline})[0]
	i := slices.IndexFunc(s.Pipelines, func(x model.ETLPipeline) bool { return x.ID == p.ID })
	if i >= 0 {
		s.Pipelines[i] = p
		return
	}
	s.Pipelines = append(s.Pipelines, p)
}

type PipelineDeleted struct{ ID model.ID }

func (c PipelineDeleted) apply(s *State) {
	s.Pipelines = slices.DeleteFunc(s.Pipelines, func(x model.ETLPipeline) bool { return x.ID == c.ID })
}

type RunsLoaded struct{ Items []model.ETLRun }

func (c RunsLoaded) apply(s *State) {
	s.Runs = cloneRuns(c.Items)
	loaded(s, TaskRuns)
}

type UsersLoaded struct{ Items []model.User }

func (c UsersLoaded) apply(s *State) {
	s.Users = append([]model.User(nil), c.Items...)
	loaded(s, TaskUsers)
}

type UserSaved struct{ User model.User }

func (c UserSaved) apply(s *State) {
	i := slices.IndexFunc(s.Users, func(x model.User) bool { return x.ID == c.User.ID })
	if i >= 0 {
		s.Users[i] = c.User
		return
	}
	s.Users = append(s.Users, c.User)
}

type UserDeleted struct{ ID model.ID }

func (c UserDeleted) apply(s *State) {
	s.Users = slices.DeleteFunc(s.Users, func(x model.User) bool { return x.ID == c.ID })
}

// RefreshFailed records a failed refresh. Previously loaded data is kept.
type RefreshFailed struct {
	Task string
	Err  string
}

func (c RefreshFailed) apply(s *State) {
	s.Errors[c.Task] = c.Err
}

// loaded stamps a task as fresh. UpdatedAt is set by the store before a
// command is applied.
func loaded(s *State, task string) {
	s.Loaded[task] = s.UpdatedAt
	delete(s.Errors, task)
}
