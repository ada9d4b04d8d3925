package core

import (
	"github.com/edvin/cdcadmin/internal/poller"
	"github.com/edvin/cdcadmin/internal/store"
)

// RefreshTasks returns the poller tasks that keep every store list current.
// They run with the backend client's own token.
func (s *Services) RefreshTasks() []poller.Task {
	return []poller.Task{
		{Name: store.TaskConnections, Run: s.Connection.Load},
		{Name: store.TaskPipelines, Run: s.Pipeline.Load},
		{Name: store.TaskRuns, Run: s.Pipeline.LoadRuns},
		{Name: store.TaskUsers, Run: s.User.Load},
	}
}
