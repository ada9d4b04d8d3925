package core

import (
	"context"
	"fmt"
	"time"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

type ConnectionService struct {
	backend Backend
	store   *store.Store
	now     func() time.Time
}

func NewConnectionService(backend Backend, st *store.Store) *ConnectionService {
	return &ConnectionService{backend: backend, store: st, now: time.Now}
}

// Load fetches the connection list and replaces the loaded copy.
func (s *ConnectionService) Load(ctx context.Context) error {
	items, err := s.backend.ListConnections(ctx)
	if err != nil {
		return fmt.Errorf("list connections: %w", err)
	}
	return s.store.Dispatch(store.ConnectionsLoaded{Items: items})
}

// List returns the loaded connections, fetching them first when they have
// never been loaded or refresh is set.
func (s *ConnectionService) List(ctx context.Context, refresh bool) ([]model.Connection, error) {
	if refresh || !s.store.Snapshot().HasLoaded(store.TaskConnections) {
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.Snapshot().Connections, nil
}

// Save creates the connection when id is empty and updates it otherwise.
// The form is validated before anything is sent; on any failure the loaded
// list is left as it was.
func (s *ConnectionService) Save(ctx context.Context, id string, form request.ConnectionForm) (*model.Connection, error) {
	payload, err := form.Payload()
	if err != nil {
		return nil, err
	}

	key := "connection:create:" + payload.Name
	if id != "" {
		key = "connection:update:" + id
	}
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	var conn *model.Connection
	if id == "" {
		conn, err = s.backend.CreateConnection(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("create connection: %w", err)
		}
	} else {
		conn, err = s.backend.UpdateConnection(ctx, model.ID(id), payload)
		if err != nil {
			return nil, fmt.Errorf("update connection %s: %w", id, err)
		}
	}

	if err := s.store.Dispatch(store.ConnectionSaved{Connection: *conn}); err != nil {
		return nil, err
	}
	return conn, nil
}

func (s *ConnectionService) Delete(ctx context.Context, id string) error {
	key := "connection:delete:" + id
	if err := s.store.Begin(key); err != nil {
		return err
	}
	defer s.store.End(key)

	if err := s.backend.DeleteConnection(ctx, model.ID(id)); err != nil {
		return fmt.Errorf("delete connection %s: %w", id, err)
	}
	return s.store.Dispatch(store.ConnectionDeleted{ID: model.ID(id)})
}

// TestTarget selects what to test: a saved connection by ID, or an unsaved
// form. Unsaved results are stored under DraftKey(Caller, Key).
type TestTarget struct {
	ID     string
	Form   *request.ConnectionForm
	Key    string
	Caller string
}

// DraftKey names the stored result of an unsaved test. It always starts
// with "draft" so it never matches a saved connection's ID, and carries the
// caller so concurrent operators do not share a slot.
func DraftKey(caller, name string) string {
	key := "draft"
	if caller != "" {
		key += ":" + caller
	}
	if name != "" {
		key += ":" + name
	}
	return key
}

// Test runs a connection test. The outcome, including backend and network
// failures, is reported in the result's state and recorded in the store.
// An error is only returned when no test was attempted.
func (s *ConnectionService) Test(ctx context.Context, target TestTarget) (model.TestResult, error) {
	var (
		key     string
		payload model.ConnectionPayload
	)
	switch {
	case target.ID != "":
		key = target.ID
	case target.Form != nil:
		p, err := target.Form.Payload()
		if err != nil {
			return model.TestResult{}, err
		}
		payload = p
		key = DraftKey(target.Caller, target.Key)
	default:
		return model.TestResult{}, request.Invalid("id", "Connection is required")
	}

	lock := "connection:test:" + key
	if err := s.store.Begin(lock); err != nil {
		return model.TestResult{}, err
	}
	defer s.store.End(lock)

	if err := s.store.Dispatch(store.TestStarted{Key: key, At: s.now()}); err != nil {
		return model.TestResult{}, err
	}

	var (
		res model.TestResult
		err error
	)
	if target.ID != "" {
		res, err = s.backend.TestConnection(ctx, model.ID(target.ID))
	} else {
		res, err = s.backend.TestConnectionPayload(ctx, payload)
	}
	if err != nil {
		res = model.TestResult{State: model.TestError, Message: fmt.Sprintf("Connection test failed: %v", err)}
	}
	if res.TestedAt.IsZero() {
		res.TestedAt = s.now()
	}

	if err := s.store.Dispatch(store.TestFinished{Key: key, Connection: model.ID(target.ID), Result: res}); err != nil {
		return res, err
	}
	return res, nil
}
