package core

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"

	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

// ---------- Mock Backend ----------

// mockBackend implements the Backend interface for testing.
type mockBackend struct {
	mock.Mock
}

func (m *mockBackend) Login(ctx context.Context, email, password string) (*model.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *mockBackend) Me(ctx context.Context) (*model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockBackend) ListConnections(ctx context.Context) ([]model.Connection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Connection), args.Error(1)
}

func (m *mockBackend) CreateConnection(ctx context.Context, p model.ConnectionPayload) (*model.Connection, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *mockBackend) UpdateConnection(ctx context.Context, id model.ID, p model.ConnectionPayload) (*model.Connection, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Connection), args.Error(1)
}

func (m *mockBackend) DeleteConnection(ctx context.Context, id model.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) TestConnection(ctx context.Context, id model.ID) (model.TestResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.TestResult), args.Error(1)
}

func (m *mockBackend) TestConnectionPayload(ctx context.Context, p model.ConnectionPayload) (model.TestResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.TestResult), args.Error(1)
}

func (m *mockBackend) ListPipelines(ctx context.Context) ([]model.ETLPipeline, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ETLPipeline), args.Error(1)
}

func (m *mockBackend) CreatePipeline(ctx context.Context, p model.PipelinePayload) (*model.ETLPipeline, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ETLPipeline), args.Error(1)
}

func (m *mockBackend) UpdatePipeline(ctx context.Context, id model.ID, p model.PipelinePayload) (*model.ETLPipeline, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ETLPipeline), args.Error(1)
}

func (m *mockBackend) DeletePipeline(ctx context.Context, id model.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) RunPipeline(ctx context.Context, id model.ID) (*model.ETLRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ETLRun), args.Error(1)
}

func (m *mockBackend) ListRuns(ctx context.Context, pipelineID model.ID) ([]model.ETLRun, error) {
	args := m.Called(ctx, pipelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ETLRun), args.Error(1)
}

func (m *mockBackend) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockBackend) CreateUser(ctx context.Context, p model.UserPayload) (*model.User, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockBackend) UpdateUser(ctx context.Context, id model.ID, p model.UserPayload) (*model.User, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockBackend) DeleteUser(ctx context.Context, id model.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockBackend) ListRoles(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *mockBackend) ListMetrics(ctx context.Context, since time.Time) ([]model.MetricSample, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MetricSample), args.Error(1)
}

func (m *mockBackend) ListEvents(ctx context.Context, since time.Time) ([]model.MonitoringEvent, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MonitoringEvent), args.Error(1)
}

// ---------- Helpers ----------

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return store.New(ctx, zerolog.Nop(), store.WithClock(func() time.Time { return testNow }))
}
