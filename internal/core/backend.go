package core

import (
	"context"
	"time"

	"github.com/edvin/cdcadmin/internal/model"
)

// Backend is the part of the CDC REST API the services call. *cdc.Client
// implements it.
type Backend interface {
	Login(ctx context.Context, email, password string) (*model.Session, error)
	Me(ctx context.Context) (*model.User, error)

	ListConnections(ctx context.Context) ([]model.Connection, error)
	CreateConnection(ctx context.Context, p model.ConnectionPayload) (*model.Connection, error)
	UpdateConnection(ctx context.Context, id model.ID, p model.ConnectionPayload) (*model.Connection, error)
	DeleteConnection(ctx context.Context, id model.ID) error
	TestConnection(ctx context.Context, id model.ID) (model.TestResult, error)
	TestConnectionPayload(ctx context.Context, p model.ConnectionPayload) (model.TestResult, error)

	ListPipelines(ctx context.Context) ([]model.ETLPipeline, error)
	CreatePipeline(ctx context.Context, p model.PipelinePayload) (*model.ETLPipeline, error)
	UpdatePipeline(ctx context.Context, id model.ID, p model.PipelinePayload) (*model.ETLPipeline, error)
	DeletePipeline(ctx context.Context, id model.ID) error
	RunPipeline(ctx context.Context, id model.ID) (*model.ETLRun, error)
	ListRuns(ctx context.Context, pipelineID model.ID) ([]model.ETLRun, error)

	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, p model.UserPayload) (*model.User, error)
	UpdateUser(ctx context.Context, id model.ID, p model.UserPayload) (*model.User, error)
	DeleteUser(ctx context.Context, id model.ID) error
	ListRoles(ctx context.Context) ([]model.Role, error)

	ListMetrics(ctx context.Context, since time.Time) ([]model.MetricSample, error)
	ListEvents(ctx context.Context, since time.Time) ([]model.MonitoringEvent, error)
}
