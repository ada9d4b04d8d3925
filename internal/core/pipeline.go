package core

import (
	"context"
	"fmt"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/store"
)

type PipelineService struct {
	backend     Backend
	store       *store.Store
	connections *ConnectionService
}

func NewPipelineService(backend Backend, st *store.Store, connections *ConnectionService) *PipelineService {
	return &PipelineService{backend: backend, store: st, connections: connections}
}

func (s *PipelineService) Load(ctx context.Context) error {
	items, err := s.backend.ListPipelines(ctx)
	if err != nil {
		return fmt.Errorf("list pipelines: %w", err)
	}
	return s.store.Dispatch(store.PipelinesLoaded{Items: items})
}

func (s *PipelineService) List(ctx context.Context, refresh bool) ([]model.ETLPipeline, error) {
	if refresh || !s.store.Snapshot().HasLoaded(store.TaskPipelines) {
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.Snapshot().Pipelines, nil
}

// Payload validates the form and resolves both sides against the loaded
// connection list. Connections are fetched once if they were never loaded;
// a reference that is missing from the loaded list is reported, not
// refetched.
func (s *PipelineService) Payload(ctx context.Context, form request.PipelineForm) (model.PipelinePayload, error) {
	f := form.Trim()
	if err := f.Validate(); err != nil {
		return model.PipelinePayload{}, err
	}

	var conns []model.Connection
	if f.SourceType == model.EndpointModeConnection || f.TargetType == model.EndpointModeConnection {
		loaded, err := s.connections.List(ctx, false)
		if err != nil {
			return model.PipelinePayload{}, err
		}
		conns = loaded
	}

	source, err := ResolveEndpoint(model.RoleSource, f.SourceType, f.SourceConnectionID, f.SourceConfig, conns)
	if err != nil {
		return model.PipelinePayload{}, err
	}
	target, err := ResolveEndpoint(model.RoleTarget, f.TargetType, f.TargetConnectionID, f.TargetConfig, conns)
	if err != nil {
		return model.PipelinePayload{}, err
	}

	ids := f.TransformationIDs
	if ids == nil {
		ids = []model.ID{}
	}
	return model.PipelinePayload{
		Name:              f.Name,
		Description:       f.Description,
		SourceType:        f.SourceType,
		SourceConfig:      source,
		TargetType:        f.TargetType,
		TargetConfig:      target,
		TransformationIDs: ids,
		ScheduleConfig:    f.ScheduleConfig,
	}, nil
}

// Create validates and resolves the form, then creates the pipeline. Nothing
// is sent when validation or resolution fails.
func (s *PipelineService) Create(ctx context.Context, form request.PipelineForm) (*model.ETLPipeline, error) {
	payload, err := s.Payload(ctx, form)
	if err != nil {
		return nil, err
	}

	key := "pipeline:create:" + payload.Name
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	p, err := s.backend.CreatePipeline(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	if err := s.store.Dispatch(store.PipelineSaved{Pipeline: *p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PipelineService) Update(ctx context.Context, id string, form request.PipelineForm) (*model.ETLPipeline, error) {
	payload, err := s.Payload(ctx, form)
	if err != nil {
		return nil, err
	}

	key := "pipeline:update:" + id
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	p, err := s.backend.UpdatePipeline(ctx, model.ID(id), payload)
	if err != nil {
		return nil, fmt.Errorf("update pipeline %s: %w", id, err)
	}
	if err := s.store.Dispatch(store.PipelineSaved{Pipeline: *p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PipelineService) Delete(ctx context.Context, id string) error {
	key := "pipeline:delete:" + id
	if err := s.store.Begin(key); err != nil {
		return err
	}
	defer s.store.End(key)

	if err := s.backend.DeletePipeline(ctx, model.ID(id)); err != nil {
		return fmt.Errorf("delete pipeline %s: %w", id, err)
	}
	return s.store.Dispatch(store.PipelineDeleted{ID: model.ID(id)})
}

// Run triggers a pipeline run.
func (s *PipelineService) Run(ctx context.Context, id string) (*model.ETLRun, error) {
	key := "pipeline:run:" + id
	if err := s.store.Begin(key); err != nil {
		return nil, err
	}
	defer s.store.End(key)

	run, err := s.backend.RunPipeline(ctx, model.ID(id))
	if err != nil {
		return nil, fmt.Errorf("run pipeline %s: %w", id, err)
	}
	return run, nil
}

// LoadRuns fetches the runs of all pipelines.
func (s *PipelineService) LoadRuns(ctx context.Context) error {
	items, err := s.backend.ListRuns(ctx, "")
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	return s.store.Dispatch(store.RunsLoaded{Items: items})
}

// Runs returns runs of all pipelines from the loaded list, or the runs of
// one pipeline fetched directly when pipelineID is set.
func (s *PipelineService) Runs(ctx context.Context, pipelineID string, refresh bool) ([]model.ETLRun, error) {
	if pipelineID != "" {
		runs, err := s.backend.ListRuns(ctx, model.ID(pipelineID))
		if err != nil {
			return nil, fmt.Errorf("list runs for pipeline %s: %w", pipelineID, err)
		}
		return runs, nil
	}
	if refresh || !s.store.Snapshot().HasLoaded(store.TaskRuns) {
		if err := s.LoadRuns(ctx); err != nil {
			return nil, err
		}
	}
	return s.store.Snapshot().Runs, nil
}
