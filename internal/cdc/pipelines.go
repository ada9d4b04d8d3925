package cdc

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/edvin/cdcadmin/internal/model"
)

func (c *Client) ListPipelines(ctx context.Context) ([]model.ETLPipeline, error) {
	return list[model.ETLPipeline](ctx, c, "/api/v1/etl/pipelines", "/api/v1/etl/pipelines")
}

func (c *Client) GetPipeline(ctx context.Context, id model.ID) (*model.ETLPipeline, error) {
	var p model.ETLPipeline
	if err := c.do(ctx, http.MethodGet, pipelinePath(id), "/api/v1/etl/pipelines/{id}", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreatePipeline(ctx context.Context, payload model.PipelinePayload) (*model.ETLPipeline, error) {
	var p model.ETLPipeline
	if err := c.do(ctx, http.MethodPost, "/api/v1/etl/pipelines", "/api/v1/etl/pipelines", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) UpdatePipeline(ctx context.Context, id model.ID, payload model.PipelinePayload) (*model.ETLPipeline, error) {
	var p model.ETLPipeline
	if err := c.do(ctx, http.MethodPut, pipelinePath(id), "/api/v1/etl/pipelines/{id}", payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) DeletePipeline(ctx context.Context, id model.ID) error {
	return c.do(ctx, http.MethodDelete, pipelinePath(id), "/api/v1/etl/pipelines/{id}", nil, nil)
}

// RunPipeline triggers an immediate run and returns it.
func (c *Client) RunPipeline(ctx context.Context, id model.ID) (*model.ETLRun, error) {
	var run model.ETLRun
	if err := c.do(ctx, http.MethodPost, pipelinePath(id)+"/run", "/api/v1/etl/pipelines/{id}/run", nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns recent runs, optionally restricted to one pipeline.
func (c *Client) ListRuns(ctx context.Context, pipelineID model.ID) ([]model.ETLRun, error) {
	path := "/api/v1/etl/runs"
	if pipelineID != "" {
		path += "?pipeline_id=" + url.QueryEscape(pipelineID.String())
	}
	return list[model.ETLRun](ctx, c, path, "/api/v1/etl/runs")
}

func pipelinePath(id model.ID) string {
	return fmt.Sprintf("/api/v1/etl/pipelines/%s", url.PathEscape(id.String()))
}
