package handler

import (
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

type Pipeline struct {
	svc      *core.PipelineService
	pageSize int
}

func NewPipeline(svc *core.PipelineService, pageSize int) *Pipeline {
	return &Pipeline{svc: svc, pageSize: pageSize}
}

// List returns a filtered page of pipelines.
//
//	@Summary      List pipelines
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Produce      json
//	@Param        search     query     string  false  "Substring match"
//	@Param        status     query     string  false  "Pipeline status"
//	@Param        page       query     int     false  "Page number"
//	@Param        page_size  query     int     false  "Page size (max 100)"
//	@Success      200  {object}  listview.Page[model.ETLPipeline]
//	@Router       /api/v1/pipelines [get]
func (h *Pipeline) List(w http.ResponseWriter, r *http.Request) {
	p := request.ParseListParams(r, h.pageSize)
	items, err := h.svc.List(r.Context(), p.Refresh)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, p, items, listview.PipelineFields, func(pl model.ETLPipeline) string { return pl.Status })
}

// Create resolves connection references and creates the pipeline.
//
//	@Summary      Create pipeline
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.PipelineForm  true  "Pipeline"
//	@Success      201   {object}  model.ETLPipeline
//	@Failure      404   {object}  response.ErrorResponse  "Selected connection not found"
//	@Failure      422   {object}  response.ErrorResponse
//	@Router       /api/v1/pipelines [post]
func (h *Pipeline) Create(w http.ResponseWriter, r *http.Request) {
	var form request.PipelineForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Create(r.Context(), form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, p)
}

// Update replaces a pipeline.
//
//	@Summary      Update pipeline
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        id    path      string                true  "Pipeline ID"
//	@Param        body  body      request.PipelineForm  true  "Pipeline"
//	@Success      200   {object}  model.ETLPipeline
//	@Router       /api/v1/pipelines/{id} [put]
func (h *Pipeline) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	var form request.PipelineForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.svc.Update(r.Context(), id, form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, p)
}

// Delete removes a pipeline.
//
//	@Summary      Delete pipeline
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Param        id  path  string  true  "Pipeline ID"
//	@Success      204
//	@Router       /api/v1/pipelines/{id} [delete]
func (h *Pipeline) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Run triggers a pipeline run.
//
//	@Summary      Run pipeline
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Produce      json
//	@Param        id  path      string  true  "Pipeline ID"
//	@Success      202 {object}  model.ETLRun
//	@Failure      409 {object}  response.ErrorResponse
//	@Router       /api/v1/pipelines/{id}/run [post]
func (h *Pipeline) Run(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	run, err := h.svc.Run(r.Context(), id)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusAccepted, run)
}

// Runs returns a filtered page of pipeline runs.
//
//	@Summary      List runs
//	@Tags         Pipelines
//	@Security     BearerAuth
//	@Produce      json
//	@Param        pipeline_id  query     string  false  "Only runs of this pipeline"
//	@Param        search       query     string  false  "Substring match on pipeline name, status and run ID"
//	@Param        status       query     string  false  "Run status"
//	@Param        page         query     int     false  "Page number"
//	@Param        page_size    query     int     false  "Page size (max 100)"
//	@Success      200  {object}  listview.Page[model.ETLRun]
//	@Router       /api/v1/runs [get]
func (h *Pipeline) Runs(w http.ResponseWriter, r *http.Request) {
	p := request.ParseListParams(r, h.pageSize)
	items, err := h.svc.Runs(r.Context(), r.URL.Query().Get("pipeline_id"), p.Refresh)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, p, items, listview.RunFields, func(run model.ETLRun) string { return run.Status })
}
