package handler

import (
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/middleware"
	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

type Connection struct {
	svc      *core.ConnectionService
	pageSize int
}

func NewConnection(svc *core.ConnectionService, pageSize int) *Connection {
	return &Connection{svc: svc, pageSize: pageSize}
}

// List returns a filtered page of connections.
//
//	@Summary      List connections
//	@Tags         Connections
//	@Security     BearerAuth
//	@Produce      json
//	@Param        search     query     string  false  "Substring match on name, engine, host, database, role and username"
//	@Param        status     query     string  false  "Last test status"
//	@Param        page       query     int     false  "Page number"
//	@Param        page_size  query     int     false  "Page size (max 100)"
//	@Param        refresh    query     bool    false  "Fetch from the backend first"
//	@Success      200  {object}  listview.Page[model.Connection]
//	@Failure      502  {object}  response.ErrorResponse
//	@Router       /api/v1/connections [get]
func (h *Connection) List(w http.ResponseWriter, r *http.Request) {
	p := request.ParseListParams(r, h.pageSize)
	items, err := h.svc.List(r.Context(), p.Refresh)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, p, items, listview.ConnectionFields, func(c model.Connection) string { return c.LastTestStatus })
}

// Create validates and stores a new connection.
//
//	@Summary      Create connection
//	@Tags         Connections
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.ConnectionForm  true  "Connection"
//	@Success      201   {object}  model.Connection
//	@Failure      422   {object}  response.ErrorResponse
//	@Failure      502   {object}  response.ErrorResponse
//	@Router       /api/v1/connections [post]
func (h *Connection) Create(w http.ResponseWriter, r *http.Request) {
	var form request.ConnectionForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.svc.Save(r.Context(), "", form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, conn)
}

// Update replaces a connection.
//
//	@Summary      Update connection
//	@Tags         Connections
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        id    path      string                  true  "Connection ID"
//	@Param        body  body      request.ConnectionForm  true  "Connection"
//	@Success      200   {object}  model.Connection
//	@Failure      422   {object}  response.ErrorResponse
//	@Router       /api/v1/connections/{id} [put]
func (h *Connection) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	var form request.ConnectionForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := h.svc.Save(r.Context(), id, form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, conn)
}

// Delete removes a connection.
//
//	@Summary      Delete connection
//	@Tags         Connections
//	@Security     BearerAuth
//	@Param        id  path  string  true  "Connection ID"
//	@Success      204
//	@Router       /api/v1/connections/{id} [delete]
func (h *Connection) Delete(w http.ResponseWriter, r *http.Request) {
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

// Test checks a saved connection. Failed tests are reported in the result
// with status 200.
//
//	@Summary      Test saved connection
//	@Tags         Connections
//	@Security     BearerAuth
//	@Produce      json
//	@Param        id  path      string  true  "Connection ID"
//	@Success      200 {object}  model.TestResult
//	@Failure      409 {object}  response.ErrorResponse
//	@Router       /api/v1/connections/{id}/test [post]
func (h *Connection) Test(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.svc.Test(r.Context(), core.TestTarget{ID: id})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}

// TestUnsaved checks connection settings before they are saved.
//
//	@Summary      Test unsaved connection
//	@Tags         Connections
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.ConnectionForm  true  "Connection"
//	@Param        key   query     string                  false "Names the result among the caller's drafts"
//	@Success      200   {object}  model.TestResult
//	@Failure      422   {object}  response.ErrorResponse
//	@Router       /api/v1/connections/test [post]
func (h *Connection) TestUnsaved(w http.ResponseWriter, r *http.Request) {
	var form request.ConnectionForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.svc.Test(r.Context(), core.TestTarget{
		Form:   &form,
		Key:    r.URL.Query().Get("key"),
		Caller: middleware.CallerKey(r.Context()),
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, res)
}
