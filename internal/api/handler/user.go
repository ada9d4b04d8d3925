package handler

import (
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/listview"
	"github.com/edvin/cdcadmin/internal/model"
)

type User struct {
	svc      *core.UserService
	pageSize int
}

func NewUser(svc *core.UserService, pageSize int) *User {
	return &User{svc: svc, pageSize: pageSize}
}

// List returns a filtered page of users.
//
//	@Summary      List users
//	@Tags         Users
//	@Security     BearerAuth
//	@Produce      json
//	@Param        search     query     string  false  "Substring match on email, name, role and status"
//	@Param        page       query     int     false  "Page number"
//	@Param        page_size  query     int     false  "Page size (max 100)"
//	@Success      200  {object}  listview.Page[model.User]
//	@Router       /api/v1/users [get]
func (h *User) List(w http.ResponseWriter, r *http.Request) {
	p := request.ParseListParams(r, h.pageSize)
	items, err := h.svc.List(r.Context(), p.Refresh)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	writePage(w, p, items, listview.UserFields, func(u model.User) string { return u.Status })
}

// Create adds a user.
//
//	@Summary      Create user
//	@Tags         Users
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.UserForm  true  "User"
//	@Success      201   {object}  model.User
//	@Failure      422   {object}  response.ErrorResponse
//	@Router       /api/v1/users [post]
func (h *User) Create(w http.ResponseWriter, r *http.Request) {
	var form request.UserForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Create(r.Context(), form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusCreated, u)
}

// Update changes a user.
//
//	@Summary      Update user
//	@Tags         Users
//	@Security     BearerAuth
//	@Accept       json
//	@Produce      json
//	@Param        id    path      string            true  "User ID"
//	@Param        body  body      request.UserForm  true  "User"
//	@Success      200   {object}  model.User
//	@Router       /api/v1/users/{id} [put]
func (h *User) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireID(w, r, "id")
	if !ok {
		return
	}
	var form request.UserForm
	if err := request.DecodeJSON(r, &form); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.svc.Update(r.Context(), id, form)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, u)
}

// Delete removes a user.
//
//	@Summary      Delete user
//	@Tags         Users
//	@Security     BearerAuth
//	@Param        id  path  string  true  "User ID"
//	@Success      204
//	@Router       /api/v1/users/{id} [delete]
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
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

// Roles lists assignable roles.
//
//	@Summary      List roles
//	@Tags         Users
//	@Security     BearerAuth
//	@Produce      json
//	@Success      200  {array}  model.Role
//	@Router       /api/v1/roles [get]
func (h *User) Roles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.svc.Roles(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	if roles == nil {
		roles = []model.Role{}
	}
	response.WriteJSON(w, http.StatusOK, map[string]any{"items": roles})
}
