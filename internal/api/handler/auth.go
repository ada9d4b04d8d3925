package handler

import (
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/middleware"
	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/core"
	"github.com/edvin/cdcadmin/internal/model"
	"github.com/edvin/cdcadmin/internal/token"
)

type Auth struct {
	svc *core.AuthService
}

func NewAuth(svc *core.AuthService) *Auth {
	return &Auth{svc: svc}
}

// Login exchanges credentials for a backend access token.
//
//	@Summary      Authenticate operator
//	@Tags         Authentication
//	@Accept       json
//	@Produce      json
//	@Param        body  body      request.LoginForm  true  "Login credentials"
//	@Success      200   {object}  model.Session
//	@Failure      400   {object}  response.ErrorResponse
//	@Failure      401   {object}  response.ErrorResponse
//	@Router       /auth/login [post]
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginForm
	if err := request.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.svc.Login(r.Context(), req)
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, sess)
}

type meResponse struct {
	User  *model.User `json:"user"`
	Token *token.Info `json:"token,omitempty"`
}

// Me returns the signed-in operator.
//
//	@Summary      Current operator
//	@Tags         Authentication
//	@Security     BearerAuth
//	@Produce      json
//	@Success      200  {object}  meResponse
//	@Failure      401  {object}  response.ErrorResponse
//	@Router       /api/v1/me [get]
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Me(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, meResponse{User: u, Token: middleware.GetTokenInfo(r.Context())})
}
