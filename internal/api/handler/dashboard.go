package handler

import (
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/core"
)

type Dashboard struct {
	svc *core.DashboardService
}

func NewDashboard(svc *core.DashboardService) *Dashboard {
	return &Dashboard{svc: svc}
}

// Get godoc
//
//	@Summary		Get dashboard
//	@Tags			Dashboard
//	@Security		BearerAuth
//	@Success		200	{object}	core.Dashboard
//	@Failure		502	{object}	response.ErrorResponse
//	@Router			/api/v1/dashboard [get]
func (h *Dashboard) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context())
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, d)
}
