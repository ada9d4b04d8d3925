package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/api/response"
	"github.com/edvin/cdcadmin/internal/listview"
)

// requireID reads a URL parameter or writes a 400.
func requireID(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	id, err := request.RequireID(chi.URLParam(r, param))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return id, true
}

// writePage filters items by the search query and, when given, by status,
// then writes the requested page.
func writePage[T any](w http.ResponseWriter, p request.ListParams, items []T, fields listview.Fields[T], status func(T) string) {
	filtered := listview.Filter(items, p.Search, fields)
	if p.Status != "" && status != nil {
		kept := filtered[:0]
		for _, it := range filtered {
			if strings.EqualFold(status(it), p.Status) {
				kept = append(kept, it)
			}
		}
		filtered = kept
	}
	response.WriteJSON(w, http.StatusOK, listview.Paginate(filtered, p.Page, p.PageSize))
}
