package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/cdcadmin/internal/api/request"
	"github.com/edvin/cdcadmin/internal/cdc"
	"github.com/edvin/cdcadmin/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error  string               `json:"error"`
	Fields []request.FieldError `json:"fields,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// WriteServiceError maps a service error to a status code. Validation errors
// are 422 and carry every failing field, stale references are 404, duplicate
// in-flight actions are 409 and backend failures are 502 unless the backend
// answered 401, 403 or 404, which are passed through.
func WriteServiceError(w http.ResponseWriter, err error) {
	if ve, ok := request.AsValidationError(err); ok {
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ve.Error(), Fields: ve.Errors})
		return
	}

	var nf *core.NotFoundError
	switch {
	case errors.As(err, &nf):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:  nf.Message,
			Fields: []request.FieldError{{Field: nf.Field, Message: nf.Message}},
		})
		return
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, core.ErrInProgress):
		WriteError(w, http.StatusConflict, err.Error())
		return
	}

	if apiErr, ok := cdc.AsAPIError(err); ok {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			WriteError(w, apiErr.StatusCode, apiErr.Message)
		default:
			WriteError(w, http.StatusBadGateway, apiErr.Message)
		}
		return
	}

	WriteError(w, http.StatusInternalServerError, err.Error())
}
