package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"jobdesk-engine/internal/gateway"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		Redirect  string `json:"redirect,omitempty"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteRedirectError is for failures that should route the UI somewhere,
// like a failed submit bouncing back to the role chooser with the message
// attached.
func WriteRedirectError(w http.ResponseWriter, r *http.Request, status int, code, message, redirect string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.Redirect = redirect
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// WriteGatewayError maps a backend failure onto a local status so the UI
// can tell absence, auth trouble, bad input, conflicts, and a dead
// backend apart.
func WriteGatewayError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, gateway.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, gateway.ErrForbidden):
		WriteError(w, r, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, gateway.ErrConflict):
		WriteError(w, r, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, gateway.ErrValidation):
		WriteError(w, r, http.StatusBadRequest, "validation", err.Error())
	case errors.Is(err, gateway.ErrNetwork):
		WriteError(w, r, http.StatusBadGateway, "upstream_unreachable", err.Error())
	case errors.Is(err, gateway.ErrServer):
		WriteError(w, r, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
