package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy for backend calls. Callers match with errors.Is; a 404
// on a single-entity GET is ErrNotFound and several callers treat it as
// valid absence (no profile yet) rather than a failure.
var (
	ErrNetwork    = errors.New("network failure")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrValidation = errors.New("validation rejected")
	ErrConflict   = errors.New("version conflict")
	ErrServer     = errors.New("server error")
)

type APIError struct {
	Status  int    // 0 when the request never got a response
	Message string // server-provided, human readable
	err     error  // sentinel for errors.Is
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("gateway: %s: %v", e.Message, e.err)
	}
	return fmt.Sprintf("gateway: %d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.err }

func netErr(op string, cause error) *APIError {
	return &APIError{Message: op, err: fmt.Errorf("%w: %v", ErrNetwork, cause)}
}

// classify maps a non-2xx response onto the taxonomy. The backend returns
// either a bare {"message": ...} or the legacy {"error": {"message": ...}}
// envelope; take whichever is present.
func classify(status int, body []byte) *APIError {
	msg := serverMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}

	var sentinel error
	switch {
	case status == http.StatusNotFound:
		sentinel = ErrNotFound
	case status == http.StatusForbidden:
		sentinel = ErrForbidden
	case status == http.StatusConflict:
		// Version conflict contract: PATCH carries the profile version,
		// backend answers 409 when it diverged.
		sentinel = ErrConflict
	case status >= 500:
		sentinel = ErrServer
	case status >= 400:
		sentinel = ErrValidation
	default:
		sentinel = ErrServer
	}
	return &APIError{Status: status, Message: msg, err: sentinel}
}

func serverMessage(body []byte) string {
	var flat struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &flat); err == nil && flat.Message != "" {
		return flat.Message
	}
	var wrapped struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Error.Message != "" {
		return wrapped.Error.Message
	}
	return ""
}
