package httpapi

import (
	"context"
	"net/http"

	"jobdesk-engine/internal/state"
)

type StateHandler struct {
	Store     *state.Store
	AutoSaver *state.AutoSaver

	// Root is the engine's lifetime context; the auto-save loop hangs off
	// it, not off any request.
	Root context.Context
}

// Snapshot is the UI's render source: all three slices in one read.
func (h StateHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"auth":         h.Store.AuthSnapshot(),
		"profile":      h.Store.ProfileSnapshot(),
		"applications": h.Store.ApplicationSnapshot(),
	})
}

func (h StateHandler) AutoSaveStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"enabled": h.AutoSaver.Enabled()})
}

func (h StateHandler) AutoSaveEnable(w http.ResponseWriter, r *http.Request) {
	h.AutoSaver.Enable(h.Root)
	writeJSON(w, map[string]any{"enabled": true})
}

func (h StateHandler) AutoSaveDisable(w http.ResponseWriter, r *http.Request) {
	h.AutoSaver.Disable()
	writeJSON(w, map[string]any{"enabled": false})
}
