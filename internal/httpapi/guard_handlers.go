package httpapi

import (
	"context"
	"log"
	"net/http"

	"jobdesk-engine/internal/guard"
	"jobdesk-engine/internal/state"
)

type GuardHandler struct {
	Store *state.Store
}

// Decide evaluates the pure guard for a page:
// GET /route/decide?path=/dashboard&requireAuth=1&requireProfile=1
// A fetch_profile decision also kicks the profile fetch off so the UI only
// has to render its loading state and wait for the SSE transition.
func (h GuardHandler) Decide(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := guard.Requirements{
		RequireAuth:    q.Get("requireAuth") == "1" || q.Get("requireAuth") == "true",
		RequireProfile: q.Get("requireProfile") == "1" || q.Get("requireProfile") == "true",
	}
	path := q.Get("path")

	auth := h.Store.AuthSnapshot()
	profile := h.Store.ProfileSnapshot()

	res := guard.Evaluate(req, guard.Snapshot{
		Authenticated: auth.Authenticated,
		ProfileLoaded: profile.Loaded,
		Profile:       profile.Profile,
	}, path)

	if res.Decision == guard.FetchProfile {
		go func() {
			if _, err := h.Store.FetchCurrentProfile(context.Background()); err != nil {
				log.Printf("[guard] profile fetch: %v", err)
			}
		}()
	}

	writeJSON(w, res)
}

// Smart backs "/" and the 404 fallback with the two-step probe.
func (h GuardHandler) Smart(w http.ResponseWriter, r *http.Request) {
	target, err := guard.SmartRedirect(r.Context(), h.Store)
	if err != nil {
		// still a usable target; attach the probe failure for the UI
		writeJSON(w, map[string]any{"target": target, "error": err.Error()})
		return
	}
	writeJSON(w, map[string]any{"target": target})
}
