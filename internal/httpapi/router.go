package httpapi

import (
	"context"
	"net/http"
)

// NewMux wires all handlers. main() wraps the result in the middleware
// chain and owns the listener.
func NewMux(root context.Context, d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Auth
	ah := AuthHandler{Store: d.Store, Gate: d.Gate}
	mux.HandleFunc("/auth/me", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ah.Me,
	}))
	mux.HandleFunc("/auth/email", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.EmailCheck,
	}))
	mux.HandleFunc("/auth/login", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Login,
	}))
	mux.HandleFunc("/auth/register", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Register,
	}))
	mux.HandleFunc("/auth/logout", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ah.Logout,
	}))

	// Profile
	ph := ProfileHandler{Store: d.Store}
	mux.HandleFunc("/profile/me", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.GetCurrent,
	}))
	mux.HandleFunc("/profile", methodMux(map[string]http.HandlerFunc{
		http.MethodPost:   ph.Create,
		http.MethodDelete: ph.Delete,
	}))
	mux.HandleFunc("/profile/draft", methodMux(map[string]http.HandlerFunc{
		http.MethodPatch: ph.EditField,
	}))
	mux.HandleFunc("/profile/save", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.SaveDraft,
	}))
	mux.HandleFunc("/profile/conflict", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.ResolveConflict,
	}))
	mux.HandleFunc("/profile/submit", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Submit,
	}))
	mux.HandleFunc("/profile/completion", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Completion,
	}))
	mux.HandleFunc("/profile/upload", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: ph.Upload,
	}))
	mux.HandleFunc("/profile/section/", ph.SubEntity)
	mux.HandleFunc("/profile/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.GetByID,
	}))

	// Applications
	aph := ApplicationsHandler{Store: d.Store}
	mux.HandleFunc("/applications", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.List,
	}))
	mux.HandleFunc("/applications/my", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.Mine,
	}))
	mux.HandleFunc("/applications/search", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.Search,
	}))
	mux.HandleFunc("/applications/statistics", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.Statistics,
	}))
	mux.HandleFunc("/applications/apply/", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: aph.Apply,
	}))
	mux.HandleFunc("/applications/withdraw/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: aph.Withdraw,
	}))
	mux.HandleFunc("/applications/job/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.ForJob,
	}))
	mux.HandleFunc("/applications/status/", methodMux(map[string]http.HandlerFunc{
		http.MethodPut: aph.UpdateStatus,
	}))
	mux.HandleFunc("/applications/has-applied/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.HasApplied,
	}))
	mux.HandleFunc("/applications/", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: aph.GetByID,
	}))

	// Route guards
	gh := GuardHandler{Store: d.Store}
	mux.HandleFunc("/route/decide", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: gh.Decide,
	}))
	mux.HandleFunc("/route/smart", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: gh.Smart,
	}))

	// State + auto-save
	sh := StateHandler{Store: d.Store, AutoSaver: d.AutoSaver, Root: root}
	mux.HandleFunc("/state", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.Snapshot,
	}))
	mux.HandleFunc("/autosave", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sh.AutoSaveStatus,
	}))
	mux.HandleFunc("/autosave/enable", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.AutoSaveEnable,
	}))
	mux.HandleFunc("/autosave/disable", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sh.AutoSaveDisable,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	// Health
	hh := HealthHandler{}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Health,
	}))

	// "/" and anything unrouted gets the smart-redirect answer; unknown
	// client routes land wherever the probes say
	mux.HandleFunc("/", gh.Smart)

	return mux
}
