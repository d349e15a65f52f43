package httpapi

import (
	"net/http"

	"jobdesk-engine/internal/forms"
	"jobdesk-engine/internal/guard"
	"jobdesk-engine/internal/state"
)

type AuthHandler struct {
	Store *state.Store
	Gate  *guard.EmailGate
}

// Me runs the idempotent session probe. Unauthenticated is a normal
// answer, not an error status.
func (h AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := h.Store.CheckStatus(r.Context())
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{
		"authenticated": id != nil,
		"identity":      id,
	})
}

// EmailCheck is the first step of the linear auth flow; it sets the
// short-lived marker login/register insist on.
func (h AuthHandler) EmailCheck(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	if !h.Gate.Supply(in.Email) {
		WriteError(w, r, http.StatusBadRequest, "bad_email", "not a well-formed email address")
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email, ok := h.Gate.Admit()
	if !ok {
		WriteRedirectError(w, r, http.StatusForbidden, "email_check_required",
			"supply your email first", guard.PathAuth)
		return
	}

	var in struct {
		Password string `json:"password"`
	}
	if !readJSON(w, r, &in) {
		return
	}

	form := forms.LoginForm{Email: email, Password: in.Password}
	if errs := forms.Check(form); errs != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"fieldErrors": errs})
		return
	}

	id, err := h.Store.Login(r.Context(), email, in.Password)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	h.Gate.Clear()
	writeJSON(w, id)
}

func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	email, ok := h.Gate.Admit()
	if !ok {
		WriteRedirectError(w, r, http.StatusForbidden, "email_check_required",
			"supply your email first", guard.PathAuth)
		return
	}

	var in struct {
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
	}
	if !readJSON(w, r, &in) {
		return
	}

	form := forms.RegisterForm{
		Email:           email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
	}
	if errs := forms.Check(form); errs != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"fieldErrors": errs})
		return
	}

	id, err := h.Store.Register(r.Context(), state.RegisterInput{
		Email:     email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
	})
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	h.Gate.Clear()
	writeJSON(w, id)
}

func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Logout(r.Context()); err != nil {
		// slices are already reset; tell the UI but with the backend's story
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
