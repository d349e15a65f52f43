package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"jobdesk-engine/internal/domain"
	"jobdesk-engine/internal/forms"
	"jobdesk-engine/internal/guard"
	"jobdesk-engine/internal/state"
)

type ProfileHandler struct {
	Store *state.Store
}

func (h ProfileHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.FetchCurrentProfile(r.Context())
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	// p == nil is the valid "no profile yet" answer
	writeJSON(w, map[string]any{
		"profile":    p,
		"hasProfile": p != nil,
	})
}

// GetByID expects /profile/{userId}.
func (h ProfileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimPrefix(r.URL.Path, "/profile/")
	if userID == "" || strings.Contains(userID, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /profile/{userId}")
		return
	}
	p, err := h.Store.FetchProfileByID(r.Context(), userID)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role string         `json:"role"`
		Form map[string]any `json:"form"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_role", err.Error())
		return
	}

	if errs := checkRoleForm(role, in.Form); errs != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"fieldErrors": errs})
		return
	}

	p, err := h.Store.CreateProfile(r.Context(), role, in.Form)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, p)
}

// checkRoleForm runs the role-specific declarative rules against the
// loosely typed form payload. Unknown keys pass through untouched; the
// rules only gate what they name.
func checkRoleForm(role domain.Role, form map[string]any) []forms.FieldError {
	str := func(k string) string {
		if v, ok := form[k].(string); ok {
			return v
		}
		return ""
	}
	num := func(k string) int {
		if v, ok := form[k].(float64); ok {
			return int(v)
		}
		return 0
	}
	switch role {
	case domain.RoleJobSeeker:
		var skills []string
		if vs, ok := form["skills"].([]any); ok {
			for _, v := range vs {
				if s, ok := v.(string); ok {
					skills = append(skills, s)
				}
			}
		}
		return forms.Check(forms.JobSeekerProfileForm{
			Title:     str("title"),
			Summary:   str("summary"),
			Skills:    skills,
			MinSalary: num("minSalary"),
			MaxSalary: num("maxSalary"),
		})
	case domain.RoleEmployer:
		return forms.Check(forms.EmployerProfileForm{
			CompanyName: str("companyName"),
			Description: str("description"),
			Industry:    str("industry"),
			CompanySize: str("companySize"),
			Website:     str("website"),
		})
	case domain.RoleAdmin:
		return nil
	}
	return nil
}

// EditField records one optimistic draft edit; nothing goes to the wire.
func (h ProfileHandler) EditField(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.Field) == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_field", "field name is required")
		return
	}
	h.Store.SetField(in.Field, in.Value)
	writeJSON(w, map[string]any{"dirty": h.Store.Dirty()})
}

func (h ProfileHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	err := h.Store.SaveDraft(r.Context())
	if errors.Is(err, state.ErrSaveInFlight) {
		WriteError(w, r, http.StatusConflict, "save_in_flight", err.Error())
		return
	}
	if errors.Is(err, state.ErrNoProfile) {
		WriteError(w, r, http.StatusBadRequest, "no_profile", err.Error())
		return
	}
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, h.Store.ProfileSnapshot())
}

// ResolveConflict picks one of the two exits from a version conflict.
func (h ProfileHandler) ResolveConflict(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Resolution string `json:"resolution"` // keep_local | discard
	}
	if !readJSON(w, r, &in) {
		return
	}

	var err error
	switch in.Resolution {
	case "keep_local":
		err = h.Store.ResolveConflictKeepLocal(r.Context())
	case "discard":
		err = h.Store.ResolveConflictDiscard(r.Context())
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_resolution", "resolution must be keep_local or discard")
		return
	}
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, h.Store.ProfileSnapshot())
}

func (h ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteProfile(r.Context()); err != nil {
		if errors.Is(err, state.ErrNoProfile) {
			WriteError(w, r, http.StatusBadRequest, "no_profile", err.Error())
			return
		}
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// Submit pushes the completed profile live. An incomplete profile routes
// the UI back to the role chooser with the failure message attached.
func (h ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	err := h.Store.SubmitProfile(r.Context())
	if errors.Is(err, state.ErrProfileIncomplete) || errors.Is(err, state.ErrNoProfile) {
		WriteRedirectError(w, r, http.StatusConflict, "profile_incomplete", err.Error(), guard.PathRoleChooser)
		return
	}
	if err != nil {
		WriteRedirectError(w, r, http.StatusBadGateway, "submit_failed", err.Error(), guard.PathRoleChooser)
		return
	}
	writeJSON(w, h.Store.ProfileSnapshot())
}

func (h ProfileHandler) Completion(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.ProfileSnapshot()
	if snap.Profile == nil {
		writeJSON(w, map[string]any{"percent": 0, "checklist": []state.ChecklistItem{}, "submittable": false})
		return
	}
	pct := state.CompletionPercent(snap.Profile)
	writeJSON(w, map[string]any{
		"percent":     pct,
		"checklist":   state.Checklist(snap.Profile),
		"submittable": pct >= state.SubmitThreshold,
	})
}

// Upload handles avatar/resume multipart coming from the UI and relays it
// to the backend.
func (h ProfileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_multipart", err.Error())
		return
	}
	kind := r.FormValue("kind")
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_multipart", "file part is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_multipart", err.Error())
		return
	}

	switch kind {
	case "avatar":
		err = h.Store.UploadAvatar(r.Context(), header.Filename, content, nil)
	case "resume":
		err = h.Store.UploadResume(r.Context(), header.Filename, content, nil)
	default:
		WriteError(w, r, http.StatusBadRequest, "bad_kind", "kind must be avatar or resume")
		return
	}
	if err != nil {
		if errors.Is(err, state.ErrNoProfile) {
			WriteError(w, r, http.StatusBadRequest, "no_profile", err.Error())
			return
		}
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, h.Store.ProfileSnapshot())
}

// SubEntity handles /profile/section/{kind} and
// /profile/section/{kind}/{id} for the nested job-seeker resources.
func (h ProfileHandler) SubEntity(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/profile/section/")
	parts := strings.SplitN(rest, "/", 2)
	kind, err := parseSubKind(parts[0])
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_kind", err.Error())
		return
	}
	subID := ""
	if len(parts) == 2 {
		subID = parts[1]
	}

	switch r.Method {
	case http.MethodPost:
		var payload map[string]any
		if !readJSON(w, r, &payload) {
			return
		}
		err = h.Store.AddSubEntity(r.Context(), kind, payload)
	case http.MethodPatch:
		if subID == "" {
			WriteError(w, r, http.StatusBadRequest, "bad_path", "sub-entity id is required")
			return
		}
		var payload map[string]any
		if !readJSON(w, r, &payload) {
			return
		}
		err = h.Store.UpdateSubEntity(r.Context(), kind, subID, payload)
	case http.MethodDelete:
		if subID == "" {
			WriteError(w, r, http.StatusBadRequest, "bad_path", "sub-entity id is required")
			return
		}
		err = h.Store.DeleteSubEntity(r.Context(), kind, subID)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err != nil {
		if errors.Is(err, state.ErrNoProfile) {
			WriteError(w, r, http.StatusBadRequest, "no_profile", err.Error())
			return
		}
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, h.Store.ProfileSnapshot())
}

func parseSubKind(s string) (domain.SubEntityKind, error) {
	switch domain.SubEntityKind(s) {
	case domain.SubExperience, domain.SubEducation, domain.SubProject, domain.SubCertification:
		return domain.SubEntityKind(s), nil
	}
	return "", errors.New("unknown section " + s)
}
