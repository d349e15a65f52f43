package httpapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"jobdesk-engine/internal/gateway"
)

func seekerPayload(id string, version int, extra map[string]any) map[string]any {
	doc := map[string]any{
		"profileType": "job_seeker",
		"id":          id,
		"firstName":   "Ada",
		"lastName":    "Lovelace",
		"version":     version,
	}
	for k, v := range extra {
		doc[k] = v
	}
	return doc
}

func TestGetCurrentProfileAbsence(t *testing.T) {
	api := newTestAPI(t)
	api.be.fail("GET /profile/me", gateway.ErrNotFound)

	res, raw := api.request(t, http.MethodGet, "/profile/me", nil)
	require.Equal(t, http.StatusOK, res.StatusCode, "no profile yet is a valid answer")

	var out map[string]any
	decode(t, raw, &out)
	require.Equal(t, false, out["hasProfile"])
}

func TestCreateProfileRejectsBadRole(t *testing.T) {
	api := newTestAPI(t)
	res, raw := api.request(t, http.MethodPost, "/profile", map[string]any{
		"role": "astronaut",
		"form": map[string]any{},
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var apiErr APIError
	decode(t, raw, &apiErr)
	require.Equal(t, "bad_role", apiErr.Error.Code)
}

func TestCreateProfileValidatesForm(t *testing.T) {
	api := newTestAPI(t)
	res, raw := api.request(t, http.MethodPost, "/profile", map[string]any{
		"role": "employer",
		"form": map[string]any{"companyName": "A"}, // too short, everything else missing
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	var out struct {
		FieldErrors []map[string]string `json:"fieldErrors"`
	}
	decode(t, raw, &out)
	require.NotEmpty(t, out.FieldErrors)
	require.Zero(t, api.be.callCount("POST /profile"))
}

func TestCreateProfileHappyPath(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("POST /profile", seekerPayload("p1", 1, map[string]any{
		"title":   "Backend Engineer",
		"summary": "Ten years of Go and distributed systems.",
	}))

	res, _ := api.request(t, http.MethodPost, "/profile", map[string]any{
		"role": "job_seeker",
		"form": map[string]any{
			"title":   "Backend Engineer",
			"summary": "Ten years of Go and distributed systems.",
		},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.True(t, api.store.ProfileSnapshot().HasProfile)
}

func TestDraftEditAndSave(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/me", seekerPayload("p1", 1, nil))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)

	res, raw := api.request(t, http.MethodPatch, "/profile/draft", map[string]any{
		"field": "title", "value": "SRE",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var dirty map[string]bool
	decode(t, raw, &dirty)
	require.True(t, dirty["dirty"])

	api.be.set("PATCH /profile/p1", seekerPayload("p1", 2, map[string]any{"title": "SRE"}))
	res, raw = api.request(t, http.MethodPost, "/profile/save", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var snap struct {
		Dirty bool `json:"dirty"`
	}
	decode(t, raw, &snap)
	require.False(t, snap.Dirty)
}

func TestDraftEditRequiresFieldName(t *testing.T) {
	api := newTestAPI(t)
	res, _ := api.request(t, http.MethodPatch, "/profile/draft", map[string]any{
		"field": "  ", "value": 1,
	})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSaveConflictSurfacesAsConflict(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/me", seekerPayload("p1", 1, nil))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)
	_, _ = api.request(t, http.MethodPatch, "/profile/draft", map[string]any{"field": "title", "value": "SRE"})

	api.be.fail("PATCH /profile/p1", gateway.ErrConflict)
	res, raw := api.request(t, http.MethodPost, "/profile/save", nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	var apiErr APIError
	decode(t, raw, &apiErr)
	require.Equal(t, "conflict", apiErr.Error.Code)
	require.True(t, api.store.ProfileSnapshot().Conflict)
}

func TestResolveConflictDiscard(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/me", seekerPayload("p1", 1, nil))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)
	_, _ = api.request(t, http.MethodPatch, "/profile/draft", map[string]any{"field": "title", "value": "SRE"})

	api.be.fail("PATCH /profile/p1", gateway.ErrConflict)
	_, _ = api.request(t, http.MethodPost, "/profile/save", nil)

	api.be.set("GET /profile/me", seekerPayload("p1", 5, nil))
	res, raw := api.request(t, http.MethodPost, "/profile/conflict", map[string]any{"resolution": "discard"})
	require.Equal(t, http.StatusOK, res.StatusCode)

	var snap struct {
		Dirty    bool `json:"dirty"`
		Conflict bool `json:"conflict"`
	}
	decode(t, raw, &snap)
	require.False(t, snap.Conflict)
	require.False(t, snap.Dirty)
}

func TestResolveConflictRejectsUnknownResolution(t *testing.T) {
	api := newTestAPI(t)
	res, _ := api.request(t, http.MethodPost, "/profile/conflict", map[string]any{"resolution": "merge"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestSubmitIncompleteRedirectsToRoleChooser(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/me", seekerPayload("p1", 1, map[string]any{"title": "Dev"}))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)

	res, raw := api.request(t, http.MethodPost, "/profile/submit", nil)
	require.Equal(t, http.StatusConflict, res.StatusCode)

	var apiErr APIError
	decode(t, raw, &apiErr)
	require.Equal(t, "profile_incomplete", apiErr.Error.Code)
	require.Equal(t, "/auth/choose-role", apiErr.Error.Redirect)
	require.Zero(t, api.be.callCount("POST /profile/p1/submit"))
}

func TestCompletionEndpoint(t *testing.T) {
	api := newTestAPI(t)

	// no profile: 0%, not submittable
	_, raw := api.request(t, http.MethodGet, "/profile/completion", nil)
	var out struct {
		Percent     int  `json:"percent"`
		Submittable bool `json:"submittable"`
	}
	decode(t, raw, &out)
	require.Zero(t, out.Percent)
	require.False(t, out.Submittable)

	api.be.set("GET /profile/me", seekerPayload("p1", 1, map[string]any{
		"title":   "Dev",
		"summary": "s",
		"skills":  []string{"go"},
	}))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)

	_, raw = api.request(t, http.MethodGet, "/profile/completion", nil)
	decode(t, raw, &out)
	require.Equal(t, 75, out.Percent)
	require.True(t, out.Submittable)
}

func TestSubEntityRoutes(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/me", seekerPayload("p1", 1, nil))
	_, _ = api.request(t, http.MethodGet, "/profile/me", nil)

	api.be.set("POST /profile/p1/experience", seekerPayload("p1", 2, map[string]any{
		"experience": []map[string]any{{"id": "e1", "company": "Acme", "title": "Dev"}},
	}))
	res, _ := api.request(t, http.MethodPost, "/profile/section/experience", map[string]any{
		"company": "Acme", "title": "Dev",
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	// unknown section
	res, _ = api.request(t, http.MethodPost, "/profile/section/hobbies", map[string]any{})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	// delete without an id
	res, _ = api.request(t, http.MethodDelete, "/profile/section/experience", nil)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	api.be.set("DELETE /profile/p1/experience/e1", seekerPayload("p1", 3, nil))
	res, _ = api.request(t, http.MethodDelete, "/profile/section/experience/e1", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestGetProfileByID(t *testing.T) {
	api := newTestAPI(t)
	api.be.set("GET /profile/u9", map[string]any{
		"profileType": "employer", "id": "p9", "companyName": "Acme",
	})

	res, raw := api.request(t, http.MethodGet, "/profile/u9", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	decode(t, raw, &out)
	require.Equal(t, "Acme", out["companyName"])
}
