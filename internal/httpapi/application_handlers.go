package httpapi

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"jobdesk-engine/internal/domain"
	"jobdesk-engine/internal/gateway"
	"jobdesk-engine/internal/state"
)

type ApplicationsHandler struct {
	Store *state.Store
}

func (h ApplicationsHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	apps, err := h.Store.ListApplications(r.Context(), page, limit)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, apps)
}

// GetByID expects /applications/{id}.
func (h ApplicationsHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/")
	if id == "" || strings.Contains(id, "/") {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/{id}")
		return
	}
	app, err := h.Store.GetApplication(r.Context(), id)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, app)
}

// Apply expects /applications/apply/{jobId} with multipart cover letter
// plus optional attachment.
func (h ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/applications/apply/")
	if jobID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/apply/{jobId}")
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_multipart", err.Error())
		return
	}

	coverLetter := r.FormValue("coverLetter")

	var attachment *gateway.FilePart
	if file, header, err := r.FormFile("attachment"); err == nil {
		defer file.Close()
		content, rerr := io.ReadAll(file)
		if rerr != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_multipart", rerr.Error())
			return
		}
		attachment = &gateway.FilePart{Field: "attachment", Filename: header.Filename, Content: content}
	}

	app, err := h.Store.Apply(r.Context(), jobID, coverLetter, attachment, nil)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, app)
}

func (h ApplicationsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	apps, err := h.Store.ListMyApplications(r.Context())
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, apps)
}

// Withdraw expects /applications/withdraw/{jobId}.
func (h ApplicationsHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/applications/withdraw/")
	if jobID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/withdraw/{jobId}")
		return
	}
	if err := h.Store.Withdraw(r.Context(), jobID); err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// ForJob expects /applications/job/{jobId}.
func (h ApplicationsHandler) ForJob(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/applications/job/")
	if jobID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/job/{jobId}")
		return
	}
	apps, err := h.Store.ListForJob(r.Context(), jobID)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, apps)
}

// UpdateStatus expects /applications/status/{id}.
func (h ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/applications/status/")
	if id == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/status/{id}")
		return
	}
	var in struct {
		Status string `json:"status"`
	}
	if !readJSON(w, r, &in) {
		return
	}
	status, err := domain.ParseApplicationStatus(in.Status)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_status", err.Error())
		return
	}
	app, err := h.Store.UpdateApplicationStatus(r.Context(), id, status)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, app)
}

func (h ApplicationsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f domain.ApplicationFilter
	if s := q.Get("status"); s != "" {
		status, err := domain.ParseApplicationStatus(s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_status", err.Error())
			return
		}
		f.Status = status
	}
	f.Title = q.Get("title")
	f.Company = q.Get("company")
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_date", "from must be RFC3339")
			return
		}
		f.From = t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			WriteError(w, r, http.StatusBadRequest, "bad_date", "to must be RFC3339")
			return
		}
		f.To = t
	}

	apps, err := h.Store.SearchApplications(r.Context(), f)
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, apps)
}

func (h ApplicationsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.ApplicationStatistics(r.Context())
	if err != nil {
		WriteGatewayError(w, r, err)
		return
	}
	writeJSON(w, stats)
}

// HasApplied answers from local membership, no backend round trip.
func (h ApplicationsHandler) HasApplied(w http.ResponseWriter, r *http.Request) {
	jobID := strings.TrimPrefix(r.URL.Path, "/applications/has-applied/")
	if jobID == "" {
		WriteError(w, r, http.StatusBadRequest, "bad_path", "expected /applications/has-applied/{jobId}")
		return
	}
	writeJSON(w, map[string]any{"applied": h.Store.HasAppliedForJob(jobID)})
}
