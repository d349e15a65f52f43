package state

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"jobdesk-engine/internal/domain"
	"jobdesk-engine/internal/gateway"
)

type applicationSlice struct {
	current     *domain.Application
	mine        []domain.Application
	forJob      []domain.Application
	forJobID    string
	all         []domain.Application
	page        int
	total       int
	appliedJobs map[string]bool
	stats       *domain.ApplicationStats
	isLoading   bool
	isApplying  bool
	err         string
}

func newApplicationSlice() applicationSlice {
	return applicationSlice{appliedJobs: make(map[string]bool)}
}

type ApplicationSnapshot struct {
	Current     *domain.Application      `json:"current"`
	Mine        []domain.Application     `json:"mine"`
	ForJob      []domain.Application     `json:"forJob"`
	ForJobID    string                   `json:"forJobId,omitempty"`
	All         []domain.Application     `json:"all"`
	Page        int                      `json:"page"`
	Total       int                      `json:"total"`
	AppliedJobs map[string]bool          `json:"appliedJobs"`
	Stats       *domain.ApplicationStats `json:"stats"`
	IsLoading   bool                     `json:"isLoading"`
	IsApplying  bool                     `json:"isApplying"`
	Error       string                   `json:"error,omitempty"`
}

func (s *Store) ApplicationSnapshot() ApplicationSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := make(map[string]bool, len(s.apps.appliedJobs))
	for k, v := range s.apps.appliedJobs {
		applied[k] = v
	}
	return ApplicationSnapshot{
		Current:     s.apps.current,
		Mine:        append([]domain.Application(nil), s.apps.mine...),
		ForJob:      append([]domain.Application(nil), s.apps.forJob...),
		ForJobID:    s.apps.forJobID,
		All:         append([]domain.Application(nil), s.apps.all...),
		Page:        s.apps.page,
		Total:       s.apps.total,
		AppliedJobs: applied,
		Stats:       s.apps.stats,
		IsLoading:   s.apps.isLoading,
		IsApplying:  s.apps.isApplying,
		Error:       s.apps.err,
	}
}

// legacy list endpoints wrap the payload; single-entity endpoints return
// the entity directly
type listEnvelope struct {
	Success bool                 `json:"success"`
	Data    []domain.Application `json:"data"`
	Message string               `json:"message"`
	Total   int                  `json:"total"`
	Page    int                  `json:"page"`
}

// ListApplications is the paged employer/admin view of everything.
func (s *Store) ListApplications(ctx context.Context, page, limit int) ([]domain.Application, error) {
	seq := s.begin("application", "listAll")
	s.setAppsFlag(func(a *applicationSlice) { a.isLoading = true })

	var env listEnvelope
	err := s.be.GetJSON(ctx, "/applications"+pageQuery(page, limit), &env)
	if err != nil {
		s.resolve("application", "listAll", seq, errMsg(err), func() {
			s.apps.isLoading = false
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "listAll", seq, "", func() {
		s.apps.all = env.Data
		s.apps.page = env.Page
		s.apps.total = env.Total
		s.apps.isLoading = false
		s.apps.err = ""
	})
	return env.Data, nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (*domain.Application, error) {
	seq := s.begin("application", "getByID")

	var app domain.Application
	err := s.be.GetJSON(ctx, "/applications/"+id, &app)
	if err != nil {
		s.resolve("application", "getByID", seq, errMsg(err), func() {
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "getByID", seq, "", func() {
		s.apps.current = &app
		s.apps.err = ""
	})
	return &app, nil
}

// Apply submits cover letter plus optional attachment as multipart and
// marks the job as applied locally so listings can show "already applied"
// without another round trip.
func (s *Store) Apply(ctx context.Context, jobID, coverLetter string, attachment *gateway.FilePart, progress gateway.Progress) (*domain.Application, error) {
	seq := s.begin("application", "apply")
	s.setAppsFlag(func(a *applicationSlice) { a.isApplying = true })

	var files []gateway.FilePart
	if attachment != nil {
		files = []gateway.FilePart{*attachment}
	}

	var app domain.Application
	err := s.be.Upload(ctx, "/applications/apply/"+jobID,
		map[string]string{"coverLetter": coverLetter}, files, &app, progress)
	if err != nil {
		s.resolve("application", "apply", seq, errMsg(err), func() {
			s.apps.isApplying = false
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "apply", seq, "", func() {
		s.apps.mine = append(s.apps.mine, app)
		s.apps.appliedJobs[jobID] = true
		s.apps.isApplying = false
		s.apps.err = ""
	})
	return &app, nil
}

func (s *Store) ListMyApplications(ctx context.Context) ([]domain.Application, error) {
	seq := s.begin("application", "listMine")
	s.setAppsFlag(func(a *applicationSlice) { a.isLoading = true })

	var env listEnvelope
	err := s.be.GetJSON(ctx, "/applications/my-applications", &env)
	if err != nil {
		s.resolve("application", "listMine", seq, errMsg(err), func() {
			s.apps.isLoading = false
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "listMine", seq, "", func() {
		s.apps.mine = env.Data
		s.apps.isLoading = false
		s.apps.err = ""
		s.syncAppliedLocked()
	})
	return env.Data, nil
}

// Withdraw flips the caller's application for jobID to WITHDRAWN; the job
// stops counting as applied.
func (s *Store) Withdraw(ctx context.Context, jobID string) error {
	seq := s.begin("application", "withdraw")

	var app domain.Application
	err := s.be.PutJSON(ctx, "/applications/withdraw/job/"+jobID, nil, &app)
	if err != nil {
		s.resolve("application", "withdraw", seq, errMsg(err), func() {
			s.apps.err = err.Error()
		})
		return err
	}

	s.resolve("application", "withdraw", seq, "", func() {
		for i := range s.apps.mine {
			if s.apps.mine[i].JobID == jobID {
				s.apps.mine[i] = app
			}
		}
		s.apps.appliedJobs[jobID] = false
		s.apps.err = ""
	})
	return nil
}

// ListForJob is the employer view of one job's applicants.
func (s *Store) ListForJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	seq := s.begin("application", "listForJob")
	s.setAppsFlag(func(a *applicationSlice) { a.isLoading = true })

	var env listEnvelope
	err := s.be.GetJSON(ctx, "/applications/job/"+jobID, &env)
	if err != nil {
		s.resolve("application", "listForJob", seq, errMsg(err), func() {
			s.apps.isLoading = false
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "listForJob", seq, "", func() {
		s.apps.forJob = env.Data
		s.apps.forJobID = jobID
		s.apps.isLoading = false
		s.apps.err = ""
	})
	return env.Data, nil
}

func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status domain.ApplicationStatus) (*domain.Application, error) {
	seq := s.begin("application", "updateStatus")

	var app domain.Application
	err := s.be.PutJSON(ctx, "/applications/"+id+"/status",
		map[string]string{"status": string(status)}, &app)
	if err != nil {
		s.resolve("application", "updateStatus", seq, errMsg(err), func() {
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "updateStatus", seq, "", func() {
		replaceApp(s.apps.mine, app)
		replaceApp(s.apps.forJob, app)
		replaceApp(s.apps.all, app)
		if s.apps.current != nil && s.apps.current.ID == app.ID {
			s.apps.current = &app
		}
		// a status check is one of the sync points for applied membership
		if app.Status == domain.StatusWithdrawn {
			s.apps.appliedJobs[app.JobID] = false
		}
		s.apps.err = ""
	})
	return &app, nil
}

func replaceApp(list []domain.Application, app domain.Application) {
	for i := range list {
		if list[i].ID == app.ID {
			list[i] = app
		}
	}
}

func (s *Store) SearchApplications(ctx context.Context, f domain.ApplicationFilter) ([]domain.Application, error) {
	seq := s.begin("application", "search")

	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Title != "" {
		q.Set("title", f.Title)
	}
	if f.Company != "" {
		q.Set("company", f.Company)
	}
	if !f.From.IsZero() {
		q.Set("from", f.From.Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		q.Set("to", f.To.Format(time.RFC3339))
	}

	path := "/applications/search"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var env listEnvelope
	err := s.be.GetJSON(ctx, path, &env)
	if err != nil {
		s.resolve("application", "search", seq, errMsg(err), func() {
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "search", seq, "", nil)
	return env.Data, nil
}

func (s *Store) ApplicationStatistics(ctx context.Context) (*domain.ApplicationStats, error) {
	seq := s.begin("application", "statistics")

	var stats domain.ApplicationStats
	err := s.be.GetJSON(ctx, "/applications/statistics/my", &stats)
	if err != nil {
		s.resolve("application", "statistics", seq, errMsg(err), func() {
			s.apps.err = err.Error()
		})
		return nil, err
	}

	s.resolve("application", "statistics", seq, "", func() {
		s.apps.stats = &stats
		s.apps.err = ""
	})
	return &stats, nil
}

// HasAppliedForJob answers from the opportunistically synced membership
// set; no network.
func (s *Store) HasAppliedForJob(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apps.appliedJobs[jobID]
}

// syncAppliedLocked rebuilds applied membership from mine; withdrawn
// applications do not count. Caller holds s.mu.
func (s *Store) syncAppliedLocked() {
	for _, app := range s.apps.mine {
		s.apps.appliedJobs[app.JobID] = app.Status != domain.StatusWithdrawn
	}
}

func (s *Store) setAppsFlag(f func(*applicationSlice)) {
	s.mu.Lock()
	f(&s.apps)
	s.mu.Unlock()
}

// Limit 0 falls back to the backend's default page size.
func pageQuery(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
