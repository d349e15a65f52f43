package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jobdesk-engine/internal/domain"
	"jobdesk-engine/internal/gateway"
)

var (
	// ErrSaveInFlight means a draft save is already running; the caller
	// (auto-save in particular) must wait for it to settle.
	ErrSaveInFlight = errors.New("profile save already in flight")

	// ErrProfileIncomplete blocks submit below the completion threshold.
	ErrProfileIncomplete = errors.New("profile below completion threshold")

	// ErrNoProfile means an operation needs a committed profile first.
	ErrNoProfile = errors.New("no profile")
)

type profileSlice struct {
	committed   domain.Profile // nil = no profile (valid state once loaded)
	viewed      domain.Profile // last profile fetched by id (someone else's)
	loaded      bool           // fetchCurrent completed, absence included
	pendingDiff map[string]any // optimistic local edits awaiting a save
	conflict    bool
	isLoading   bool
	isCreating  bool
	isUpdating  bool
	isDeleting  bool
	saving      bool // a draft save is in flight
	err         string
	lastFetched time.Time
	lastSaved   time.Time
}

type ProfileSnapshot struct {
	Profile     domain.Profile `json:"profile"`
	Loaded      bool           `json:"loaded"`
	HasProfile  bool           `json:"hasProfile"`
	PendingDiff map[string]any `json:"pendingDiff,omitempty"`
	Dirty       bool           `json:"dirty"`
	Conflict    bool           `json:"conflict"`
	IsLoading   bool           `json:"isLoading"`
	IsCreating  bool           `json:"isCreating"`
	IsUpdating  bool           `json:"isUpdating"`
	IsDeleting  bool           `json:"isDeleting"`
	Saving      bool           `json:"saving"`
	Error       string         `json:"error,omitempty"`
	LastFetched time.Time      `json:"lastFetched"`
	LastSaved   time.Time      `json:"lastSaved"`
	Completion  int            `json:"completion"`
}

func (s *Store) ProfileSnapshot() ProfileSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	diff := make(map[string]any, len(s.profile.pendingDiff))
	for k, v := range s.profile.pendingDiff {
		diff[k] = v
	}
	completion := 0
	if s.profile.committed != nil {
		completion = CompletionPercent(s.profile.committed)
	}
	return ProfileSnapshot{
		Profile:     s.profile.committed,
		Loaded:      s.profile.loaded,
		HasProfile:  s.profile.committed != nil,
		PendingDiff: diff,
		Dirty:       len(s.profile.pendingDiff) > 0,
		Conflict:    s.profile.conflict,
		IsLoading:   s.profile.isLoading,
		IsCreating:  s.profile.isCreating,
		IsUpdating:  s.profile.isUpdating,
		IsDeleting:  s.profile.isDeleting,
		Saving:      s.profile.saving,
		Error:       s.profile.err,
		LastFetched: s.profile.lastFetched,
		LastSaved:   s.profile.lastSaved,
		Completion:  completion,
	}
}

// FetchCurrentProfile loads the caller's own profile. A 404 is the normal
// "no profile yet" state and resolves as a fulfilled absence, which is what
// sends new users into the role-chooser flow.
func (s *Store) FetchCurrentProfile(ctx context.Context) (domain.Profile, error) {
	seq := s.begin("profile", "fetchCurrent")
	s.setProfileFlag(func(p *profileSlice) { p.isLoading = true })

	raw, err := s.be.RawJSON(ctx, http.MethodGet, "/profile/me", nil)
	if errors.Is(err, gateway.ErrNotFound) {
		s.resolve("profile", "fetchCurrent", seq, "", func() {
			s.profile.committed = nil
			s.profile.loaded = true
			s.profile.isLoading = false
			s.profile.err = ""
			s.profile.lastFetched = time.Now()
		})
		return nil, nil
	}
	if err != nil {
		s.resolve("profile", "fetchCurrent", seq, errMsg(err), func() {
			s.profile.isLoading = false
			s.profile.err = err.Error()
		})
		return nil, err
	}

	p, err := domain.DecodeProfile(raw)
	if err != nil {
		s.resolve("profile", "fetchCurrent", seq, errMsg(err), func() {
			s.profile.isLoading = false
			s.profile.err = err.Error()
		})
		return nil, err
	}

	s.resolve("profile", "fetchCurrent", seq, "", func() {
		s.profile.committed = p
		s.profile.loaded = true
		s.profile.isLoading = false
		s.profile.err = ""
		s.profile.lastFetched = time.Now()
	})
	return p, nil
}

// FetchProfileByID loads someone else's profile (employer viewing an
// applicant); it never touches the caller's own committed profile.
func (s *Store) FetchProfileByID(ctx context.Context, userID string) (domain.Profile, error) {
	seq := s.begin("profile", "fetchByID")

	raw, err := s.be.RawJSON(ctx, http.MethodGet, "/profile/"+userID, nil)
	if err != nil {
		s.resolve("profile", "fetchByID", seq, errMsg(err), nil)
		return nil, err
	}
	p, err := domain.DecodeProfile(raw)
	if err != nil {
		s.resolve("profile", "fetchByID", seq, errMsg(err), nil)
		return nil, err
	}
	s.resolve("profile", "fetchByID", seq, "", func() {
		s.profile.viewed = p
	})
	return p, nil
}

// CreateProfile sends the role-tagged creation payload. The backend's
// POST /profile is create-or-update, so re-running the flow is safe.
func (s *Store) CreateProfile(ctx context.Context, role domain.Role, form map[string]any) (domain.Profile, error) {
	seq := s.begin("profile", "create")
	s.setProfileFlag(func(p *profileSlice) { p.isCreating = true })

	payload := make(map[string]any, len(form)+1)
	for k, v := range form {
		payload[k] = v
	}
	payload["profileType"] = string(role)

	raw, err := s.be.RawJSON(ctx, http.MethodPost, "/profile", payload)
	if err != nil {
		s.resolve("profile", "create", seq, errMsg(err), func() {
			s.profile.isCreating = false
			s.profile.err = err.Error()
		})
		return nil, err
	}
	p, err := domain.DecodeProfile(raw)
	if err != nil {
		s.resolve("profile", "create", seq, errMsg(err), func() {
			s.profile.isCreating = false
			s.profile.err = err.Error()
		})
		return nil, err
	}

	s.resolve("profile", "create", seq, "", func() {
		s.profile.committed = p
		s.profile.loaded = true
		s.profile.isCreating = false
		s.profile.pendingDiff = nil
		s.profile.conflict = false
		s.profile.err = ""
	})
	return p, nil
}

// SetField records an optimistic local edit. The committed profile is
// untouched until SaveDraft flushes the accumulated diff.
func (s *Store) SetField(field string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile.pendingDiff == nil {
		s.profile.pendingDiff = make(map[string]any)
	}
	s.profile.pendingDiff[field] = value
}

// Dirty reports whether uncommitted local edits exist.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profile.pendingDiff) > 0
}

// EffectiveProfile is the committed profile with the pending diff laid on
// top, which is what an editor should render. Merge, not replace: fields absent
// from the diff keep their committed values.
func (s *Store) EffectiveProfile() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile.committed == nil {
		return nil, ErrNoProfile
	}
	return overlayProfile(s.profile.committed, s.profile.pendingDiff)
}

func overlayProfile(p domain.Profile, diff map[string]any) (map[string]any, error) {
	raw, err := domain.EncodeProfile(p)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range diff {
		m[k] = v
	}
	return m, nil
}

// SaveDraft flushes the pending diff with a PATCH carrying the committed
// version. Partial merge semantics: only diffed fields travel. On success
// the diff clears; on failure it stays for retry; on a version conflict
// the conflict flag is raised and the two Resolve* calls offer the exits.
// Only one save runs at a time; a second call while one is in flight gets
// ErrSaveInFlight, which is how auto-save is kept from overlapping.
func (s *Store) SaveDraft(ctx context.Context) error {
	s.mu.Lock()
	if s.profile.saving {
		s.mu.Unlock()
		return ErrSaveInFlight
	}
	if len(s.profile.pendingDiff) == 0 {
		s.mu.Unlock()
		return nil
	}
	if s.profile.committed == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	s.profile.saving = true
	id := s.profile.committed.ProfileID()
	version := s.profile.committed.ProfileVersion()
	diff := make(map[string]any, len(s.profile.pendingDiff)+1)
	for k, v := range s.profile.pendingDiff {
		diff[k] = v
	}
	s.mu.Unlock()

	diff["version"] = version

	seq := s.begin("profile", "update")
	raw, err := s.be.RawJSON(ctx, http.MethodPatch, "/profile/"+id, diff)

	if errors.Is(err, gateway.ErrConflict) {
		s.resolve("profile", "update", seq, errMsg(err), func() {
			s.profile.saving = false
			s.profile.conflict = true
			s.profile.err = err.Error()
		})
		return err
	}
	if err != nil {
		s.resolve("profile", "update", seq, errMsg(err), func() {
			s.profile.saving = false
			s.profile.err = err.Error()
		})
		return err
	}

	p, derr := domain.DecodeProfile(raw)
	if derr != nil {
		s.resolve("profile", "update", seq, errMsg(derr), func() {
			s.profile.saving = false
			s.profile.err = derr.Error()
		})
		return derr
	}

	s.resolve("profile", "update", seq, "", func() {
		s.profile.committed = p
		s.profile.pendingDiff = nil
		s.profile.saving = false
		s.profile.conflict = false
		s.profile.err = ""
		s.profile.lastSaved = time.Now()
	})
	return nil
}

// ResolveConflictKeepLocal refetches the remote profile to pick up its new
// version, keeps the local diff, and retries the save on top of it.
func (s *Store) ResolveConflictKeepLocal(ctx context.Context) error {
	s.mu.Lock()
	diff := s.profile.pendingDiff
	s.mu.Unlock()

	if _, err := s.FetchCurrentProfile(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.profile.pendingDiff = diff
	s.profile.conflict = false
	s.mu.Unlock()

	return s.SaveDraft(ctx)
}

// ResolveConflictDiscard throws the local edits away and reloads remote.
func (s *Store) ResolveConflictDiscard(ctx context.Context) error {
	s.mu.Lock()
	s.profile.pendingDiff = nil
	s.profile.conflict = false
	s.mu.Unlock()

	_, err := s.FetchCurrentProfile(ctx)
	return err
}

func (s *Store) DeleteProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.profile.committed == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	id := s.profile.committed.ProfileID()
	s.profile.isDeleting = true
	s.mu.Unlock()

	seq := s.begin("profile", "delete")
	err := s.be.Delete(ctx, "/profile/"+id)
	if err != nil {
		s.resolve("profile", "delete", seq, errMsg(err), func() {
			s.profile.isDeleting = false
			s.profile.err = err.Error()
		})
		return err
	}

	s.resolve("profile", "delete", seq, "", func() {
		s.profile = profileSlice{loaded: true}
	})
	return nil
}

// UploadAvatar and UploadResume go through the profile upload endpoint as
// multipart, with optional byte progress for the UI's progress bar.
func (s *Store) UploadAvatar(ctx context.Context, filename string, content []byte, progress gateway.Progress) error {
	return s.uploadProfileFile(ctx, "uploadAvatar", "avatar", filename, content, progress)
}

func (s *Store) UploadResume(ctx context.Context, filename string, content []byte, progress gateway.Progress) error {
	return s.uploadProfileFile(ctx, "uploadResume", "resume", filename, content, progress)
}

func (s *Store) uploadProfileFile(ctx context.Context, op, field, filename string, content []byte, progress gateway.Progress) error {
	s.mu.Lock()
	if s.profile.committed == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	id := s.profile.committed.ProfileID()
	s.profile.isUpdating = true
	s.mu.Unlock()

	seq := s.begin("profile", op)
	var raw json.RawMessage
	err := s.be.Upload(ctx, "/profile/"+id+"/upload",
		map[string]string{"kind": field},
		[]gateway.FilePart{{Field: field, Filename: filename, Content: content}},
		&raw, progress)
	if err != nil {
		s.resolve("profile", op, seq, errMsg(err), func() {
			s.profile.isUpdating = false
			s.profile.err = err.Error()
		})
		return err
	}

	p, derr := domain.DecodeProfile(raw)
	if derr != nil {
		s.resolve("profile", op, seq, errMsg(derr), func() {
			s.profile.isUpdating = false
			s.profile.err = derr.Error()
		})
		return derr
	}

	s.resolve("profile", op, seq, "", func() {
		s.profile.isUpdating = false
		s.profile.committed = p
	})
	return nil
}

// SubmitProfile marks the profile complete server-side. Gated locally on
// the completion threshold so an obviously unfinished profile never makes
// the round trip. Serializes with nothing; a submit racing an auto-save
// is two writes to the same remote resource and the last one wins there.
func (s *Store) SubmitProfile(ctx context.Context) error {
	s.mu.Lock()
	if s.profile.committed == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	id := s.profile.committed.ProfileID()
	pct := CompletionPercent(s.profile.committed)
	s.mu.Unlock()

	if pct < SubmitThreshold {
		return fmt.Errorf("%w: %d%% < %d%%", ErrProfileIncomplete, pct, SubmitThreshold)
	}

	seq := s.begin("profile", "submit")
	raw, err := s.be.RawJSON(ctx, http.MethodPost, "/profile/"+id+"/submit", nil)
	if err != nil {
		s.resolve("profile", "submit", seq, errMsg(err), func() {
			s.profile.err = err.Error()
		})
		return err
	}

	p, derr := domain.DecodeProfile(raw)
	if derr != nil {
		s.resolve("profile", "submit", seq, errMsg(derr), func() {
			s.profile.err = derr.Error()
		})
		return derr
	}

	s.resolve("profile", "submit", seq, "", func() {
		s.profile.committed = p
		s.profile.err = ""
	})
	return nil
}

// Sub-entity edits (experience, education, projects, certifications) are
// explicit add/update/delete calls; the backend answers with the whole
// updated profile, which becomes the new committed state.

func (s *Store) AddSubEntity(ctx context.Context, kind domain.SubEntityKind, payload any) error {
	return s.subEntityCall(ctx, http.MethodPost, kind, "", payload)
}

func (s *Store) UpdateSubEntity(ctx context.Context, kind domain.SubEntityKind, subID string, payload any) error {
	return s.subEntityCall(ctx, http.MethodPatch, kind, subID, payload)
}

func (s *Store) DeleteSubEntity(ctx context.Context, kind domain.SubEntityKind, subID string) error {
	return s.subEntityCall(ctx, http.MethodDelete, kind, subID, nil)
}

func (s *Store) subEntityCall(ctx context.Context, method string, kind domain.SubEntityKind, subID string, payload any) error {
	s.mu.Lock()
	if s.profile.committed == nil {
		s.mu.Unlock()
		return ErrNoProfile
	}
	id := s.profile.committed.ProfileID()
	s.profile.isUpdating = true
	s.mu.Unlock()

	path := "/profile/" + id + "/" + string(kind)
	if subID != "" {
		path += "/" + subID
	}

	seq := s.begin("profile", "subEntity")
	raw, err := s.be.RawJSON(ctx, method, path, payload)
	if err != nil {
		s.resolve("profile", "subEntity", seq, errMsg(err), func() {
			s.profile.isUpdating = false
			s.profile.err = err.Error()
		})
		return err
	}

	p, derr := domain.DecodeProfile(raw)
	if derr != nil {
		s.resolve("profile", "subEntity", seq, errMsg(derr), func() {
			s.profile.isUpdating = false
			s.profile.err = derr.Error()
		})
		return derr
	}

	s.resolve("profile", "subEntity", seq, "", func() {
		s.profile.committed = p
		s.profile.isUpdating = false
		s.profile.err = ""
	})
	return nil
}

func (s *Store) setProfileFlag(f func(*profileSlice)) {
	s.mu.Lock()
	f(&s.profile)
	s.mu.Unlock()
}
