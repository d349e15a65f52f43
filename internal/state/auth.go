package state

import (
	"context"
	"errors"
	"log"

	"jobdesk-engine/internal/domain"
	"jobdesk-engine/internal/gateway"
)

type authSlice struct {
	identity  *domain.Identity
	isLoading bool
	checked   bool // CheckStatus has completed at least once
	err       string
}

// AuthSnapshot is the exported copy handed to guards and the UI.
type AuthSnapshot struct {
	Identity      *domain.Identity `json:"identity"`
	Authenticated bool             `json:"authenticated"`
	IsLoading     bool             `json:"isLoading"`
	Checked       bool             `json:"checked"`
	Error         string           `json:"error,omitempty"`
}

func (s *Store) AuthSnapshot() AuthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var id *domain.Identity
	if s.auth.identity != nil {
		cp := *s.auth.identity
		id = &cp
	}
	return AuthSnapshot{
		Identity:      id,
		Authenticated: s.auth.identity != nil,
		IsLoading:     s.auth.isLoading,
		Checked:       s.auth.checked,
		Error:         s.auth.err,
	}
}

// CheckStatus asks the backend who the session belongs to. Idempotent;
// called at engine start and after navigation. A 403 means "not logged
// in", which is a valid state, not a failure.
func (s *Store) CheckStatus(ctx context.Context) (*domain.Identity, error) {
	seq := s.begin("auth", "checkStatus")
	s.setAuthLoading(true)

	var id domain.Identity
	err := s.be.GetJSON(ctx, "/auth/me", &id)

	if err != nil && (errors.Is(err, gateway.ErrForbidden) || errors.Is(err, gateway.ErrNotFound)) {
		s.resolve("auth", "checkStatus", seq, "", func() {
			s.auth = authSlice{checked: true}
		})
		return nil, nil
	}
	if err != nil {
		s.resolve("auth", "checkStatus", seq, errMsg(err), func() {
			s.auth.isLoading = false
			s.auth.checked = true
			s.auth.identity = nil
			s.auth.err = err.Error()
		})
		return nil, err
	}

	s.resolve("auth", "checkStatus", seq, "", func() {
		s.auth = authSlice{identity: &id, checked: true}
	})
	return &id, nil
}

func (s *Store) Login(ctx context.Context, email, password string) (*domain.Identity, error) {
	seq := s.begin("auth", "login")
	s.setAuthLoading(true)

	var id domain.Identity
	err := s.be.PostJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &id)
	if err != nil {
		s.resolve("auth", "login", seq, errMsg(err), func() {
			s.auth.isLoading = false
			s.auth.identity = nil
			s.auth.err = err.Error()
		})
		return nil, err
	}

	if perr := s.be.PersistSession(); perr != nil {
		// session still works for this process; only the restart path is hurt
		log.Printf("[state] could not persist session: %v", perr)
	}

	s.resolve("auth", "login", seq, "", func() {
		s.auth = authSlice{identity: &id, checked: true}
	})
	return &id, nil
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (s *Store) Register(ctx context.Context, in RegisterInput) (*domain.Identity, error) {
	seq := s.begin("auth", "register")
	s.setAuthLoading(true)

	var id domain.Identity
	err := s.be.PostJSON(ctx, "/auth/register", in, &id)
	if err != nil {
		s.resolve("auth", "register", seq, errMsg(err), func() {
			s.auth.isLoading = false
			s.auth.identity = nil
			s.auth.err = err.Error()
		})
		return nil, err
	}

	if perr := s.be.PersistSession(); perr != nil {
		log.Printf("[state] could not persist session: %v", perr)
	}

	s.resolve("auth", "register", seq, "", func() {
		s.auth = authSlice{identity: &id, checked: true}
	})
	return &id, nil
}

// Logout tells the backend to expire the HTTP-only cookie (only it can),
// clears the engine-side session copy, and resets every dependent slice so
// no stale cross-identity data survives.
func (s *Store) Logout(ctx context.Context) error {
	seq := s.begin("auth", "logout")

	err := s.be.PostJSON(ctx, "/auth/logout", nil, nil)
	if err != nil {
		log.Printf("[state] logout call failed (resetting anyway): %v", err)
	}
	if cerr := s.be.ClearSession(); cerr != nil {
		log.Printf("[state] clear session: %v", cerr)
	}

	s.resolve("auth", "logout", seq, "", func() {
		s.auth = authSlice{checked: true}
		s.profile = profileSlice{}
		s.apps = newApplicationSlice()
	})
	return err
}

func (s *Store) setAuthLoading(v bool) {
	s.mu.Lock()
	s.auth.isLoading = v
	s.mu.Unlock()
}
