// Package state holds the engine's in-memory slices (auth, profile,
// application) and the three-phase request lifecycle every remote call
// moves through. Nothing here is persisted; a logout or role change resets
// slices outright. The store is injected everywhere; tests build one per
// case, there is no package-level instance.
package state

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobdesk-engine/internal/events"
	"jobdesk-engine/internal/gateway"
)

// Backend is the slice of the HTTP gateway the store needs.
// *gateway.Client satisfies it; tests substitute fakes.
type Backend interface {
	GetJSON(ctx context.Context, path string, out any) error
	PostJSON(ctx context.Context, path string, body, out any) error
	PatchJSON(ctx context.Context, path string, body, out any) error
	PutJSON(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
	RawJSON(ctx context.Context, method, path string, body any) ([]byte, error)
	Upload(ctx context.Context, path string, fields map[string]string, files []gateway.FilePart, out any, progress gateway.Progress) error
	PersistSession() error
	ClearSession() error
}

type Store struct {
	mu  sync.Mutex
	be  Backend
	hub *events.Hub

	auth    authSlice
	profile profileSlice
	apps    applicationSlice

	// per-operation monotonic sequence numbers; resolve discards any
	// completion older than the newest already applied, so a slow stale
	// response can never overwrite fresher state
	seq     map[string]uint64
	applied map[string]uint64
}

func New(be Backend, hub *events.Hub) *Store {
	return &Store{
		be:      be,
		hub:     hub,
		apps:    newApplicationSlice(),
		seq:     make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// begin issues the next sequence number for slice.op and publishes the
// pending phase.
func (s *Store) begin(slice, op string) uint64 {
	s.mu.Lock()
	key := slice + "." + op
	s.seq[key]++
	n := s.seq[key]
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.Publish(events.Make(slice, op, events.PhasePending, n, "", nil))
	}
	return n
}

// resolve applies a completion unless a newer one for the same operation
// already landed. Returns false when the completion was discarded as stale.
// apply runs under the store lock.
func (s *Store) resolve(slice, op string, seq uint64, errMsg string, apply func()) bool {
	s.mu.Lock()
	key := slice + "." + op
	if seq < s.applied[key] {
		s.mu.Unlock()
		return false
	}
	s.applied[key] = seq
	if apply != nil {
		apply()
	}
	s.mu.Unlock()

	if s.hub != nil {
		phase := events.PhaseFulfilled
		if errMsg != "" {
			phase = events.PhaseRejected
		}
		s.hub.Publish(events.Make(slice, op, phase, seq, errMsg, nil))
	}
	return true
}

// Bootstrap is the app-start sequence: probe the session, and when it is
// live warm the profile and my-applications slices in parallel. Fetch
// failures land in their slices; Bootstrap itself only fails on a broken
// auth probe.
func (s *Store) Bootstrap(ctx context.Context) error {
	id, err := s.CheckStatus(ctx)
	if err != nil {
		return err
	}
	if id == nil {
		return nil
	}

	var g errgroup.Group
	g.Go(func() error {
		_, err := s.FetchCurrentProfile(ctx)
		return err
	})
	g.Go(func() error {
		_, err := s.ListMyApplications(ctx)
		return err
	})
	// errors already recorded per slice; warm-up is best effort
	_ = g.Wait()
	return nil
}

func errMsg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
