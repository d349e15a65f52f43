package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jobdesk-engine/internal/events"
)

const (
	timeout = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func TestResolveDiscardsStaleSequence(t *testing.T) {
	s := New(newFakeBackend(), nil)

	first := s.begin("profile", "fetchCurrent")
	second := s.begin("profile", "fetchCurrent")
	require.Greater(t, second, first)

	applied := s.resolve("profile", "fetchCurrent", second, "", func() {
		s.profile.err = "newer"
	})
	require.True(t, applied)

	applied = s.resolve("profile", "fetchCurrent", first, "", func() {
		s.profile.err = "older"
	})
	require.False(t, applied, "older completion must be discarded")
	require.Equal(t, "newer", s.ProfileSnapshot().Error)
}

func TestSequencesAreIndependentPerOperation(t *testing.T) {
	s := New(newFakeBackend(), nil)

	fetch := s.begin("profile", "fetchCurrent")
	update := s.begin("profile", "update")
	require.Equal(t, uint64(1), fetch)
	require.Equal(t, uint64(1), update, "operations do not share a counter")

	require.True(t, s.resolve("profile", "update", update, "", nil))
	require.True(t, s.resolve("profile", "fetchCurrent", fetch, "", nil))
}

func TestLifecycleEventsPublished(t *testing.T) {
	hub := events.NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	s := New(newFakeBackend(), hub)
	seq := s.begin("auth", "login")
	s.resolve("auth", "login", seq, "", nil)

	var got []events.Event
	for len(got) < 2 {
		select {
		case e := <-sub:
			got = append(got, e)
		case <-time.After(timeout):
			t.Fatalf("expected 2 events, got %d", len(got))
		}
	}

	require.Equal(t, events.PhasePending, got[0].Phase)
	require.Equal(t, events.PhaseFulfilled, got[1].Phase)
	require.Equal(t, "auth", got[0].Slice)
	require.Equal(t, "login", got[0].Op)
	require.Equal(t, got[0].Seq, got[1].Seq)
}

func TestRejectedEventCarriesError(t *testing.T) {
	hub := events.NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	s := New(newFakeBackend(), hub)
	seq := s.begin("profile", "update")
	s.resolve("profile", "update", seq, "boom", nil)

	<-sub // pending
	e := <-sub
	require.Equal(t, events.PhaseRejected, e.Phase)
	require.Equal(t, "boom", e.Error)
}
