package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"jobdesk-engine/internal/scheduler"
)

// AutoSaver flushes the profile draft on a fixed timer. It belongs to the
// engine, not to any UI surface, so page mount/unmount churn cannot start
// or kill it; only Enable/Disable do. A tick is a no-op unless there are
// uncommitted edits, and SaveDraft's single-flight guard means a tick that
// lands while a save is still running does nothing rather than stacking a
// second write on the same profile.
type AutoSaver struct {
	store    *Store
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewAutoSaver(store *Store, interval time.Duration) *AutoSaver {
	return &AutoSaver{store: store, interval: interval}
}

func (a *AutoSaver) Enable(parent context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return // already running
	}
	ctx, cancel := context.WithCancel(parent)
	a.cancel = cancel
	go scheduler.Every(ctx, a.interval, "autosave", a.tick)
}

func (a *AutoSaver) Disable() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *AutoSaver) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cancel != nil
}

func (a *AutoSaver) tick(ctx context.Context) error {
	if !a.store.Dirty() {
		return nil
	}
	err := a.store.SaveDraft(ctx)
	if errors.Is(err, ErrSaveInFlight) || errors.Is(err, ErrNoProfile) {
		return nil // wait for the next tick
	}
	return err
}
