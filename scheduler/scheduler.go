// Package scheduler provides the periodic tick collaborator that drives all
// animation draw callbacks. Callbacks run on a single goroutine, one after
// the other, so draw code never has to deal with concurrent or re-entrant
// invocations.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the nominal tick cadence in the host environment.
const DefaultInterval = 20 * time.Millisecond

// Callback is a per-tick draw function. A non-nil error is surfaced by the
// scheduler; it is never silently swallowed.
type Callback func(now time.Time) error

// Handle identifies one registered callback.
type Handle uint64

// Scheduler is the registration boundary the animation lifecycle depends on.
type Scheduler interface {
	// Register adds a callback that fires every tick until cancelled.
	Register(cb Callback) Handle

	// Cancel removes a callback. It takes effect before the next tick and
	// is safe to call from inside a callback. Cancelling an unknown or
	// already cancelled handle is a no-op.
	Cancel(h Handle)

	// IsActive reports whether the handle is still registered.
	IsActive(h Handle) bool
}

// TickScheduler dispatches registered callbacks from a single goroutine on a
// fixed time.Ticker cadence. Callbacks run sequentially in registration
// order. A callback returning an error is logged and cancelled; the
// remaining callbacks keep running.
type TickScheduler struct {
	interval time.Duration

	// Guards callbacks, order and next.
	mu        sync.Mutex
	next      Handle
	callbacks map[Handle]Callback
	order     []Handle

	stopChan chan struct{}
	wg       sync.WaitGroup
	started  bool
}

var _ Scheduler = (*TickScheduler)(nil)

// NewTickScheduler creates a scheduler with the given tick interval. An
// interval <= 0 falls back to DefaultInterval.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	inst := TickScheduler{
		interval:  interval,
		callbacks: make(map[Handle]Callback),
	}
	return &inst
}

// Start launches the tick goroutine. Calling Start on a running scheduler
// does nothing. A stopped scheduler can be started again; registrations
// survive across the restart.
func (s *TickScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stopChan = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stopChan)
}

// Stop ends the tick goroutine and waits for the in-flight tick to finish.
func (s *TickScheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	s.mu.Unlock()

	close(s.stopChan)
	s.wg.Wait()
	slog.Info("Tick scheduler stopped")
}

func (s *TickScheduler) Register(cb Callback) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	h := s.next
	s.callbacks[h] = cb
	s.order = append(s.order, h)
	return h
}

func (s *TickScheduler) Cancel(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.callbacks[h]; !ok {
		return
	}
	delete(s.callbacks, h)
	for i, other := range s.order {
		if other == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *TickScheduler) IsActive(h Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.callbacks[h]
	return ok
}

// loop takes the stop channel as a parameter so a restart never races the
// channel swap in Start.
func (s *TickScheduler) loop(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			s.dispatch(now)
		}
	}
}

// dispatch runs one tick. The handle list is snapshotted under the lock so
// callbacks may register or cancel freely while the tick runs; a handle
// cancelled earlier in the same tick is skipped.
func (s *TickScheduler) dispatch(now time.Time) {
	s.mu.Lock()
	handles := make([]Handle, len(s.order))
	copy(handles, s.order)
	s.mu.Unlock()

	for _, h := range handles {
		s.mu.Lock()
		cb, ok := s.callbacks[h]
		s.mu.Unlock()
		if !ok {
			continue
		}
		if err := cb(now); err != nil {
			slog.Error("Tick callback failed, cancelling it", "handle", h, "error", err)
			s.Cancel(h)
		}
	}
}
