// Package animation implements the per-segment LED animations and the
// run/stop/end lifecycle they all share. Draw callbacks are driven by an
// external scheduler tick; pixel output goes through the Device boundary so
// the same animation logic targets real hardware or the simulation
// unchanged.
package animation

import (
	"errors"
	"sync"
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// Construction errors. All parameter problems are reported at construction
// time, never deferred to draw time.
var (
	ErrNilParameter     = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
)

// Device is the write boundary the draw functions use. Implementations clip
// pixel indices to the strip but pass channel values through unclamped.
type Device interface {
	WritePixels(start, count int, color led.Color) error
	WriteAll(color led.Color) error
}

// Animation is the lifecycle every animation kind exposes.
type Animation interface {
	// Run registers the draw callback with the scheduler. No-op when
	// already running. For time-based kinds it resets elapsed-time
	// tracking.
	Run()

	// Stop cancels the draw callback and leaves the last-rendered pixels
	// untouched. No-op when idle.
	Stop()

	// End cancels the draw callback and writes Off to every pixel of the
	// bound segment. The all-off write happens regardless of prior state.
	End() error

	// IsRunning reports whether the draw callback is registered.
	IsRunning() bool
}

// Implementation of the common state machine shared between the concrete
// animation kinds.
type AbstractAnimation struct {
	device Device
	sched  scheduler.Scheduler
	seg    led.Segment

	// the per-tick draw function. MUST be set by the concrete kind upon
	// constructing a new instance.
	drawFunc func(now time.Time) error
	// optional completion predicate; when it reports true after a draw the
	// animation transitions back to idle on its own. nil means the
	// animation never completes by itself.
	finishedFunc func(now time.Time) bool
	// clock supplies the current time for Run(); replaceable in tests.
	clock func() time.Time

	// Guards running, handle and startTime.
	mu        sync.Mutex
	running   bool
	handle    scheduler.Handle
	startTime time.Time
}

func newAbstractAnimation(device Device, sched scheduler.Scheduler, seg led.Segment) (*AbstractAnimation, error) {
	if device == nil || sched == nil {
		return nil, ErrNilParameter
	}
	inst := AbstractAnimation{
		device: device,
		sched:  sched,
		seg:    seg,
		clock:  time.Now,
	}
	return &inst, nil
}

// Segment returns the strip segment the animation is bound to.
func (a *AbstractAnimation) Segment() led.Segment {
	return a.seg
}

func (a *AbstractAnimation) Run() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.running {
		return
	}
	a.startTime = a.clock()
	a.running = true
	a.handle = a.sched.Register(a.tick)
}

func (a *AbstractAnimation) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *AbstractAnimation) End() error {
	a.Stop()
	return a.device.WritePixels(a.seg.Start(), a.seg.Length(), led.Off)
}

func (a *AbstractAnimation) IsRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.running
}

// startedAt returns the instant of the last idle-to-running transition.
func (a *AbstractAnimation) startedAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.startTime
}

// Caller must hold a.mu.
func (a *AbstractAnimation) stopLocked() {
	if !a.running {
		return
	}
	a.running = false
	a.sched.Cancel(a.handle)
}

// tick is the callback registered with the scheduler. It draws first so a
// finishing animation still renders its terminal pattern, then checks the
// completion predicate. A draw error transitions the animation to idle
// before it is surfaced: the scheduler cancels the callback on error, and
// the lifecycle state must agree so a later Run can restart the animation.
func (a *AbstractAnimation) tick(now time.Time) error {
	if err := a.drawFunc(now); err != nil {
		a.mu.Lock()
		a.stopLocked()
		a.mu.Unlock()
		return err
	}
	if a.finishedFunc != nil && a.finishedFunc(now) {
		a.mu.Lock()
		a.stopLocked()
		a.mu.Unlock()
	}
	return nil
}

// Solid writes a single color across a whole segment. It is a one-shot
// convenience with no lifecycle attached.
func Solid(device Device, seg led.Segment, color led.Color) error {
	if device == nil {
		return ErrNilParameter
	}
	return device.WritePixels(seg.Start(), seg.Length(), color)
}
