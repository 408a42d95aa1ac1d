package animation

import (
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// fakeDevice records pixel-range writes into an in-memory strip.
type fakeDevice struct {
	pixels []led.Color
	writes int
}

func newFakeDevice(size int) *fakeDevice {
	return &fakeDevice{pixels: make([]led.Color, size)}
}

func (d *fakeDevice) WritePixels(start, count int, color led.Color) error {
	d.writes++
	for i := start; i < start+count; i++ {
		if i >= 0 && i < len(d.pixels) {
			d.pixels[i] = color
		}
	}
	return nil
}

func (d *fakeDevice) WriteAll(color led.Color) error {
	return d.WritePixels(0, len(d.pixels), color)
}

// brokenDevice fails every write, simulating a device that went away.
type brokenDevice struct {
	err error
}

func (d *brokenDevice) WritePixels(int, int, led.Color) error {
	return d.err
}

func (d *brokenDevice) WriteAll(led.Color) error {
	return d.err
}

// fakeScheduler dispatches ticks on demand so tests control time fully.
type fakeScheduler struct {
	next          scheduler.Handle
	callbacks     map[scheduler.Handle]scheduler.Callback
	order         []scheduler.Handle
	registrations int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{callbacks: make(map[scheduler.Handle]scheduler.Callback)}
}

func (f *fakeScheduler) Register(cb scheduler.Callback) scheduler.Handle {
	f.next++
	f.callbacks[f.next] = cb
	f.order = append(f.order, f.next)
	f.registrations++
	return f.next
}

func (f *fakeScheduler) Cancel(h scheduler.Handle) {
	delete(f.callbacks, h)
}

func (f *fakeScheduler) IsActive(h scheduler.Handle) bool {
	_, ok := f.callbacks[h]
	return ok
}

// Step runs one tick at the given instant and returns the first callback
// error.
func (f *fakeScheduler) Step(now time.Time) error {
	var firstErr error
	for _, h := range f.order {
		cb, ok := f.callbacks[h]
		if !ok {
			continue
		}
		if err := cb(now); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// fixedClock pins an animation's start instant for deterministic elapsed
// time arithmetic.
func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
