// Package platform abstracts the LED strip device behind a common interface
// with exactly two implementations: the real strip controller driven over SPI
// on a Raspberry Pi, and a terminal simulation built with tview. Animations
// talk to a Platform without knowing which one they got.
package platform

import (
	"errors"
	"sync"

	"github.com/robolight/ledctl/fx"
	"github.com/robolight/ledctl/led"
)

// ErrNotStarted is returned for writes before Start or after Stop.
var ErrNotStarted = errors.New("platform not started")

// ErrRealHardware is returned when the simulation is constructed for a
// config that selected the real backend.
var ErrRealHardware = errors.New("simulation refused: config selects real hardware")

// Platform is the device the animation engine writes to.
type Platform interface {
	// Start acquires the platform resources (SPI bus, or the terminal).
	Start() error

	// Stop releases all platform resources.
	Stop()

	// PixelCount returns the strip length in pixels.
	PixelCount() int

	// WritePixels sets count pixels starting at start to the given color.
	// Out-of-strip indices are clipped; channel values pass through as-is.
	WritePixels(start, count int, color led.Color) error

	// WriteAll sets the whole strip to the given color.
	WriteAll(color led.Color) error

	// Animate hands a parametric animation over to the device, replacing
	// whatever it was showing on the animation's segment.
	Animate(a fx.Animation) error
}

// stripBuffer is the shared pixel state both platform implementations keep.
// Writes clip the index range to the strip but never touch channel values:
// both backends must see the same bytes for the same calls.
type stripBuffer struct {
	mu     sync.Mutex
	pixels led.Frame
}

func newStripBuffer(pixelCount int) *stripBuffer {
	inst := stripBuffer{
		pixels: make(led.Frame, pixelCount),
	}
	return &inst
}

func (b *stripBuffer) len() int {
	return len(b.pixels)
}

// setRange writes color into [start, start+count) clipped to the strip and
// returns the clipped bounds. A fully clipped write returns count 0.
func (b *stripBuffer) setRange(start, count int, color led.Color) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	end := start + count
	if start < 0 {
		start = 0
	}
	if end > len(b.pixels) {
		end = len(b.pixels)
	}
	if start >= end {
		return 0, 0
	}
	for i := start; i < end; i++ {
		b.pixels[i] = color
	}
	return start, end - start
}

// snapshot returns a copy of the current pixel state.
func (b *stripBuffer) snapshot() led.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pixels.Clone()
}
