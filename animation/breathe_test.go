package animation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robolight/ledctl/led"
)

func TestNewBreatheValidation(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	_, err := NewBreathe(dev, sched, seg, led.Blue, 0, 0.2, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBreathe(dev, sched, seg, led.Blue, -1, 0.2, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBreathe(dev, sched, seg, led.Blue, 1, -0.1, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBreathe(dev, sched, seg, led.Blue, 1, 1.1, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = NewBreathe(dev, sched, seg, led.Blue, 2, 0.25, 1.5)
	assert.NoError(t, err)
}

func TestBreatheScaleStaysWithinBounds(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	b, err := NewBreathe(dev, sched, seg, led.White, 1.5, 0.3, 0.7)
	require.NoError(t, err)

	start := time.Unix(1700000000, 0)
	for i := 0; i < 500; i++ {
		scale := b.scaleAt(start.Add(time.Duration(i) * 7 * time.Millisecond))
		assert.GreaterOrEqual(t, scale, 0.3)
		assert.LessOrEqual(t, scale, 1.0)
	}
}

func TestBreathePeriodMatchesFrequency(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	// 2 Hz -> 500ms period.
	b, err := NewBreathe(dev, sched, seg, led.White, 2, 0, 0)
	require.NoError(t, err)

	at := time.Unix(1700000000, 0).Add(123 * time.Millisecond)
	one := b.scaleAt(at)
	next := b.scaleAt(at.Add(500 * time.Millisecond))
	assert.InDelta(t, one, next, 1e-9)

	// Half a period later the signal is mirrored around the midpoint.
	half := b.scaleAt(at.Add(250 * time.Millisecond))
	assert.InDelta(t, 1.0, one+half, 1e-9)
}

func TestBreatheDrawScalesColorAcrossSegment(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 4)

	b, err := NewBreathe(dev, sched, seg, led.Orange, 1, 0.5, 0)
	require.NoError(t, err)

	b.Run()
	now := time.Unix(1700000000, 0)
	require.NoError(t, sched.Step(now))

	scale := b.scaleAt(now)
	want := led.Orange.Scale(scale)
	for i := 0; i < 4; i++ {
		assert.Equal(t, want, dev.pixels[i])
	}
	// Pixels outside the segment stay dark.
	assert.Equal(t, led.Off, dev.pixels[4])

	// Breathe never completes on its own.
	assert.True(t, b.IsRunning())
}
