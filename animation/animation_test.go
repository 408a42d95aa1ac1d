package animation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robolight/ledctl/led"
)

func mustSegment(t *testing.T, start, end int) led.Segment {
	t.Helper()
	seg, err := led.NewSegment(start, end)
	require.NoError(t, err)
	return seg
}

func TestRunIsIdempotent(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	a, err := NewBooleanIndicator(dev, sched, seg, func() bool { return true }, led.Green, led.Red)
	require.NoError(t, err)

	a.Run()
	a.Run()
	a.Run()

	assert.True(t, a.IsRunning())
	assert.Equal(t, 1, sched.registrations)
}

func TestStopLeavesPixelsUntouched(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	a, err := NewBooleanIndicator(dev, sched, seg, func() bool { return true }, led.Green, led.Red)
	require.NoError(t, err)

	a.Run()
	require.NoError(t, sched.Step(time.Now()))
	a.Stop()

	assert.False(t, a.IsRunning())
	for _, px := range dev.pixels {
		assert.Equal(t, led.Green, px)
	}

	// Stop on an idle animation is a no-op.
	writes := dev.writes
	a.Stop()
	assert.Equal(t, writes, dev.writes)
}

func TestEndAlwaysWritesOff(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 2, 8)

	a, err := NewBooleanIndicator(dev, sched, seg, func() bool { return true }, led.Green, led.Red)
	require.NoError(t, err)

	// End on a never-run animation still performs the all-off write.
	require.NoError(t, a.End())
	for i := 2; i < 8; i++ {
		assert.Equal(t, led.Off, dev.pixels[i])
	}

	a.Run()
	require.NoError(t, sched.Step(time.Now()))
	require.NoError(t, a.End())
	assert.False(t, a.IsRunning())
	for i := 2; i < 8; i++ {
		assert.Equal(t, led.Off, dev.pixels[i])
	}

	// End is idempotent under repeated calls.
	require.NoError(t, a.End())
	for i := 2; i < 8; i++ {
		assert.Equal(t, led.Off, dev.pixels[i])
	}
}

func TestRunAfterEndRestarts(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	a, err := NewBooleanIndicator(dev, sched, seg, func() bool { return true }, led.Green, led.Red)
	require.NoError(t, err)

	a.Run()
	require.NoError(t, a.End())
	assert.False(t, a.IsRunning())

	a.Run()
	assert.True(t, a.IsRunning())
	require.NoError(t, sched.Step(time.Now()))
	assert.Equal(t, led.Green, dev.pixels[0])
}

func TestDrawErrorTransitionsToIdle(t *testing.T) {
	dev := &brokenDevice{err: errors.New("device gone")}
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	a, err := NewBooleanIndicator(dev, sched, seg, func() bool { return true }, led.Green, led.Red)
	require.NoError(t, err)

	a.Run()
	assert.ErrorIs(t, sched.Step(time.Now()), dev.err)

	// The scheduler cancels an erroring callback; the lifecycle must agree
	// so the animation is not stuck reporting Running with no ticks firing.
	assert.False(t, a.IsRunning())
	assert.Empty(t, sched.callbacks)

	// And Run starts it over instead of being a no-op.
	a.Run()
	assert.True(t, a.IsRunning())
	assert.Equal(t, 2, sched.registrations)
}

func TestConstructorsRejectNilCollaborators(t *testing.T) {
	dev := newFakeDevice(10)
	sched := newFakeScheduler()
	seg := mustSegment(t, 0, 10)

	_, err := NewBooleanIndicator(nil, sched, seg, func() bool { return true }, led.Green, led.Red)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = NewBooleanIndicator(dev, nil, seg, func() bool { return true }, led.Green, led.Red)
	assert.ErrorIs(t, err, ErrNilParameter)

	_, err = NewBooleanIndicator(dev, sched, seg, nil, led.Green, led.Red)
	assert.ErrorIs(t, err, ErrNilParameter)
}

func TestSolid(t *testing.T) {
	dev := newFakeDevice(10)
	seg := mustSegment(t, 3, 7)

	require.NoError(t, Solid(dev, seg, led.Purple))
	for i := range dev.pixels {
		if i >= 3 && i < 7 {
			assert.Equal(t, led.Purple, dev.pixels[i])
		} else {
			assert.Equal(t, led.Off, dev.pixels[i])
		}
	}

	assert.ErrorIs(t, Solid(nil, seg, led.Purple), ErrNilParameter)
}
