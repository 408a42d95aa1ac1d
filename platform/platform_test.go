package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/robolight/ledctl/animation"
	"github.com/robolight/ledctl/led"
)

// Both backends must present the same device surface to the engine.
var (
	_ Platform         = (*RPiPlatform)(nil)
	_ Platform         = (*TUIPlatform)(nil)
	_ animation.Device = (*RPiPlatform)(nil)
	_ animation.Device = (*TUIPlatform)(nil)
)

func TestStripBufferSetRange(t *testing.T) {
	buf := newStripBuffer(10)
	start, count := buf.setRange(2, 3, led.Red)
	assert.Equal(t, 2, start)
	assert.Equal(t, 3, count)

	frame := buf.snapshot()
	assert.Equal(t, led.Off, frame[1])
	assert.Equal(t, led.Red, frame[2])
	assert.Equal(t, led.Red, frame[4])
	assert.Equal(t, led.Off, frame[5])
}

func TestStripBufferClipsToStrip(t *testing.T) {
	buf := newStripBuffer(10)

	start, count := buf.setRange(-3, 5, led.Green)
	assert.Equal(t, 0, start)
	assert.Equal(t, 2, count)

	start, count = buf.setRange(8, 5, led.Blue)
	assert.Equal(t, 8, start)
	assert.Equal(t, 2, count)

	frame := buf.snapshot()
	assert.Equal(t, led.Green, frame[0])
	assert.Equal(t, led.Green, frame[1])
	assert.Equal(t, led.Off, frame[2])
	assert.Equal(t, led.Blue, frame[8])
	assert.Equal(t, led.Blue, frame[9])
}

func TestStripBufferFullyClippedWrite(t *testing.T) {
	buf := newStripBuffer(10)

	_, count := buf.setRange(20, 5, led.Red)
	assert.Equal(t, 0, count)
	_, count = buf.setRange(-10, 5, led.Red)
	assert.Equal(t, 0, count)
	_, count = buf.setRange(3, 0, led.Red)
	assert.Equal(t, 0, count)

	for _, c := range buf.snapshot() {
		assert.Equal(t, led.Off, c)
	}
}

func TestStripBufferKeepsChannelValuesUntouched(t *testing.T) {
	buf := newStripBuffer(4)
	wild := led.Custom(-5, 300, 1000)
	buf.setRange(0, 4, wild)

	for _, c := range buf.snapshot() {
		assert.Equal(t, wild, c)
	}
}

func TestStripBufferSnapshotIsACopy(t *testing.T) {
	buf := newStripBuffer(4)
	buf.setRange(0, 4, led.Red)

	frame := buf.snapshot()
	frame[0] = led.Blue
	assert.Equal(t, led.Red, buf.snapshot()[0])
}
