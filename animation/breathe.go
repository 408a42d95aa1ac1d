package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// Breathe pulses a single color over the whole segment with a sinusoidal
// brightness curve. It never completes on its own. Running several Breathe
// instances on adjacent segments with staggered phase shifts produces a
// traveling-wave visual.
type Breathe struct {
	*AbstractAnimation
	color      led.Color
	frequency  float64
	dimmness   float64
	phaseShift float64
}

// NewBreathe creates a breathing animation. frequency is the pulse rate in
// Hz and must be positive; dimmness is the minimum brightness fraction and
// must lie in [0,1]; phaseShift is in radians.
func NewBreathe(device Device, sched scheduler.Scheduler, seg led.Segment, color led.Color, frequency, dimmness, phaseShift float64) (*Breathe, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("%w: frequency must be > 0, got %v", ErrInvalidParameter, frequency)
	}
	if dimmness < 0 || dimmness > 1 {
		return nil, fmt.Errorf("%w: dimmness must be in [0,1], got %v", ErrInvalidParameter, dimmness)
	}
	base, err := newAbstractAnimation(device, sched, seg)
	if err != nil {
		return nil, err
	}
	inst := Breathe{
		AbstractAnimation: base,
		color:             color,
		frequency:         frequency,
		dimmness:          dimmness,
		phaseShift:        phaseShift,
	}
	inst.drawFunc = inst.draw
	return &inst, nil
}

func (b *Breathe) draw(now time.Time) error {
	scale := b.scaleAt(now)
	return b.device.WritePixels(b.seg.Start(), b.seg.Length(), b.color.Scale(scale))
}

// scaleAt computes the brightness factor for an instant. The result always
// lies in [dimmness, 1].
func (b *Breathe) scaleAt(now time.Time) float64 {
	periodMs := 1000.0 / b.frequency
	nowMs := float64(now.UnixNano()) / float64(time.Millisecond)
	phase := math.Mod(nowMs, periodMs)/periodMs*2*math.Pi + b.phaseShift
	brightness := (math.Sin(phase) + 1) / 2
	return b.dimmness + brightness*(1-b.dimmness)
}
