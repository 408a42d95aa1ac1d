package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// RangeValue renders a progress bar: the fraction of the segment lit with
// fillColor tracks a live numeric supplier clamped to [min,max]; the
// remainder shows emptyColor. The animation never completes on its own.
type RangeValue struct {
	*AbstractAnimation
	min        float64
	max        float64
	supplier   func() float64
	fillColor  led.Color
	emptyColor led.Color
}

// NewRangeValue creates a progress bar over [min,max]. max must be strictly
// greater than min; max == min would divide by zero and is rejected here.
func NewRangeValue(device Device, sched scheduler.Scheduler, seg led.Segment, min, max float64, supplier func() float64, fillColor, emptyColor led.Color) (*RangeValue, error) {
	if supplier == nil {
		return nil, ErrNilParameter
	}
	if max <= min {
		return nil, fmt.Errorf("%w: max (%v) must be greater than min (%v)", ErrInvalidParameter, max, min)
	}
	base, err := newAbstractAnimation(device, sched, seg)
	if err != nil {
		return nil, err
	}
	inst := RangeValue{
		AbstractAnimation: base,
		min:               min,
		max:               max,
		supplier:          supplier,
		fillColor:         fillColor,
		emptyColor:        emptyColor,
	}
	inst.drawFunc = inst.draw
	return &inst, nil
}

func (r *RangeValue) draw(time.Time) error {
	lit := r.litCount()
	if lit > 0 {
		if err := r.device.WritePixels(r.seg.Start(), lit, r.fillColor); err != nil {
			return err
		}
	}
	if rest := r.seg.Length() - lit; rest > 0 {
		if err := r.device.WritePixels(r.seg.Start()+lit, rest, r.emptyColor); err != nil {
			return err
		}
	}
	return nil
}

func (r *RangeValue) litCount() int {
	value := math.Min(math.Max(r.supplier(), r.min), r.max)
	fraction := (value - r.min) / (r.max - r.min)
	lit := int(math.Round(fraction * float64(r.seg.Length())))
	if lit < 0 {
		lit = 0
	} else if lit > r.seg.Length() {
		lit = r.seg.Length()
	}
	return lit
}
