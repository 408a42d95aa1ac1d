package animation

import (
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// BooleanIndicator colors the whole segment by the live value of an injected
// boolean supplier. The supplier is polled once per tick and never cached.
// The animation never completes on its own.
type BooleanIndicator struct {
	*AbstractAnimation
	supplier   func() bool
	trueColor  led.Color
	falseColor led.Color
}

// NewBooleanIndicator creates an indicator driven by supplier.
func NewBooleanIndicator(device Device, sched scheduler.Scheduler, seg led.Segment, supplier func() bool, trueColor, falseColor led.Color) (*BooleanIndicator, error) {
	if supplier == nil {
		return nil, ErrNilParameter
	}
	base, err := newAbstractAnimation(device, sched, seg)
	if err != nil {
		return nil, err
	}
	inst := BooleanIndicator{
		AbstractAnimation: base,
		supplier:          supplier,
		trueColor:         trueColor,
		falseColor:        falseColor,
	}
	inst.drawFunc = inst.draw
	return &inst, nil
}

func (b *BooleanIndicator) draw(time.Time) error {
	color := b.falseColor
	if b.supplier() {
		color = b.trueColor
	}
	return b.device.WritePixels(b.seg.Start(), b.seg.Length(), color)
}
