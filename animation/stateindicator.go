package animation

import (
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// StateIndicator maps an enumerated state ordinal onto an ordered color
// sequence and fills the segment with colors[ordinal mod len(colors)]. An
// empty color sequence renders Off instead of failing. The animation never
// completes on its own.
type StateIndicator struct {
	*AbstractAnimation
	supplier func() int
	colors   []led.Color
}

// NewStateIndicator creates an indicator driven by the ordinal-bearing
// supplier. The color slice is copied, so callers may reuse theirs.
func NewStateIndicator(device Device, sched scheduler.Scheduler, seg led.Segment, supplier func() int, colors []led.Color) (*StateIndicator, error) {
	if supplier == nil {
		return nil, ErrNilParameter
	}
	base, err := newAbstractAnimation(device, sched, seg)
	if err != nil {
		return nil, err
	}
	inst := StateIndicator{
		AbstractAnimation: base,
		supplier:          supplier,
		colors:            append([]led.Color(nil), colors...),
	}
	inst.drawFunc = inst.draw
	return &inst, nil
}

func (s *StateIndicator) draw(time.Time) error {
	color := led.Off
	if len(s.colors) > 0 {
		idx := s.supplier() % len(s.colors)
		if idx < 0 {
			idx += len(s.colors)
		}
		color = s.colors[idx]
	}
	return s.device.WritePixels(s.seg.Start(), s.seg.Length(), color)
}
