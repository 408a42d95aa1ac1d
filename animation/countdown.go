package animation

import (
	"fmt"
	"math"
	"time"

	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/scheduler"
)

// Countdown renders a shrinking bar: the segment starts fully lit and the
// lit pixel count decreases linearly until the configured duration has
// elapsed, at which point the animation goes idle on its own. Run() after
// expiry restarts the clock from full.
type Countdown struct {
	*AbstractAnimation
	duration time.Duration
	color    led.Color
}

// NewCountdown creates a countdown over the given duration, which must be
// positive.
func NewCountdown(device Device, sched scheduler.Scheduler, seg led.Segment, duration time.Duration, color led.Color) (*Countdown, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be > 0, got %v", ErrInvalidParameter, duration)
	}
	base, err := newAbstractAnimation(device, sched, seg)
	if err != nil {
		return nil, err
	}
	inst := Countdown{
		AbstractAnimation: base,
		duration:          duration,
		color:             color,
	}
	inst.drawFunc = inst.draw
	inst.finishedFunc = inst.expired
	return &inst, nil
}

func (c *Countdown) draw(now time.Time) error {
	lit := c.litCount(now)
	if lit > 0 {
		if err := c.device.WritePixels(c.seg.Start(), lit, c.color); err != nil {
			return err
		}
	}
	if rest := c.seg.Length() - lit; rest > 0 {
		if err := c.device.WritePixels(c.seg.Start()+lit, rest, led.Off); err != nil {
			return err
		}
	}
	return nil
}

func (c *Countdown) litCount(now time.Time) int {
	elapsed := now.Sub(c.startedAt())
	remaining := math.Max(0, (c.duration - elapsed).Seconds()/c.duration.Seconds())
	lit := int(math.Round(remaining * float64(c.seg.Length())))
	if lit < 0 {
		lit = 0
	} else if lit > c.seg.Length() {
		lit = c.seg.Length()
	}
	return lit
}

func (c *Countdown) expired(now time.Time) bool {
	return now.Sub(c.startedAt()) >= c.duration
}
