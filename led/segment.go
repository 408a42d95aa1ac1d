package led

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned for segment bounds that do not describe a
// non-empty half-open range.
var ErrInvalidRange = errors.New("invalid segment range")

// Segment is a half-open index range [start, end) over a logical LED strip.
// It is a pure value: immutable once created and safe to share between any
// number of animations.
type Segment struct {
	start int
	end   int
}

// NewSegment creates a segment covering the pixels [start, end). It fails
// with ErrInvalidRange if start is negative or the range is empty.
func NewSegment(start, end int) (Segment, error) {
	if start < 0 || end-start <= 0 {
		return Segment{}, fmt.Errorf("%w: start=%d end=%d", ErrInvalidRange, start, end)
	}
	return Segment{start: start, end: end}, nil
}

// Start returns the first pixel index of the segment.
func (s Segment) Start() int {
	return s.start
}

// End returns the index one past the last pixel of the segment.
func (s Segment) End() int {
	return s.end
}

// Length returns the number of pixels in the segment.
func (s Segment) Length() int {
	return s.end - s.start
}

func (s Segment) String() string {
	return fmt.Sprintf("[%d,%d)", s.start, s.end)
}
