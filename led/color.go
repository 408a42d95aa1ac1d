package led

// Color is an immutable RGB triple with 8 bits per channel. Channels are
// plain ints so that out-of-range values created via Custom travel unclamped
// all the way to the device boundary; the device clips pixel indices but
// never channel values.
type Color struct {
	R int
	G int
	B int
}

// The fixed named palette.
var (
	Red     = Color{255, 0, 0}
	Green   = Color{0, 255, 0}
	Blue    = Color{0, 0, 255}
	Yellow  = Color{255, 255, 0}
	Purple  = Color{128, 0, 128}
	Orange  = Color{255, 165, 0}
	White   = Color{255, 255, 255}
	Cyan    = Color{0, 255, 255}
	Magenta = Color{255, 0, 255}
	Off     = Color{0, 0, 0}
)

// Custom builds an arbitrary color. There is no range validation: values
// outside [0,255] are passed through uninterpreted.
func Custom(r, g, b int) Color {
	return Color{R: r, G: g, B: b}
}

// Scale returns the color with every channel multiplied by factor and
// truncated to int.
func (c Color) Scale(factor float64) Color {
	return Color{
		R: int(float64(c.R) * factor),
		G: int(float64(c.G) * factor),
		B: int(float64(c.B) * factor),
	}
}

// IsOff reports whether all channels are zero.
func (c Color) IsOff() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// Frame is a snapshot of one full strip, one Color per pixel.
type Frame []Color

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	out := make(Frame, len(f))
	copy(out, f)
	return out
}
