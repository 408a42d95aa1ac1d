// Package fx carries the parameter records for the controller's built-in
// parametric animations. There is no animation logic here: the engine
// forwards a constructed Animation to the device unchanged, where the strip
// controller firmware (or the simulation's status label) takes over.
package fx

import (
	"errors"
	"fmt"

	"github.com/robolight/ledctl/led"
)

// ErrInvalidParameter reports a vendor animation parameter outside its
// documented range.
var ErrInvalidParameter = errors.New("invalid fx parameter")

// Type enumerates the parametric animations the strip controller can run on
// its own.
type Type int

const (
	ColorFlow Type = iota
	Fire
	Larson
	Rainbow
	RgbFade
	SingleFade
	Strobe
	Twinkle
	TwinkleOff
)

var typeNames = map[Type]string{
	ColorFlow:  "ColorFlow",
	Fire:       "Fire",
	Larson:     "Larson",
	Rainbow:    "Rainbow",
	RgbFade:    "RgbFade",
	SingleFade: "SingleFade",
	Strobe:     "Strobe",
	Twinkle:    "Twinkle",
	TwinkleOff: "TwinkleOff",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Direction selects which way a direction-aware animation travels along the
// segment.
type Direction int

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "Backward"
	}
	return "Forward"
}

// Config bundles the tuning knobs shared by the parametric animations. Each
// animation type reads only the subset it cares about. Values are copied by
// the WithX setters, so configs can be shared and specialized freely.
type Config struct {
	Speed             float64   // 0.0 to 1.0, higher is faster
	Direction         Direction // Forward or Backward
	Brightness        float64   // 0.0 to 1.0
	Size              int       // pixel width for Larson
	Sparking          float64   // 0.0 to 1.0, Fire spark rate
	Cooling           float64   // 0.0 to 1.0, Fire cooling rate
	TwinklePercent    int       // share of twinkling pixels
	TwinkleOffPercent int       // share of darkened pixels for TwinkleOff
}

// Defaults returns a config suitable for most animations.
func Defaults() Config {
	return Config{
		Speed:             0.5,
		Direction:         Forward,
		Brightness:        1.0,
		Size:              3,
		Sparking:          0.7,
		Cooling:           0.5,
		TwinklePercent:    42,
		TwinkleOffPercent: 100,
	}
}

// Fast is Defaults at full speed.
func Fast() Config { return Defaults().WithSpeed(1.0) }

// Slow is Defaults at a fifth of full speed.
func Slow() Config { return Defaults().WithSpeed(0.2) }

// Dim is Defaults at low brightness.
func Dim() Config { return Defaults().WithBrightness(0.3) }

// Bright is Defaults at full brightness.
func Bright() Config { return Defaults().WithBrightness(1.0) }

// IntenseFire tunes Fire for a bright, active flame: lots of sparking, slow
// cooling.
func IntenseFire() Config {
	return Defaults().WithSpeed(0.8).WithSparking(0.9).WithCooling(0.2).WithBrightness(0.7)
}

// CalmFire tunes Fire for a gentle flicker: less sparking, faster cooling.
func CalmFire() Config {
	return Defaults().WithSpeed(0.3).WithSparking(0.4).WithCooling(0.7).WithBrightness(0.5)
}

func (c Config) WithSpeed(speed float64) Config {
	c.Speed = speed
	return c
}

func (c Config) WithDirection(direction Direction) Config {
	c.Direction = direction
	return c
}

func (c Config) WithBrightness(brightness float64) Config {
	c.Brightness = brightness
	return c
}

func (c Config) WithSize(size int) Config {
	c.Size = size
	return c
}

func (c Config) WithSparking(sparking float64) Config {
	c.Sparking = sparking
	return c
}

func (c Config) WithCooling(cooling float64) Config {
	c.Cooling = cooling
	return c
}

func (c Config) WithTwinklePercent(percent int) Config {
	c.TwinklePercent = percent
	return c
}

func (c Config) WithTwinkleOffPercent(percent int) Config {
	c.TwinkleOffPercent = percent
	return c
}

// Animation is one fully parameterized vendor animation bound to a segment,
// ready to be forwarded to the device.
type Animation struct {
	Type    Type
	Color   led.Color
	Segment led.Segment
	Config  Config
}

// New builds a vendor animation after checking the unit-interval parameters.
func New(t Type, color led.Color, seg led.Segment, cfg Config) (Animation, error) {
	for name, v := range map[string]float64{
		"speed":      cfg.Speed,
		"brightness": cfg.Brightness,
		"sparking":   cfg.Sparking,
		"cooling":    cfg.Cooling,
	} {
		if v < 0 || v > 1 {
			return Animation{}, fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidParameter, name, v)
		}
	}
	for name, v := range map[string]int{
		"twinkle percent":     cfg.TwinklePercent,
		"twinkle off percent": cfg.TwinkleOffPercent,
	} {
		if v < 0 || v > 100 {
			return Animation{}, fmt.Errorf("%w: %s must be in [0,100], got %d", ErrInvalidParameter, name, v)
		}
	}
	return Animation{Type: t, Color: color, Segment: seg, Config: cfg}, nil
}

// Describe returns the human-readable label the simulation shows when the
// animation is pushed to the device.
func (a Animation) Describe() string {
	return fmt.Sprintf("%s on %s speed=%.2f dir=%s", a.Type, a.Segment, a.Config.Speed, a.Config.Direction)
}
