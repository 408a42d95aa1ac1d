// Package config loads and validates the YAML configuration: strip geometry,
// named segments, per-animation parameter sections and logging options.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robolight/ledctl/led"
)

// ErrValidation marks a structurally valid YAML file with inconsistent
// content.
var ErrValidation = errors.New("config validation failed")

// Duration wraps time.Duration so YAML values can be written as "20ms" or
// "10s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// D returns the wrapped time.Duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// RGB is a color triple as written in the config file.
type RGB [3]int

// Color converts the triple to the engine's color type.
func (c RGB) Color() led.Color {
	return led.Custom(c[0], c[1], c[2])
}

type HardwareConfig struct {
	LedsTotal    int      `yaml:"LedsTotal"`
	TickInterval Duration `yaml:"TickInterval"`
	SPIDevice    string   `yaml:"SPIDevice"`
	SPIFrequency int64    `yaml:"SPIFrequency"`
}

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	ToFile bool   `yaml:"ToFile"`
	File   string `yaml:"File"`
}

type SegmentCfg struct {
	Start int `yaml:"Start"`
	End   int `yaml:"End"`
}

type BreatheConfig struct {
	Enabled     bool    `yaml:"Enabled"`
	Segment     string  `yaml:"Segment"`
	LedRGB      RGB     `yaml:"LedRGB"`
	FrequencyHz float64 `yaml:"FrequencyHz"`
	Dimmness    float64 `yaml:"Dimmness"`
	PhaseShift  float64 `yaml:"PhaseShift"`
}

type CountdownConfig struct {
	Enabled  bool     `yaml:"Enabled"`
	Segment  string   `yaml:"Segment"`
	LedRGB   RGB      `yaml:"LedRGB"`
	Duration Duration `yaml:"Duration"`
}

type BooleanConfig struct {
	Enabled  bool   `yaml:"Enabled"`
	Segment  string `yaml:"Segment"`
	TrueRGB  RGB    `yaml:"TrueRGB"`
	FalseRGB RGB    `yaml:"FalseRGB"`
}

type StateConfig struct {
	Enabled bool   `yaml:"Enabled"`
	Segment string `yaml:"Segment"`
	Colors  []RGB  `yaml:"Colors"`
}

type RangeConfig struct {
	Enabled  bool    `yaml:"Enabled"`
	Segment  string  `yaml:"Segment"`
	Min      float64 `yaml:"Min"`
	Max      float64 `yaml:"Max"`
	FillRGB  RGB     `yaml:"FillRGB"`
	EmptyRGB RGB     `yaml:"EmptyRGB"`
}

type AnimationsConfig struct {
	Breathe   BreatheConfig   `yaml:"Breathe"`
	Countdown CountdownConfig `yaml:"Countdown"`
	Boolean   BooleanConfig   `yaml:"Boolean"`
	State     StateConfig     `yaml:"State"`
	Range     RangeConfig     `yaml:"Range"`
}

type Config struct {
	RealHW     bool   `yaml:"-"`
	Configfile string `yaml:"-"`

	Hardware   HardwareConfig        `yaml:"Hardware"`
	Log        LogConfig             `yaml:"Log"`
	Segments   map[string]SegmentCfg `yaml:"Segments"`
	Animations AnimationsConfig      `yaml:"Animations"`
}

// ReadConfig loads and validates the config file. realhw records which
// backend the caller selected; the value is not part of the file.
func ReadConfig(cfile string, realhw bool) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", cfile, err)
	}
	defer f.Close()

	conf := Config{}
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&conf); err != nil {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	conf.RealHW = realhw
	conf.Configfile = cfile

	if err := conf.validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Config) validate() error {
	if c.Hardware.LedsTotal <= 0 {
		return fmt.Errorf("%w: Hardware.LedsTotal must be > 0, got %d", ErrValidation, c.Hardware.LedsTotal)
	}
	if c.Hardware.TickInterval.D() < 0 {
		return fmt.Errorf("%w: Hardware.TickInterval must not be negative", ErrValidation)
	}

	for name, seg := range c.Segments {
		s, err := led.NewSegment(seg.Start, seg.End)
		if err != nil {
			return fmt.Errorf("%w: segment %q: %v", ErrValidation, name, err)
		}
		if s.End() > c.Hardware.LedsTotal {
			return fmt.Errorf("%w: segment %q ends at %d beyond the strip length %d",
				ErrValidation, name, s.End(), c.Hardware.LedsTotal)
		}
	}

	for section, ani := range map[string]struct {
		enabled bool
		segment string
	}{
		"Breathe":   {c.Animations.Breathe.Enabled, c.Animations.Breathe.Segment},
		"Countdown": {c.Animations.Countdown.Enabled, c.Animations.Countdown.Segment},
		"Boolean":   {c.Animations.Boolean.Enabled, c.Animations.Boolean.Segment},
		"State":     {c.Animations.State.Enabled, c.Animations.State.Segment},
		"Range":     {c.Animations.Range.Enabled, c.Animations.Range.Segment},
	} {
		if ani.enabled {
			if _, ok := c.Segments[ani.segment]; !ok {
				return fmt.Errorf("%w: animation %s references unknown segment %q",
					ErrValidation, section, ani.segment)
			}
		}
	}
	return nil
}

// Segment resolves a named segment from the config. The name must have been
// validated by ReadConfig.
func (c *Config) Segment(name string) (led.Segment, error) {
	seg, ok := c.Segments[name]
	if !ok {
		return led.Segment{}, fmt.Errorf("%w: unknown segment %q", ErrValidation, name)
	}
	return led.NewSegment(seg.Start, seg.End)
}
