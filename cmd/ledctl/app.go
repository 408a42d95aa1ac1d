package main

import (
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/robolight/ledctl/animation"
	"github.com/robolight/ledctl/config"
	"github.com/robolight/ledctl/fx"
	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/platform"
	"github.com/robolight/ledctl/scheduler"
)

// demoInputs holds the values the indicator animations poll. In simulation
// mode the TUI keys mutate them; on real hardware they just sit at their
// defaults until some integration replaces the suppliers.
type demoInputs struct {
	mu     sync.Mutex
	boolOn bool
	state  int
	value  float64
}

func (d *demoInputs) Bool() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boolOn
}

func (d *demoInputs) State() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *demoInputs) Value() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.value
}

func (d *demoInputs) toggleBool() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.boolOn = !d.boolOn
}

func (d *demoInputs) cycleState() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state++
}

func (d *demoInputs) nudge(delta, minVal, maxVal float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.value += delta
	if d.value < minVal {
		d.value = minVal
	}
	if d.value > maxVal {
		d.value = maxVal
	}
}

// app wires config, platform, scheduler and the configured animations
// together for one run between reloads.
type app struct {
	conf       *config.Config
	plat       platform.Platform
	tui        *platform.TUIPlatform
	sched      *scheduler.TickScheduler
	inputs     *demoInputs
	animations map[string]animation.Animation
	countdown  *animation.Countdown

	keyStop chan struct{}
	keyWg   sync.WaitGroup
}

func newApp(conf *config.Config, ossignal chan os.Signal) (*app, error) {
	inst := app{
		conf:       conf,
		sched:      scheduler.NewTickScheduler(conf.Hardware.TickInterval.D()),
		inputs:     &demoInputs{},
		animations: make(map[string]animation.Animation),
		keyStop:    make(chan struct{}),
	}

	if conf.RealHW {
		inst.plat = platform.NewRPiPlatform(conf)
	} else {
		tui, err := platform.NewTUIPlatform(conf, ossignal)
		if err != nil {
			return nil, err
		}
		inst.tui = tui
		inst.plat = tui
	}

	if err := inst.buildAnimations(); err != nil {
		return nil, err
	}
	return &inst, nil
}

// buildAnimations constructs every enabled animation from the config. The
// segment names were validated at config load time.
func (a *app) buildAnimations() error {
	cfg := a.conf.Animations

	if cfg.Breathe.Enabled {
		seg, err := a.conf.Segment(cfg.Breathe.Segment)
		if err != nil {
			return err
		}
		ani, err := animation.NewBreathe(a.plat, a.sched, seg,
			cfg.Breathe.LedRGB.Color(), cfg.Breathe.FrequencyHz, cfg.Breathe.Dimmness, cfg.Breathe.PhaseShift)
		if err != nil {
			return err
		}
		a.animations["Breathe"] = ani
	}

	if cfg.Countdown.Enabled {
		seg, err := a.conf.Segment(cfg.Countdown.Segment)
		if err != nil {
			return err
		}
		ani, err := animation.NewCountdown(a.plat, a.sched, seg,
			cfg.Countdown.Duration.D(), cfg.Countdown.LedRGB.Color())
		if err != nil {
			return err
		}
		a.animations["Countdown"] = ani
		a.countdown = ani
	}

	if cfg.Boolean.Enabled {
		seg, err := a.conf.Segment(cfg.Boolean.Segment)
		if err != nil {
			return err
		}
		ani, err := animation.NewBooleanIndicator(a.plat, a.sched, seg,
			a.inputs.Bool, cfg.Boolean.TrueRGB.Color(), cfg.Boolean.FalseRGB.Color())
		if err != nil {
			return err
		}
		a.animations["Boolean"] = ani
	}

	if cfg.State.Enabled {
		seg, err := a.conf.Segment(cfg.State.Segment)
		if err != nil {
			return err
		}
		colors := make([]led.Color, len(cfg.State.Colors))
		for i, rgb := range cfg.State.Colors {
			colors[i] = rgb.Color()
		}
		ani, err := animation.NewStateIndicator(a.plat, a.sched, seg, a.inputs.State, colors)
		if err != nil {
			return err
		}
		a.animations["State"] = ani
	}

	if cfg.Range.Enabled {
		seg, err := a.conf.Segment(cfg.Range.Segment)
		if err != nil {
			return err
		}
		ani, err := animation.NewRangeValue(a.plat, a.sched, seg,
			cfg.Range.Min, cfg.Range.Max, a.inputs.Value,
			cfg.Range.FillRGB.Color(), cfg.Range.EmptyRGB.Color())
		if err != nil {
			return err
		}
		a.animations["Range"] = ani
	}
	return nil
}

func (a *app) start() error {
	if err := a.plat.Start(); err != nil {
		return err
	}
	if a.tui != nil {
		<-a.tui.Ready()
		a.keyWg.Add(1)
		go a.handleKeys()
	}

	names := maps.Keys(a.animations)
	sort.Strings(names)
	for _, name := range names {
		a.animations[name].Run()
		slog.Info("Animation running", "name", name)
	}

	a.sched.Start()
	return nil
}

func (a *app) stop() {
	a.sched.Stop()
	for name, ani := range a.animations {
		if err := ani.End(); err != nil {
			slog.Error("Error ending animation", "name", name, "error", err)
		}
	}
	if a.tui != nil {
		close(a.keyStop)
		a.keyWg.Wait()
	}
	a.plat.Stop()
}

// handleKeys maps the runes the TUI forwards onto the demo suppliers and
// the vendor animation showcase.
func (a *app) handleKeys() {
	defer a.keyWg.Done()
	for {
		select {
		case <-a.keyStop:
			return
		case key := <-a.tui.KeyEvents():
			switch key {
			case 'b':
				a.inputs.toggleBool()
			case 's':
				a.inputs.cycleState()
			case '+':
				a.inputs.nudge(+5, a.conf.Animations.Range.Min, a.conf.Animations.Range.Max)
			case '-':
				a.inputs.nudge(-5, a.conf.Animations.Range.Min, a.conf.Animations.Range.Max)
			case 'c':
				if a.countdown != nil {
					a.countdown.Stop()
					a.countdown.Run()
					slog.Info("Countdown restarted")
				}
			case 'l':
				a.pushEffect(fx.Larson, led.Red, fx.Fast())
			case 'w':
				a.pushEffect(fx.Rainbow, led.Off, fx.Defaults())
			case 'f':
				a.pushEffect(fx.Fire, led.Orange, fx.IntenseFire())
			}
		}
	}
}

// pushEffect hands a whole-strip vendor animation to the device.
func (a *app) pushEffect(t fx.Type, color led.Color, cfg fx.Config) {
	seg, err := led.NewSegment(0, a.plat.PixelCount())
	if err != nil {
		return
	}
	eff, err := fx.New(t, color, seg, cfg)
	if err != nil {
		slog.Error("Invalid animation parameters", "type", t, "error", err)
		return
	}
	if err := a.plat.Animate(eff); err != nil {
		slog.Error("Error forwarding animation", "type", t, "error", err)
	}
}
