package platform

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gammazero/deque"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"golang.org/x/exp/maps"

	"github.com/robolight/ledctl/config"
	"github.com/robolight/ledctl/fx"
	"github.com/robolight/ledctl/led"
	"github.com/robolight/ledctl/logging"
	"github.com/robolight/ledctl/util"
)

// fpsWindow is the number of frame timestamps kept for the FPS readout.
const fpsWindow = 120

// TUIPlatform simulates the strip in the terminal. Pixel writes land in the
// shared buffer and are handed to the render goroutine through a coalescing
// cell, so a fast animation can never back up the engine behind the
// terminal's redraw rate. A parametric animation is not simulated pixel by
// pixel; it shows up as a status line naming what the strip controller would
// be running.
type TUIPlatform struct {
	config       *config.Config
	buffer       *stripBuffer
	frames       *util.Latest[led.Frame]
	tviewapp     *tview.Application
	intro        *tview.TextView
	stripView    *tview.TextView
	statusView   *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	keyEvents    chan rune
	stopChan     chan struct{}
	renderWg     sync.WaitGroup
	logFlushOnce sync.Once
	readyChan    chan bool

	statusMu    sync.Mutex
	statusLabel string

	frameMu    sync.Mutex
	frameTimes deque.Deque[time.Time]
}

// NewTUIPlatform refuses to build a simulation for a config that selected
// the real backend; the two must never be mixed up silently.
func NewTUIPlatform(conf *config.Config, ossignalchan chan os.Signal) (*TUIPlatform, error) {
	if conf.RealHW {
		return nil, ErrRealHardware
	}
	inst := TUIPlatform{
		config:       conf,
		buffer:       newStripBuffer(conf.Hardware.LedsTotal),
		frames:       util.NewLatest[led.Frame](),
		ossignalChan: ossignalchan,
		keyEvents:    make(chan rune, 8),
		stopChan:     make(chan struct{}),
		readyChan:    make(chan bool),
	}
	return &inst, nil
}

// Ready is closed after the TUI has drawn for the first time and the log
// pane has taken over the slog output.
func (s *TUIPlatform) Ready() <-chan bool {
	return s.readyChan
}

// KeyEvents returns the channel carrying runes not handled by the TUI
// itself. The demo wires these to animation suppliers.
func (s *TUIPlatform) KeyEvents() <-chan rune {
	return s.keyEvents
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()

	s.renderWg.Add(1)
	go s.renderDriver()
	return nil
}

func (s *TUIPlatform) Stop() {
	close(s.stopChan)
	s.renderWg.Wait()

	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

func (s *TUIPlatform) PixelCount() int {
	return s.buffer.len()
}

func (s *TUIPlatform) WritePixels(start, count int, color led.Color) error {
	s.buffer.setRange(start, count, color)

	s.frameMu.Lock()
	if s.frameTimes.Len() == fpsWindow {
		s.frameTimes.PopFront()
	}
	s.frameTimes.PushBack(time.Now())
	s.frameMu.Unlock()

	s.frames.Publish(s.buffer.snapshot())
	return nil
}

func (s *TUIPlatform) WriteAll(color led.Color) error {
	return s.WritePixels(0, s.buffer.len(), color)
}

func (s *TUIPlatform) Animate(a fx.Animation) error {
	label := a.Describe()
	s.statusMu.Lock()
	s.statusLabel = label
	s.statusMu.Unlock()

	slog.Info("Animation handed to simulated strip controller", "animation", label)
	s.frames.Publish(s.buffer.snapshot())
	return nil
}

// StatusLabel returns what the status pane currently announces.
func (s *TUIPlatform) StatusLabel() string {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.statusLabel
}

func (s *TUIPlatform) fps() float64 {
	s.frameMu.Lock()
	defer s.frameMu.Unlock()

	if s.frameTimes.Len() < 2 {
		return 0
	}
	span := s.frameTimes.Back().Sub(s.frameTimes.Front()).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(s.frameTimes.Len()-1) / span
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" LEDCTL Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	s.stripView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.stripView.SetBorder(true)
	s.stripView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	s.statusView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.statusView.SetBorder(true).SetTitle(" Strip Controller ").SetTitleColor(tcell.ColorLightBlue)
	s.statusView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 6, 0, false).
		AddItem(s.stripView, 5, 0, false).
		AddItem(s.statusView, 3, 0, false).
		AddItem(s.logView, 0, 1, true)

	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logging.SetOutput(tview.ANSIWriter(s.logView))
			close(s.readyChan)
		})
	})

	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				s.ossignalChan <- os.Interrupt
				return nil
			case 'r', 'R':
				s.ossignalChan <- syscall.SIGHUP
				return nil
			default:
				select {
				case s.keyEvents <- event.Rune():
				default:
					// Nobody is consuming fast enough; drop the key.
				}
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// renderDriver moves frames from the coalescing cell onto the screen. The
// engine publishes at its own tick rate; only the newest frame is drawn.
func (s *TUIPlatform) renderDriver() {
	defer s.renderWg.Done()
	for {
		select {
		case <-s.stopChan:
			slog.Info("Ending render driver go-routine")
			return
		case <-s.frames.Notify():
			frame := s.frames.Value()
			s.tviewapp.QueueUpdateDraw(func() {
				s.redraw(frame)
			})
		}
	}
}

// redraw repaints strip, status and FPS panes. Must run on the TUI thread
// via QueueUpdateDraw.
func (s *TUIPlatform) redraw(frame led.Frame) {
	top, bottom := renderStripLines(frame)
	s.stripView.SetText(" " + top + "\n " + bottom + "\n " + s.segmentRuler())

	s.statusMu.Lock()
	label := s.statusLabel
	s.statusMu.Unlock()
	if label == "" {
		label = "[grey]idle[-]"
	} else {
		label = "[yellow]" + label + "[-]"
	}
	s.statusView.SetText(" " + label)

	s.intro.SetText(s.getIntroText())
}

func (s *TUIPlatform) getIntroText() string {
	line1 := fmt.Sprintf("Simulating %d LEDs | FPS: [#ffff00]%5.1f[white]", s.buffer.len(), s.fps())
	line2 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"
	line3 := "Other keys are forwarded to the demo suppliers"
	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

// segmentRuler marks the named segments from the config under the strip.
func (s *TUIPlatform) segmentRuler() string {
	ruler := []rune(strings.Repeat(" ", s.buffer.len()))
	names := maps.Keys(s.config.Segments)
	sort.Strings(names)

	for _, name := range names {
		seg := s.config.Segments[name]
		if seg.Start < 0 || seg.Start >= len(ruler) {
			continue
		}
		marker := []rune(name)
		for i := 0; i < len(marker) && seg.Start+i < seg.End && seg.Start+i < len(ruler); i++ {
			ruler[seg.Start+i] = marker[i]
		}
	}
	return "[blue]" + string(ruler) + "[-]"
}

// renderStripLines produces the two-line bar representation of a frame. A
// dark pixel is blank; a lit one grows from the bottom line into the top one
// with brightness.
func renderStripLines(frame led.Frame) (string, string) {
	var top, bottom strings.Builder
	blocks := []rune("▁▂▃▄▅▆▇█")

	for _, c := range frame {
		if c.IsOff() {
			top.WriteString(" ")
			bottom.WriteString(" ")
			continue
		}
		colorStr := displayColor(c)
		level := displayLevel(c)

		topChar, bottomChar := " ", string(blocks[level%8])
		if level >= 8 {
			topChar, bottomChar = string(blocks[level-8]), "█"
		}
		top.WriteString(colorStr + topChar + "[-]")
		bottom.WriteString(colorStr + bottomChar + "[-]")
	}
	return top.String(), bottom.String()
}

// displayLevel maps a color's average channel value onto 0..15. Channels
// outside [0, 255] are clamped here only; the clamping is purely cosmetic.
func displayLevel(c led.Color) int {
	avg := (clampChannel(c.R) + clampChannel(c.G) + clampChannel(c.B)) / 3
	level := avg * 16 / 256
	if level > 15 {
		level = 15
	}
	return level
}

// displayColor renders a color tag at full saturation so even a heavily
// dimmed color stays recognizable; brightness is carried by the bar height.
func displayColor(c led.Color) string {
	r, g, b := clampChannel(c.R), clampChannel(c.G), clampChannel(c.B)
	maxChannel := max(r, max(g, b))
	if maxChannel == 0 {
		return "[#000000]"
	}
	r = r * 255 / maxChannel
	g = g * 255 / maxChannel
	b = b * 255 / maxChannel
	return fmt.Sprintf("[#%02x%02x%02x]", r, g, b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
