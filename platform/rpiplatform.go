package platform

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/robolight/ledctl/config"
	"github.com/robolight/ledctl/fx"
	"github.com/robolight/ledctl/led"
)

// RPiPlatform talks to the strip controller board over SPI. The board is a
// smart controller: it takes command frames both for direct pixel writes and
// for starting its built-in parametric animations, which then run on the
// board without further traffic.
type RPiPlatform struct {
	config   *config.Config
	buffer   *stripBuffer
	spiPort  spi.PortCloser
	spiConn  spi.Conn
	spiMutex sync.Mutex
}

func NewRPiPlatform(conf *config.Config) *RPiPlatform {
	inst := RPiPlatform{
		config: conf,
		buffer: newStripBuffer(conf.Hardware.LedsTotal),
	}
	return &inst
}

func (s *RPiPlatform) Start() error {
	slog.Info("Initialise SPI...", "device", s.config.Hardware.SPIDevice)
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to init periph: %w", err)
	}

	var err error
	s.spiPort, err = spireg.Open(s.config.Hardware.SPIDevice)
	if err != nil {
		return fmt.Errorf("failed to open spi: %w", err)
	}

	s.spiConn, err = s.spiPort.Connect(physic.Frequency(s.config.Hardware.SPIFrequency)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		return fmt.Errorf("failed to connect to spi device: %w", err)
	}
	return nil
}

func (s *RPiPlatform) Stop() {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()

	if s.spiPort != nil {
		if err := s.spiPort.Close(); err != nil {
			slog.Error("Error closing spi port", "error", err)
		}
		s.spiPort = nil
		s.spiConn = nil
	}
}

func (s *RPiPlatform) PixelCount() int {
	return s.buffer.len()
}

func (s *RPiPlatform) WritePixels(start, count int, color led.Color) error {
	cs, cc := s.buffer.setRange(start, count, color)
	if cc == 0 {
		return nil
	}
	return s.spiExchange(encodeSetPixels(cs, cc, color))
}

func (s *RPiPlatform) WriteAll(color led.Color) error {
	return s.WritePixels(0, s.buffer.len(), color)
}

func (s *RPiPlatform) Animate(a fx.Animation) error {
	slog.Debug("Forwarding animation to strip controller", "animation", a.Describe())
	return s.spiExchange(encodeAnimate(a))
}

func (s *RPiPlatform) spiExchange(data []byte) error {
	s.spiMutex.Lock()
	defer s.spiMutex.Unlock()

	if s.spiConn == nil {
		return ErrNotStarted
	}
	read := make([]byte, len(data))
	if err := s.spiConn.Tx(data, read); err != nil {
		return fmt.Errorf("spi transaction failed: %w", err)
	}
	return nil
}

// Command frame layout for the strip controller. All multi-byte fields are
// big-endian; color channels are sent as their low byte, uninterpreted.
const (
	cmdSetPixels = 0x01
	cmdAnimate   = 0x02
)

func encodeSetPixels(start, count int, color led.Color) []byte {
	frame := make([]byte, 8)
	frame[0] = cmdSetPixels
	binary.BigEndian.PutUint16(frame[1:3], uint16(start))
	binary.BigEndian.PutUint16(frame[3:5], uint16(count))
	frame[5] = byte(color.R)
	frame[6] = byte(color.G)
	frame[7] = byte(color.B)
	return frame
}

func encodeAnimate(a fx.Animation) []byte {
	frame := make([]byte, 17)
	frame[0] = cmdAnimate
	frame[1] = byte(a.Type)
	binary.BigEndian.PutUint16(frame[2:4], uint16(a.Segment.Start()))
	binary.BigEndian.PutUint16(frame[4:6], uint16(a.Segment.Length()))
	frame[6] = byte(a.Color.R)
	frame[7] = byte(a.Color.G)
	frame[8] = byte(a.Color.B)
	frame[9] = unitByte(a.Config.Speed)
	frame[10] = byte(a.Config.Direction)
	frame[11] = unitByte(a.Config.Brightness)
	frame[12] = byte(a.Config.Size)
	frame[13] = unitByte(a.Config.Sparking)
	frame[14] = unitByte(a.Config.Cooling)
	frame[15] = byte(a.Config.TwinklePercent)
	frame[16] = byte(a.Config.TwinkleOffPercent)
	return frame
}

// unitByte maps [0.0, 1.0] onto a full byte.
func unitByte(v float64) byte {
	return byte(math.Round(v * 255))
}
