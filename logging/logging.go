// Package logging configures the process-wide slog logger. In simulation
// mode log lines are buffered until the TUI's log pane exists, then flushed
// into it, so early startup messages are neither lost nor scribbled over the
// terminal the TUI is about to take over.
package logging

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// deferredWriter buffers writes until a live target is attached and can
// additionally tee every line into a log file.
type deferredWriter struct {
	mu        sync.Mutex
	buffer    bytes.Buffer
	target    io.Writer
	file      *os.File
	buffering bool
}

func (w *deferredWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	if w.buffering {
		w.buffer.Write(p)
	} else if w.target != nil {
		if _, err := w.target.Write(p); err != nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

var writer *deferredWriter

// Init sets up the default slog logger. With buffered=true output is held
// back until SetOutput attaches a target.
func Init(buffered bool, level, format string, toFile bool, filePath string) error {
	writer = &deferredWriter{buffering: buffered}
	if !buffered {
		writer.target = os.Stderr
	}

	if toFile {
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		writer.file = f
	}

	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetOutput attaches the live target, first flushing everything buffered so
// far. Subsequent writes go straight through.
func SetOutput(target io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.buffer.Len() > 0 {
		if _, err := target.Write(writer.buffer.Bytes()); err != nil {
			return err
		}
		writer.buffer.Reset()
	}
	writer.target = target
	writer.buffering = false
	return nil
}

// Close flushes whatever is still buffered (to the log file if there is one,
// to stderr as a last resort) and closes the file.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var firstErr error
	if writer.buffer.Len() > 0 {
		out := io.Writer(os.Stderr)
		if writer.file != nil {
			out = writer.file
		}
		if _, err := out.Write(writer.buffer.Bytes()); err != nil {
			firstErr = err
		}
		writer.buffer.Reset()
	}
	if writer.file != nil {
		if err := writer.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		writer.file = nil
	}
	return firstErr
}
