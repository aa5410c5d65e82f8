// Package logger provides process-wide logging for pdfanalysis.
//
// Debug and Info messages are printed only in verbose mode (--verbose) and
// trace the orchestrator's cache and build decisions. Warn and Error are
// always printed. Output is plain "[LEVEL] message" lines by default, or
// one JSON object per line with SetFormat(FormatJSON).
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Format selects the output encoding.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text or json)", s)
	}
}

// writeMu serialises writes across handler rebuilds.
var writeMu sync.Mutex

type lockedWriter struct {
	w io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	writeMu.Lock()
	defer writeMu.Unlock()
	return l.w.Write(p)
}

var (
	mu      sync.RWMutex
	verbose bool
	format            = FormatText
	output  io.Writer = os.Stderr
	log               = build()
)

// build creates the slog logger for the current settings (caller holds mu).
func build() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	w := &lockedWriter{w: output}

	if format == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(&plainHandler{w: w, level: level})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	log = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer.
// Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	log = build()
}

// SetFormat sets the output encoding.
func SetFormat(f Format) {
	mu.Lock()
	defer mu.Unlock()
	format = f
	log = build()
}

// Slog returns the underlying structured logger for libraries that accept one.
func Slog() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func logf(level slog.Level, msg string, args ...any) {
	mu.RLock()
	l := log
	mu.RUnlock()

	ctx := context.Background()
	if !l.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.Log(ctx, level, msg)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	logf(slog.LevelDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	logf(slog.LevelInfo, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	logf(slog.LevelWarn, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	logf(slog.LevelError, format, args...)
}

// Section prints a section header if verbose mode is enabled.
// In JSON mode it is a debug record with a "section" attribute.
func Section(name string) {
	mu.RLock()
	l, v := log, verbose
	mu.RUnlock()

	if !v {
		return
	}
	if h, ok := l.Handler().(*plainHandler); ok {
		h.write("\n=== " + name + " ===\n")
		return
	}
	l.Debug("section", slog.String("section", name))
}

// plainHandler writes "[LEVEL] message key=value" lines.
type plainHandler struct {
	w     io.Writer
	level slog.Level
	attrs []slog.Attr
}

func (h *plainHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *plainHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(r.Level.String())
	b.WriteString("] ")
	b.WriteString(r.Message)

	writeAttr := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		writeAttr(a)
	}
	r.Attrs(writeAttr)
	b.WriteString("\n")

	return h.write(b.String())
}

func (h *plainHandler) write(s string) error {
	_, err := io.WriteString(h.w, s)
	return err
}

func (h *plainHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &plainHandler{
		w:     h.w,
		level: h.level,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup is not supported; attributes stay flat.
func (h *plainHandler) WithGroup(_ string) slog.Handler {
	return h
}
