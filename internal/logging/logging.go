package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var (
	disabled atomic.Bool
	level    = new(slog.LevelVar)
	logger   atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelInfo)
	SetOutput(os.Stderr)
}

// SetOutput replaces the log destination. Colour is enabled only for terminals.
func SetOutput(w io.Writer) {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
	}
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    noColor,
	})
	logger.Store(slog.New(h))
}

// Disable turns off all logging
func Disable() {
	disabled.Store(true)
}

// Enable turns logging back on
func Enable() {
	disabled.Store(false)
}

// SetVerbose switches debug output on or off.
func SetVerbose(v bool) {
	if v {
		level.Set(slog.LevelDebug)
		return
	}
	level.Set(slog.LevelInfo)
}

func log(l slog.Level, msg string, args ...any) {
	if disabled.Load() {
		return
	}
	logger.Load().Log(context.Background(), l, msg, args...)
}

// Info logs an info message
func Info(v ...any) {
	log(slog.LevelInfo, fmt.Sprint(v...))
}

// Infof logs a formatted info message
func Infof(format string, v ...any) {
	log(slog.LevelInfo, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning message
func Warnf(format string, v ...any) {
	log(slog.LevelWarn, fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error message
func Errorf(format string, v ...any) {
	log(slog.LevelError, fmt.Sprintf(format, v...))
}

// Debugf logs a formatted debug message. Only emitted in verbose mode.
func Debugf(format string, v ...any) {
	log(slog.LevelDebug, fmt.Sprintf(format, v...))
}

// With returns a structured logger carrying the given attributes.
// It honours Disable at the time of each call.
func With(args ...any) Logger {
	return Logger{attrs: args}
}

// Logger is a small structured logger that can be embedded in structs.
type Logger struct {
	attrs []any
}

func (l Logger) emit(lv slog.Level, msg string, args ...any) {
	if disabled.Load() {
		return
	}
	logger.Load().With(l.attrs...).Log(context.Background(), lv, msg, args...)
}

// Info logs msg with key/value pairs.
func (l Logger) Info(msg string, args ...any) { l.emit(slog.LevelInfo, msg, args...) }

// Warn logs msg with key/value pairs.
func (l Logger) Warn(msg string, args ...any) { l.emit(slog.LevelWarn, msg, args...) }

// Error logs msg with key/value pairs.
func (l Logger) Error(msg string, args ...any) { l.emit(slog.LevelError, msg, args...) }

// Debug logs msg with key/value pairs.
func (l Logger) Debug(msg string, args ...any) { l.emit(slog.LevelDebug, msg, args...) }
