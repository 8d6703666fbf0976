// Package logging wraps slog for typechat.
//
// The terminal belongs to the TUI while it runs, so the logger is off unless
// LOG_LEVEL is set, and writes to LOG_FILE when that is set too.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelOff disables all logging.
	LevelOff
)

// ParseLevel maps a level name to a Level. Unknown names mean LevelOff.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelOff
	}
}

// Logger is a leveled slog logger. A nil *Logger is valid and discards everything.
type Logger struct {
	slog  *slog.Logger
	level Level
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{level: LevelOff}
}

// New creates a logger with the given level writing text records to w.
func New(level Level, w io.Writer) *Logger {
	if level == LevelOff {
		return Nop()
	}
	if w == nil {
		w = os.Stderr
	}

	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format("15:04:05.000"))
			}
			return a
		},
	}

	return &Logger{
		slog:  slog.New(slog.NewTextHandler(w, opts)),
		level: level,
	}
}

// FromEnv builds a logger from LOG_LEVEL and LOG_FILE. The returned closer
// must be called on shutdown; it is a no-op when no file was opened.
func FromEnv() (*Logger, func() error, error) {
	noop := func() error { return nil }

	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	if level == LevelOff {
		return Nop(), noop, nil
	}

	path := strings.TrimSpace(os.Getenv("LOG_FILE"))
	if path == "" {
		return New(level, os.Stderr), noop, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return Nop(), noop, fmt.Errorf("open log file: %w", err)
	}
	return New(level, f), f.Close, nil
}

// Enabled reports whether any records will be written.
func (l *Logger) Enabled() bool {
	return l != nil && l.level != LevelOff && l.slog != nil
}

func (l *Logger) Debug(msg string, args ...any) {
	if l.Enabled() && l.level <= LevelDebug {
		l.slog.Debug(msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...any) {
	if l.Enabled() && l.level <= LevelInfo {
		l.slog.Info(msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...any) {
	if l.Enabled() && l.level <= LevelWarn {
		l.slog.Warn(msg, args...)
	}
}

func (l *Logger) Error(msg string, args ...any) {
	if l.Enabled() && l.level <= LevelError {
		l.slog.Error(msg, args...)
	}
}

// With returns a logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	if !l.Enabled() {
		return l
	}
	return &Logger{
		slog:  l.slog.With(args...),
		level: l.level,
	}
}

// RequestLogger times a single generation request.
type RequestLogger struct {
	logger    *Logger
	provider  string
	model     string
	startTime time.Time
}

// StartRequest begins timing a generation request.
func (l *Logger) StartRequest(provider, model string) *RequestLogger {
	if !l.Enabled() {
		return &RequestLogger{logger: l}
	}
	l.Debug("generation started", "provider", provider, "model", model)
	return &RequestLogger{
		logger:    l,
		provider:  provider,
		model:     model,
		startTime: time.Now(),
	}
}

// Success logs a completed request.
func (r *RequestLogger) Success(chars int) {
	if !r.logger.Enabled() {
		return
	}
	r.logger.Info("generation completed",
		"provider", r.provider,
		"model", r.model,
		"chars", chars,
		"duration_ms", time.Since(r.startTime).Milliseconds(),
	)
}

// Error logs a failed request.
func (r *RequestLogger) Error(err error) {
	if !r.logger.Enabled() {
		return
	}
	r.logger.Error("generation failed",
		"provider", r.provider,
		"model", r.model,
		"error", err.Error(),
		"duration_ms", time.Since(r.startTime).Milliseconds(),
	)
}
