// =============================================================================
// Itinerary Processor - Logging
// =============================================================================
//
// Logger is the small leveled logging interface shared by the converter, the
// CLI and the itinerary pipeline's diagnostics reporting. The default
// implementation writes through the standard library log package and drops
// messages below the configured level.
//
// LEVELS:
//   debug < info < warn < error
//
// =============================================================================

package logging

import (
	"io"
	"log"
	"strings"
)

// Logger is an interface for leveled, printf-style logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Level is a logging threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a config value ("debug", "info", "warn", "error") to a
// Level. Unknown values fall back to info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// stdLogger writes to a standard library *log.Logger.
type stdLogger struct {
	out   *log.Logger
	level Level
}

// New returns a Logger that writes to w, filtering below level.
func New(w io.Writer, level Level) Logger {
	return &stdLogger{
		out:   log.New(w, "", log.LstdFlags),
		level: level,
	}
}

func (l *stdLogger) logf(level Level, tag, msg string, args ...interface{}) {
	if level < l.level {
		return
	}
	l.out.Printf("["+tag+"] "+msg, args...)
}

func (l *stdLogger) Debug(msg string, args ...interface{}) {
	l.logf(LevelDebug, "DEBUG", msg, args...)
}

func (l *stdLogger) Info(msg string, args ...interface{}) {
	l.logf(LevelInfo, "INFO", msg, args...)
}

func (l *stdLogger) Warn(msg string, args ...interface{}) {
	l.logf(LevelWarn, "WARN", msg, args...)
}

func (l *stdLogger) Error(msg string, args ...interface{}) {
	l.logf(LevelError, "ERROR", msg, args...)
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
