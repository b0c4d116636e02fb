// Package logger provides the leveled, structured logging used across the
// kvcache server, backed by zerolog. NewConsoleLogger produces the
// human-readable output used in development; NewJSONLogger produces the
// machine-parseable output used in production.
package logger

import (
	"io"
	"strings"
)

// Level is a logging severity.
type Level uint

// Severities, lowest to highest.
const (
	LevelTrace Level = iota + 1
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError
	LevelPanic
)

var levelNames = map[Level]string{
	LevelTrace:   "trace",
	LevelDebug:   "debug",
	LevelInfo:    "info",
	LevelWarning: "warn",
	LevelError:   "error",
	LevelPanic:   "panic",
}

// String returns the lower-case name of the level, or "info" for an
// unknown value.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return levelNames[LevelInfo]
}

// ParseLevel maps a level name, as configured through LOG_LEVEL, to its
// Level. It accepts trace, debug, info, warn, warning, error and panic,
// case-insensitively, and reports whether the name was recognized.
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarning, true
	case "error":
		return LevelError, true
	case "panic":
		return LevelPanic, true
	default:
		return LevelInfo, false
	}
}

// ILogger is the logging interface the rest of the repository depends on.
type ILogger interface {
	Trace(args ...any)
	Tracef(format string, args ...any)
	Debug(args ...any)
	Debugf(format string, args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Warning(args ...any)
	Warningf(format string, args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Panic(args ...any)
	Panicf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level

	SetOutput(out ...io.Writer)
	GetOutput() []io.Writer

	AddField(key string, value any)
	SetLogID(value any)

	// SubLogger derives a child logger whose messages carry a bracketed
	// prefix built from format and args, appended to the parent's prefix.
	SubLogger(format string, args ...any) ILogger
}
