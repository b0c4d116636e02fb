package logger

import "os"

var defaultLogger ILogger = NewConsoleLogger(os.Stdout)

// SetDefaultLogger replaces the process-wide default logger. A nil logger
// is ignored.
func SetDefaultLogger(l ILogger) {
	if l != nil {
		defaultLogger = l
	}
}

// GetDefaultLogger returns the process-wide default logger.
//
//nolint:ireturn // ILogger is the package's exported surface
func GetDefaultLogger() ILogger {
	return defaultLogger
}

// The package-level helpers log through the default logger, for call sites
// that have no logger of their own.

// Trace logs at the Trace level through the default logger.
func Trace(args ...any) { defaultLogger.Trace(args...) }

// Debug logs at the Debug level through the default logger.
func Debug(args ...any) { defaultLogger.Debug(args...) }

// Info logs at the Info level through the default logger.
func Info(args ...any) { defaultLogger.Info(args...) }

// Warning logs at the Warning level through the default logger.
func Warning(args ...any) { defaultLogger.Warning(args...) }

// Error logs at the Error level through the default logger.
func Error(args ...any) { defaultLogger.Error(args...) }

// Panic logs at the Panic level through the default logger, then panics.
func Panic(args ...any) { defaultLogger.Panic(args...) }
