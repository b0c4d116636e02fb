package logger

import (
	"io"

	"github.com/rs/zerolog"
)

// NewJSONLogger returns an ILogger writing one JSON object per message to
// out, for production deployments where logs are shipped to a collector.
// The starting level is Info, matching NewConsoleLogger.
//
//nolint:ireturn // ILogger is the package's exported surface
func NewJSONLogger(out io.Writer) ILogger {
	zl := zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &zlog{zl: zl, outputs: []io.Writer{out}}
}
