package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewConsoleLogger returns an ILogger writing bracketed, human-readable
// lines to out, in UTC. The starting level is Info.
//
//nolint:ireturn // ILogger is the package's exported surface
func NewConsoleLogger(out io.Writer) ILogger {
	writer := zerolog.ConsoleWriter{
		Out:              out,
		TimeFormat:       time.RFC3339,
		TimeLocation:     time.UTC,
		FormatLevel:      consoleLevel,
		FormatTimestamp:  consoleTimestamp,
		PartsOrder:       []string{"time", "level", "LogID", "message"},
		FieldsExclude:    []string{"LogID"},
		FormatPrepare:    consoleLogID,
		FormatFieldValue: consoleFieldValue,
	}

	zl := zerolog.New(writer).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	return &zlog{zl: zl, outputs: []io.Writer{out}}
}

var consoleLevelTags = map[string]string{
	"trace": "[TRC]",
	"debug": "[DBG]",
	"info":  "[INF]",
	"warn":  "[WRN]",
	"error": "[ERR]",
	"panic": "[PNC]",
}

func consoleLevel(input any) string {
	name, ok := input.(string)
	if !ok {
		return ""
	}
	if tag, ok := consoleLevelTags[name]; ok {
		return tag
	}
	return strings.ToUpper("[" + name[:3] + "]")
}

func consoleTimestamp(input any) string {
	return fmt.Sprintf("[%s]", input)
}

// consoleFieldValue renders absent parts (a line with no LogID) as empty
// instead of zerolog's default "%!s(<nil>)".
func consoleFieldValue(input any) string {
	if input == nil {
		return ""
	}
	return fmt.Sprintf("%v", input)
}

// consoleLogID brackets the LogID part so it reads like the other parts of
// the line. LogID is excluded from the trailing fields because it is
// rendered as its own part.
func consoleLogID(parts map[string]any) error {
	if id, ok := parts["LogID"].(string); ok {
		parts["LogID"] = "[" + id + "]"
	}
	return nil
}
