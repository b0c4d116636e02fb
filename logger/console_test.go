package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)
	assert.NotNil(t, l)
	assert.Equal(t, LevelInfo, l.GetLevel())
}

func TestConsoleLevel(t *testing.T) {
	assert.Equal(t, "[TRC]", consoleLevel("trace"))
	assert.Equal(t, "[DBG]", consoleLevel("debug"))
	assert.Equal(t, "[INF]", consoleLevel("info"))
	assert.Equal(t, "[WRN]", consoleLevel("warn"))
	assert.Equal(t, "[ERR]", consoleLevel("error"))
	assert.Equal(t, "[PNC]", consoleLevel("panic"))
	assert.Equal(t, "[UNK]", consoleLevel("unknown"))
	assert.Equal(t, "", consoleLevel(123))
}

func TestConsoleTimestamp(t *testing.T) {
	assert.Equal(t, "[time]", consoleTimestamp("time"))
}

func TestConsoleFieldValue(t *testing.T) {
	assert.Equal(t, "", consoleFieldValue(nil))
	assert.Equal(t, "value", consoleFieldValue("value"))
	assert.Equal(t, "42", consoleFieldValue(42))
}

func TestConsoleLogID(t *testing.T) {
	parts := map[string]any{"LogID": "123"}
	assert.NoError(t, consoleLogID(parts))
	assert.Equal(t, "[123]", parts["LogID"])

	empty := map[string]any{}
	assert.NoError(t, consoleLogID(empty))
	assert.Nil(t, empty["LogID"])
}

func TestConsoleLogger_LineShape(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)

	l.Info("hello")
	line := buf.String()
	assert.Contains(t, line, "[INF]")
	assert.Contains(t, line, "hello")
}
