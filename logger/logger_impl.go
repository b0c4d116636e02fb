package logger

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// zlog adapts a zerolog.Logger to ILogger. It carries the message prefix
// accumulated by SubLogger and remembers its writers so GetOutput can
// report them.
type zlog struct {
	zl       zerolog.Logger
	prefix   string
	outputs  []io.Writer
	hasLogID bool
}

func toZerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelTrace:
		return zerolog.TraceLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarning:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelPanic:
		return zerolog.PanicLevel
	default:
		return zerolog.NoLevel
	}
}

func fromZerologLevel(level zerolog.Level) Level {
	switch level {
	case zerolog.TraceLevel:
		return LevelTrace
	case zerolog.DebugLevel:
		return LevelDebug
	case zerolog.InfoLevel:
		return LevelInfo
	case zerolog.WarnLevel:
		return LevelWarning
	case zerolog.ErrorLevel:
		return LevelError
	case zerolog.PanicLevel:
		return LevelPanic
	default:
		return LevelInfo
	}
}

func (l *zlog) msg(ev *zerolog.Event, args []any) {
	ev.Msg(l.prefix + fmt.Sprint(args...))
}

func (l *zlog) msgf(ev *zerolog.Event, format string, args []any) {
	ev.Msgf(l.prefix+format, args...)
}

func (l *zlog) Trace(args ...any) { l.msg(l.zl.Trace(), args) }

func (l *zlog) Tracef(format string, args ...any) { l.msgf(l.zl.Trace(), format, args) }

func (l *zlog) Debug(args ...any) { l.msg(l.zl.Debug(), args) }

func (l *zlog) Debugf(format string, args ...any) { l.msgf(l.zl.Debug(), format, args) }

func (l *zlog) Info(args ...any) { l.msg(l.zl.Info(), args) }

func (l *zlog) Infof(format string, args ...any) { l.msgf(l.zl.Info(), format, args) }

func (l *zlog) Warning(args ...any) { l.msg(l.zl.Warn(), args) }

func (l *zlog) Warningf(format string, args ...any) { l.msgf(l.zl.Warn(), format, args) }

func (l *zlog) Error(args ...any) { l.msg(l.zl.Error(), args) }

func (l *zlog) Errorf(format string, args ...any) { l.msgf(l.zl.Error(), format, args) }

func (l *zlog) Panic(args ...any) { l.msg(l.zl.Panic(), args) }

func (l *zlog) Panicf(format string, args ...any) { l.msgf(l.zl.Panic(), format, args) }

// SetLevel drops every message below level.
func (l *zlog) SetLevel(level Level) {
	l.zl = l.zl.Level(toZerologLevel(level))
}

// GetLevel reports the current minimum level.
func (l *zlog) GetLevel() Level {
	return fromZerologLevel(l.zl.GetLevel())
}

// SetOutput redirects the logger to the given writers. More than one
// writer fans every message out to all of them.
func (l *zlog) SetOutput(out ...io.Writer) {
	if len(out) == 1 {
		l.zl = l.zl.Output(out[0])
	} else {
		l.zl = l.zl.Output(zerolog.MultiLevelWriter(out...))
	}
	l.outputs = append([]io.Writer{}, out...)
}

// GetOutput reports the writers the logger currently targets.
func (l *zlog) GetOutput() []io.Writer {
	return l.outputs
}

// AddField attaches a structured field to every subsequent message.
func (l *zlog) AddField(key string, value any) {
	l.zl = l.zl.With().Interface(key, value).Logger()
}

// SetLogID attaches a correlation ID once; later calls are ignored so the
// first ID assigned sticks.
func (l *zlog) SetLogID(value any) {
	if l.hasLogID {
		return
	}
	l.zl = l.zl.With().Interface("LogID", value).Logger()
	l.hasLogID = true
}

// SubLogger derives a child logger with a bracketed message prefix.
//
//nolint:ireturn // ILogger is the package's exported surface
func (l *zlog) SubLogger(format string, args ...any) ILogger {
	child := *l
	child.prefix = fmt.Sprintf(l.prefix+"["+format+"] ", args...)
	return &child
}
