// Package reqlog provides the structured per-request logging middleware
// for the webserver package. Requests that complete normally are logged at
// the configured level; responses with a 4xx status log at Warning and 5xx
// at Error, carrying whatever request metadata the options select.
package reqlog

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"time"

	"github.com/kvcache-dev/kvcache/logger"
	"github.com/kvcache-dev/kvcache/webserver"
	"github.com/labstack/echo/v4"
)

// NewLogger creates the request-logging middleware with a console logger
// writing to stdout. Use the options to select the recorded attributes and
// WithJSONLogger or WithLogger to change the backend.
func NewLogger(opts ...Option) *Logger {
	l := &Logger{
		Logger: &webserver.Logger{
			ILogger: logger.NewConsoleLogger(os.Stdout),
		},
		config: settings{level: logger.LevelInfo},
	}
	l.SetPrefix("[HTTP]")

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// WithJSONLogger switches the middleware to structured JSON output.
func WithJSONLogger() Option {
	return func(l *Logger) {
		prefix := l.Prefix()
		l.Logger = &webserver.Logger{
			ILogger: logger.NewJSONLogger(os.Stdout),
		}
		l.SetPrefix(prefix)
	}
}

// ToMiddleware returns the middleware function. The handler chain runs
// first; the log line is emitted afterwards so status and latency reflect
// what was actually served.
func (l *Logger) ToMiddleware() webserver.MiddlewareFunc {
	if l.config.level == 0 {
		l.config.level = logger.LevelInfo
	}

	return func(next webserver.HandlerFunc) webserver.HandlerFunc {
		return func(ctx webserver.Context) error {
			req := ctx.Request()

			if l.config.requestID {
				l.SetLogID(l.ensureRequestID(req, ctx.Response()))
			}

			ctx.SetRequest(req.WithContext(
				logger.NewContextWithLogger(req.Context(), l.ILogger)))

			start := time.Now()
			err := next(ctx)
			l.logRequest(ctx, err, time.Since(start))

			return err
		}
	}
}

func (l *Logger) logRequest(ctx webserver.Context, err error, took time.Duration) {
	req := ctx.Request()
	status := responseStatus(ctx, err)

	msg := "request:"
	if l.config.protocol {
		msg += " Protocol=" + req.Proto
	}
	if l.config.method {
		msg += " Method=" + req.Method
	}
	if l.config.uri {
		msg += " URI=" + req.RequestURI
	}
	if l.config.remoteIP {
		msg += " IP=" + ctx.RealIP()
	}
	if l.config.userAgent {
		msg += " UserAgent=" + req.UserAgent()
	}
	if l.config.status {
		msg += fmt.Sprintf(" Status=%d", status)
	}
	if l.config.latency {
		msg += fmt.Sprintf(" Latency=%d ms", took.Milliseconds())
	}

	switch {
	case status >= http.StatusInternalServerError:
		l.ILogger.Error(msg)
	case status >= http.StatusBadRequest:
		l.ILogger.Warning(msg)
	default:
		switch l.config.level {
		case logger.LevelTrace:
			l.ILogger.Trace(msg)
		case logger.LevelDebug:
			l.ILogger.Debug(msg)
		case logger.LevelInfo:
			l.ILogger.Info(msg)
		case logger.LevelWarning, logger.LevelError, logger.LevelPanic:
			// per-request lines suppressed at these levels
		}
	}
}

// responseStatus resolves the status that will reach the client: an
// echo.HTTPError's code if the handler returned one, 500 for any other
// error, otherwise whatever was written to the response.
func responseStatus(ctx webserver.Context, err error) int {
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	return ctx.Response().Status
}

// ensureRequestID returns the inbound request ID, generating one when the
// request carries none, and mirrors it onto the response header.
func (l *Logger) ensureRequestID(req *http.Request, res *echo.Response) string {
	if l.config.requestIDHeader == "" {
		l.config.requestIDHeader = "X-Request-ID"
	}

	rid := req.Header.Get(l.config.requestIDHeader)
	if rid == "" {
		rid = randomRequestID(12)
	}
	res.Header().Set(l.config.requestIDHeader, rid)

	return rid
}

func randomRequestID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	buf := make([]byte, length)
	for i := range buf {
		num, _ := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		buf[i] = charset[num.Int64()]
	}
	return string(buf)
}
