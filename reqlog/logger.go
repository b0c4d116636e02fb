package reqlog

import (
	"github.com/kvcache-dev/kvcache/logger"
	"github.com/kvcache-dev/kvcache/webserver"
)

type (
	// settings selects which request attributes the middleware records and
	// the level used for successful requests. Failed requests override the
	// level: 4xx logs at Warning, 5xx at Error.
	settings struct {
		level           logger.Level
		requestID       bool
		requestIDHeader string
		protocol        bool
		method          bool
		uri             bool
		status          bool
		latency         bool
		remoteIP        bool
		userAgent       bool
	}

	// Logger is the request-logging middleware. It embeds the webserver's
	// Echo logger bridge so it can also serve as the server's framework
	// logger.
	Logger struct {
		*webserver.Logger
		config settings
	}

	// Option configures the Logger.
	Option func(*Logger)
)

// WithLogLevel sets the level used for requests that complete without an
// error status. Warning and above suppress the per-request line entirely.
func WithLogLevel(level logger.Level) Option {
	return func(l *Logger) { l.config.level = level }
}

// WithLogRequestID records the request ID, generating one when the request
// carries none, and attaches it to the response.
func WithLogRequestID() Option {
	return func(l *Logger) { l.config.requestID = true }
}

// WithLogRequestIDHeader records the request ID from the given header
// instead of X-Request-ID.
func WithLogRequestIDHeader(header string) Option {
	return func(l *Logger) {
		l.config.requestID = true
		l.config.requestIDHeader = header
	}
}

// WithLogProtocol records the request protocol (HTTP/1.1, HTTP/2).
func WithLogProtocol() Option {
	return func(l *Logger) { l.config.protocol = true }
}

// WithLogMethod records the request method.
func WithLogMethod() Option {
	return func(l *Logger) { l.config.method = true }
}

// WithLogURI records the request URI, query string included.
func WithLogURI() Option {
	return func(l *Logger) { l.config.uri = true }
}

// WithLogStatus records the response status code.
func WithLogStatus() Option {
	return func(l *Logger) { l.config.status = true }
}

// WithLogLatency records how long the handler chain took.
func WithLogLatency() Option {
	return func(l *Logger) { l.config.latency = true }
}

// WithLogRemoteIP records the client IP.
func WithLogRemoteIP() Option {
	return func(l *Logger) { l.config.remoteIP = true }
}

// WithLogUserAgent records the User-Agent header.
func WithLogUserAgent() Option {
	return func(l *Logger) { l.config.userAgent = true }
}

// WithLogger replaces the underlying logger instance.
func WithLogger(wl *webserver.Logger) Option {
	return func(l *Logger) { l.Logger = wl }
}
