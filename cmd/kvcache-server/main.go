// Command kvcache-server runs the cache engine behind the HTTP API,
// wiring configuration, logging, metrics, and the background sweeper
// together and carrying them through a graceful shutdown.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kvcache-dev/kvcache/cache"
	"github.com/kvcache-dev/kvcache/config"
	"github.com/kvcache-dev/kvcache/httpapi"
	"github.com/kvcache-dev/kvcache/logger"
	"github.com/kvcache-dev/kvcache/metrics"
	"github.com/kvcache-dev/kvcache/ratelimit"
	"github.com/kvcache-dev/kvcache/reqlog"
	"github.com/kvcache-dev/kvcache/webserver"
)

const shutdownGracePeriod = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "kvcache-server:", err)
		os.Exit(1)
	}

	log := buildLogger(cfg)
	logger.SetCtxFallbackLogger(log)

	if err := run(cfg, log); err != nil {
		log.Errorf("kvcache-server: %v", err)
		os.Exit(1)
	}
}

func buildLogger(cfg config.Config) logger.ILogger {
	var log logger.ILogger
	if cfg.IsProduction() {
		log = logger.NewJSONLogger(os.Stdout)
	} else {
		log = logger.NewConsoleLogger(os.Stdout)
	}

	if level, ok := logger.ParseLevel(cfg.LogLevel); ok {
		log.SetLevel(level)
	}

	return log
}

func run(cfg config.Config, log logger.ILogger) error {
	engine := cache.New(
		cache.WithPolicy(cfg.Policy()),
		cache.WithMaxMemoryMB(cfg.MaxMemoryMB),
		cache.WithMaxKeys(cfg.MaxKeys),
		cache.WithCleanupInterval(cfg.CleanupInterval()),
	)

	registry := metrics.New(
		metrics.WithNamespace("kvcache"),
		metrics.WithProcessCollector(),
		metrics.WithGoCollector(),
	)
	instrumented := metrics.NewInstrumentedEngine(registry, "cache", engine)

	sweeper := cache.NewSweeper(engine, log)
	sweeper.Start()
	defer sweeper.Stop()

	api := httpapi.New(instrumented, cfg, log)
	limiter := ratelimit.New(cfg.RateLimitPerMinute)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	reqlogOpts := []reqlog.Option{
		reqlog.WithLogMethod(),
		reqlog.WithLogURI(),
		reqlog.WithLogStatus(),
		reqlog.WithLogLatency(),
		reqlog.WithLogRemoteIP(),
		reqlog.WithLogUserAgent(),
	}
	if cfg.IsProduction() {
		reqlogOpts = append(reqlogOpts, reqlog.WithJSONLogger())
	}

	ws := webserver.New(
		webserver.WithAddress(fmt.Sprintf(":%d", cfg.Port)),
		webserver.WithLogger(log),
		webserver.WithRecovery(),
		webserver.WithRequestID(),
		webserver.WithCORS(webserver.CORSConfig{
			AllowOrigins: cfg.CORSOriginList(),
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		}),
		webserver.WithMiddleware(limiter.Middleware()),
		webserver.WithCustomMiddleware(reqlog.NewLogger(reqlogOpts...).ToMiddleware()),
		webserver.WithHTTPMetrics(httpMetrics, registry, "/metrics"),
	)

	if cfg.EnableCompression {
		webserver.WithGzip()(ws)
	}

	api.Register(ws)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("kvcache-server: listening on :%d (policy=%s)", cfg.Port, cfg.Policy())
		if err := ws.StartHTTP(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
			return
		}
		errCh <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("kvcache-server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := ws.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	sweeper.Stop()
	engine.Clear()

	return nil
}
