// Package httpapi adapts the cache engine's operations onto the HTTP
// surface: route handlers, request validation, and response shaping. It is
// a thin layer — every handler validates its input, calls the engine, and
// maps the result onto the documented response shape; it holds no cache
// state of its own.
package httpapi

import (
	"net/http"
	"runtime"
	"time"

	"github.com/kvcache-dev/kvcache/cache"
	"github.com/kvcache-dev/kvcache/config"
	"github.com/kvcache-dev/kvcache/logger"
	"github.com/kvcache-dev/kvcache/stats"
	"github.com/kvcache-dev/kvcache/webserver"
)

// Engine is the subset of the cache engine's operations the HTTP layer
// drives. Both *cache.Engine and *metrics.InstrumentedEngine satisfy it;
// the process entrypoint normally wires the instrumented variant so every
// HTTP-triggered operation is also measured.
type Engine interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttlOpt cache.TTLOption)
	Delete(key string) bool
	Exists(key string) bool
	Increment(key string, amount float64) (float64, error)
	UpdateTTL(key string, ttlMs int64) bool
	BatchSet(entries []cache.BatchSetEntry) int
	BatchGet(keys []string) (map[string]any, int)
	BatchDelete(keys []string) []string
	Keys(limit, offset int) ([]string, int)
	Stats() stats.Snapshot
	ResetStats()
	MemoryUsagePercent() float64
	Size() int
}

// API holds the dependencies every handler needs and exposes them as
// webserver.HandlerFunc values registered by Register.
type API struct {
	engine    Engine
	cfg       config.Config
	log       logger.ILogger
	startedAt time.Time
}

// New builds an API over engine, configured by cfg, logging through log.
func New(engine Engine, cfg config.Config, log logger.ILogger) *API {
	return &API{engine: engine, cfg: cfg, log: log, startedAt: time.Now()}
}

// Register mounts the API's routes and the health endpoints onto ws.
func (a *API) Register(ws *webserver.WebServer) {
	api := ws.Group("/api")

	api.GET("/get/:key", a.handleGet)
	api.POST("/set", a.handleSet)
	api.DELETE("/delete/:key", a.handleDelete)
	api.GET("/exists/:key", a.handleExists)
	api.POST("/increment/:key", a.handleIncrement)
	api.POST("/update-ttl/:key", a.handleUpdateTTL)
	api.GET("/keys", a.handleKeys)
	api.POST("/batch/set", a.handleBatchSet)
	api.POST("/batch/get", a.handleBatchGet)
	api.POST("/batch/delete", a.handleBatchDelete)
	api.GET("/stats", a.handleStats)
	api.POST("/stats/reset", a.handleStatsReset)
	api.GET("/config", a.handleConfig)

	ws.GET("/health", a.handleHealth)
	ws.GET("/health/detailed", a.handleHealthDetailed)
}

func badRequest(c webserver.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func (a *API) handleGet(c webserver.Context) error {
	key := c.Param("key")
	if err := validateKey(key); err != nil {
		return badRequest(c, err)
	}

	value, ok := a.engine.Get(key)
	return c.JSON(http.StatusOK, getResponse{Key: key, Value: value, Exists: ok})
}

func (a *API) handleSet(c webserver.Context) error {
	var req setRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validateKey(req.Key); err != nil {
		return badRequest(c, err)
	}

	ttlOpt := cache.TTLOption{}
	if req.TTL != nil {
		if err := validateTTL(*req.TTL); err != nil {
			return badRequest(c, err)
		}
		ttlOpt = cache.TTLOption{Millis: *req.TTL, Set: true}
	}

	a.engine.Set(req.Key, req.Value, ttlOpt)
	return c.JSON(http.StatusOK, setResponse{Success: true, Key: req.Key, TTL: req.TTL})
}

func (a *API) handleDelete(c webserver.Context) error {
	key := c.Param("key")
	if err := validateKey(key); err != nil {
		return badRequest(c, err)
	}

	ok := a.engine.Delete(key)
	return c.JSON(http.StatusOK, deleteResponse{Success: ok, Key: key})
}

func (a *API) handleExists(c webserver.Context) error {
	key := c.Param("key")
	if err := validateKey(key); err != nil {
		return badRequest(c, err)
	}

	return c.JSON(http.StatusOK, existsResponse{Key: key, Exists: a.engine.Exists(key)})
}

func (a *API) handleIncrement(c webserver.Context) error {
	key := c.Param("key")
	if err := validateKey(key); err != nil {
		return badRequest(c, err)
	}

	req := incrementRequest{}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, err)
		}
	}

	amount := 1.0
	if req.Amount != nil {
		amount = *req.Amount
	}

	value, err := a.engine.Increment(key, amount)
	if err != nil {
		return badRequest(c, err)
	}

	return c.JSON(http.StatusOK, incrementResponse{Key: key, Value: value, Amount: amount})
}

func (a *API) handleUpdateTTL(c webserver.Context) error {
	key := c.Param("key")
	if err := validateKey(key); err != nil {
		return badRequest(c, err)
	}

	var req updateTTLRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validateTTL(req.TTL); err != nil {
		return badRequest(c, err)
	}

	ok := a.engine.UpdateTTL(key, req.TTL)
	return c.JSON(http.StatusOK, updateTTLResponse{Success: ok, Key: key, TTL: req.TTL})
}

func (a *API) handleKeys(c webserver.Context) error {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)

	if limit < 1 || limit > 1000 {
		return badRequest(c, errInvalidParam("limit", "1..1000"))
	}
	if offset < 0 {
		return badRequest(c, errInvalidParam("offset", ">=0"))
	}

	keys, total := a.engine.Keys(limit, offset)
	return c.JSON(http.StatusOK, keysResponse{Keys: keys, Total: total, Limit: limit, Offset: offset})
}

func (a *API) handleBatchSet(c webserver.Context) error {
	var req batchSetRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validateBatchSize(len(req.Entries)); err != nil {
		return badRequest(c, err)
	}

	entries := make([]cache.BatchSetEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		if err := validateKey(e.Key); err != nil {
			return badRequest(c, err)
		}

		ttlOpt := cache.TTLOption{}
		if e.TTL != nil {
			if err := validateTTL(*e.TTL); err != nil {
				return badRequest(c, err)
			}
			ttlOpt = cache.TTLOption{Millis: *e.TTL, Set: true}
		}

		entries = append(entries, cache.BatchSetEntry{Key: e.Key, Value: e.Value, TTL: ttlOpt})
	}

	count := a.engine.BatchSet(entries)
	return c.JSON(http.StatusOK, batchSetResponse{Success: true, Count: count})
}

func (a *API) handleBatchGet(c webserver.Context) error {
	var req batchKeysRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validateBatchSize(len(req.Keys)); err != nil {
		return badRequest(c, err)
	}
	for _, k := range req.Keys {
		if err := validateKey(k); err != nil {
			return badRequest(c, err)
		}
	}

	result, found := a.engine.BatchGet(req.Keys)
	return c.JSON(http.StatusOK, batchGetResponse{Result: result, Requested: len(req.Keys), Found: found})
}

func (a *API) handleBatchDelete(c webserver.Context) error {
	var req batchKeysRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, err)
	}
	if err := validateBatchSize(len(req.Keys)); err != nil {
		return badRequest(c, err)
	}
	for _, k := range req.Keys {
		if err := validateKey(k); err != nil {
			return badRequest(c, err)
		}
	}

	deleted := a.engine.BatchDelete(req.Keys)
	return c.JSON(http.StatusOK, batchDeleteResponse{
		Deleted:      deleted,
		Requested:    len(req.Keys),
		DeletedCount: len(deleted),
	})
}

func (a *API) handleStats(c webserver.Context) error {
	snap := a.engine.Stats()
	return c.JSON(http.StatusOK, map[string]any{
		"hits":               snap.Hits,
		"misses":             snap.Misses,
		"evictions":          snap.Evictions,
		"expirations":        snap.Expirations,
		"hitRate":            snap.HitRate,
		"opsPerSec":          snap.OpsPerSec,
		"memoryUsagePercent": a.engine.MemoryUsagePercent(),
		"timestamp":          time.Now().UTC(),
	})
}

func (a *API) handleStatsReset(c webserver.Context) error {
	a.engine.ResetStats()
	return c.JSON(http.StatusOK, map[string]any{
		"success":   true,
		"message":   "statistics reset",
		"timestamp": time.Now().UTC(),
	})
}

func (a *API) handleConfig(c webserver.Context) error {
	return c.JSON(http.StatusOK, a.cfg)
}

func (a *API) handleHealth(c webserver.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(a.startedAt).Seconds(),
		"memory": memorySnapshot(mem),
		"config": a.cfg,
	})
}

func (a *API) handleHealthDetailed(c webserver.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(a.startedAt).Seconds(),
		"memory": memorySnapshot(mem),
		"config": a.cfg,
		"system": map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"numCPU":     runtime.NumCPU(),
			"goVersion":  runtime.Version(),
		},
		"cache": map[string]any{
			"stats":              a.engine.Stats(),
			"residentKeys":       a.engine.Size(),
			"memoryUsagePercent": a.engine.MemoryUsagePercent(),
		},
	})
}

func memorySnapshot(mem runtime.MemStats) map[string]any {
	return map[string]any{
		"allocBytes":      mem.Alloc,
		"totalAllocBytes": mem.TotalAlloc,
		"sysBytes":        mem.Sys,
		"numGC":           mem.NumGC,
	}
}
