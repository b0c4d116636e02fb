package cache

import (
	"sync"
	"time"

	"github.com/kvcache-dev/kvcache/logger"
)

// sweepChunkSize bounds how many keys DrainExpired inspects before the
// sweeper releases and re-acquires the engine lock.
const sweepChunkSize = 1000

// Sweeper periodically drains expired entries from an Engine in the
// background. A tick that fires while the previous tick's sweep is still
// running is skipped rather than queued. Start is idempotent; Stop cancels
// the ticker and waits for any in-flight sweep to finish.
type Sweeper struct {
	engine *Engine
	log    logger.ILogger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	sweeping sync.Mutex
}

// NewSweeper builds a Sweeper over engine, ticking at engine's configured
// cleanup interval.
func NewSweeper(engine *Engine, log logger.ILogger) *Sweeper {
	return &Sweeper{engine: engine, log: log}
}

// Start launches the background tick goroutine. Calling Start on an
// already-running Sweeper logs a warning and does nothing.
func (s *Sweeper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warning("sweeper already running, ignoring Start")
		return
	}

	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	interval := s.engine.CleanupInterval()
	go s.loop(interval)
}

func (s *Sweeper) loop(interval time.Duration) {
	defer close(s.doneCh)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Sweeper) tick() {
	if !s.sweeping.TryLock() {
		return
	}
	defer s.sweeping.Unlock()

	removed := s.engine.DrainExpired(sweepChunkSize)
	if removed > 0 {
		s.log.Debugf("sweeper removed %d expired entries", removed)
	}
}

// Stop cancels the ticker and blocks until any in-flight sweep completes.
// Stopping a Sweeper that was never started, or already stopped, is a
// no-op.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)
	<-s.doneCh
	s.running = false
}

// Running reports whether the sweeper's background goroutine is active.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
