package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// SweepInterval is how often overdue quests are checked.
const SweepInterval = time.Minute

// Sweeper periodically fails quests whose deadline has passed.
type Sweeper struct {
	engine   *Engine
	interval time.Duration
	log      *slog.Logger

	running  atomic.Bool
	stopped  atomic.Bool
	sweeps   atomic.Int64
	failed   atomic.Int64
	stopOnce sync.Once
	stopChan chan struct{}
	// held for the duration of a sweep; Stop takes it to wait one out
	inFlight sync.Mutex
}

// NewSweeper creates a sweeper for e. A non-positive interval uses SweepInterval.
func NewSweeper(e *Engine, interval time.Duration, log *slog.Logger) *Sweeper {
	if interval <= 0 {
		interval = SweepInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Sweeper{engine: e, interval: interval, log: log, stopChan: make(chan struct{})}
}

// Start runs the sweep loop until ctx is done or Stop is called. Call in a goroutine.
func (s *Sweeper) Start(ctx context.Context) {
	s.log.Info("deadline sweeper started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("deadline sweeper stopped by context")
			return
		case <-s.stopChan:
			s.log.Info("deadline sweeper stopped")
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Stop ends the loop and waits for a sweep in progress to finish.
// Later ticks do nothing. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.stopped.Store(true)
	s.inFlight.Lock()
	s.inFlight.Unlock()
}

// Tick performs one sweep unless another is still in flight or the sweeper is stopped.
func (s *Sweeper) Tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)
	s.inFlight.Lock()
	defer s.inFlight.Unlock()
	if s.stopped.Load() {
		return
	}
	n, err := s.engine.SweepDeadlines(ctx)
	s.sweeps.Inc()
	s.failed.Add(int64(n))
	if err != nil {
		s.log.Error("deadline sweep", "err", err)
		return
	}
	if n > 0 {
		s.log.Info("deadline sweep failed quests", "count", n)
	}
}

// Stats reports completed sweeps and quests failed by them.
func (s *Sweeper) Stats() (sweeps, failed int64) {
	return s.sweeps.Load(), s.failed.Load()
}
