package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/possync/backend/internal/domain/idempotency"
)

// SweeperConfig holds the sweep schedule.
type SweeperConfig struct {
	Enabled  bool
	Interval time.Duration
}

// DefaultSweeperConfig returns the default sweep schedule.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Enabled:  true,
		Interval: time.Hour,
	}
}

// Sweeper periodically deletes expired idempotency records so replay
// protection storage stays bounded. Expired records are also skipped at read
// time, so a missed sweep degrades storage, never correctness.
type Sweeper struct {
	config SweeperConfig
	store  idempotency.Store
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSweeper creates a sweeper over the given store.
func NewSweeper(config SweeperConfig, store idempotency.Store, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		config: config,
		store:  store,
		logger: logger,
	}
}

// Start launches the sweep loop. A disabled sweeper starts as a no-op so the
// caller does not need to branch.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	if !s.config.Enabled {
		s.logger.Info("Idempotency sweeper disabled")
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Idempotency sweeper started",
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Idempotency sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Idempotency sweeper stop timed out")
		return ctx.Err()
	}
}

func (s *Sweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep pass. Exposed so operators can trigger it
// outside the schedule.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	removed, err := s.store.Sweep(ctx, time.Now())
	if err != nil {
		s.logger.Error("Idempotency sweep failed", zap.Error(err))
		return
	}
	if removed > 0 {
		s.logger.Info("Idempotency sweep completed", zap.Int64("removed", removed))
	} else {
		s.logger.Debug("Idempotency sweep found nothing to remove")
	}
}
