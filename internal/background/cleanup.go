package background

import (
	"context"
	"log/slog"
	"time"
)

// StalePurger is implemented by the rate limit service.
type StalePurger interface {
	PurgeStale() int
}

// CleanupManager periodically drops stale login-attempt counters. Sessions
// need no sweep here: the session cache evicts by life window and validation
// purges lazily.
type CleanupManager struct {
	limiter  StalePurger
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(limiter StalePurger, logger *slog.Logger, interval time.Duration) *CleanupManager {
	return &CleanupManager{
		limiter:  limiter,
		logger:   logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	cm.runCleanup()

	for {
		select {
		case <-ticker.C:
			cm.runCleanup()
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

func (cm *CleanupManager) runCleanup() {
	removed := cm.limiter.PurgeStale()
	if removed > 0 {
		cm.logger.Info("stale login counters purged", slog.Int("removed", removed))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
