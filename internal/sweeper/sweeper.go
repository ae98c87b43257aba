// Package sweeper implements the expiry sweeper: a periodic scan that expires ACTIVE
// subscriptions past their end_date and, when auto_renewal is set, then creates a renewal. The
// schedule is an in-process ticker-driven goroutine registered through fx.Lifecycle, with the
// interval carried by SCHEDULER_INTERVAL_SEC.
package sweeper

import (
	"context"
	"time"

	"github.com/northlane/billingctl/core/config"
	"github.com/northlane/billingctl/core/logger"
	subUsecases "github.com/northlane/billingctl/features/subscriptions/domain/usecases"
)

// Sweeper periodically expires ACTIVE subscriptions whose end_date has passed.
type Sweeper struct {
	manager  *subUsecases.SubscriptionManager
	interval time.Duration
	logger   logger.Logger
}

// New creates a Sweeper using cfg.SchedulerIntervalSec as its tick interval.
func New(manager *subUsecases.SubscriptionManager, cfg *config.AppConfig, log logger.Logger) *Sweeper {
	interval := time.Duration(cfg.SchedulerIntervalSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Sweeper{manager: manager, interval: interval, logger: log}
}

// Run ticks every s.interval until ctx is cancelled, sweeping once per tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

// sweepOnce processes every expired ACTIVE subscription one at a time: D.ChangeStatus rejects
// illegal transitions, so a subscription a concurrent cancel already moved out of ACTIVE is
// simply skipped rather than double-processed.
func (s *Sweeper) sweepOnce(ctx context.Context) {
	expired, err := s.manager.ExpiredActiveSubscriptions(ctx, time.Now().UTC())
	if err != nil {
		s.logger.LogError(ctx, "failed to list expired subscriptions", err)
		return
	}

	for _, sub := range expired {
		if err := s.manager.ExpireAndMaybeRenew(ctx, sub); err != nil {
			s.logger.LogError(ctx, "failed to expire subscription", err)
		}
	}
}
