package workers

import (
	"context"
	"time"

	"github.com/LocalStoryMap/Oz-Backand/internal/logger"
	"github.com/LocalStoryMap/Oz-Backand/internal/repositories"
)

// SubscriptionWorker deactivates subscriptions whose expires_at has passed.
// It is a safety net for entitlement, not billing: no gateway call is made
// for the natural end of a paid period.
type SubscriptionWorker struct {
	subscriptionRepo repositories.SubscriptionRepository
	interval         time.Duration
}

func NewSubscriptionWorker(subscriptionRepo repositories.SubscriptionRepository, interval time.Duration) *SubscriptionWorker {
	return &SubscriptionWorker{
		subscriptionRepo: subscriptionRepo,
		interval:         interval,
	}
}

// Start sweeps once immediately, then on every tick until ctx is done.
// An entitlement that expired while the process was down should not wait a
// full interval to be revoked.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.run(ctx)
}

func (w *SubscriptionWorker) run(ctx context.Context) {
	w.Sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker stopped")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep deactivates every active subscription with expires_at in the past.
// Idempotent: a second run over the same rows affects nothing.
func (w *SubscriptionWorker) Sweep(ctx context.Context) {
	swept, err := w.subscriptionRepo.SweepExpired(ctx, time.Now())
	if err != nil {
		logger.Error("expiry sweep failed", "error", err.Error())
		return
	}
	if swept > 0 {
		logger.Info("expired subscriptions deactivated", "count", swept)
	}
}
