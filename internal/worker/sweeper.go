package worker

import (
	"context"
	"time"

	"ticketapi/internal/logging"
	"ticketapi/internal/metrics"
	"ticketapi/internal/repository"
)

const sweepBatch = 100

// ExpirySweeper cancels pending orders whose payment window has passed,
// returning their seats to the event.
type ExpirySweeper struct {
	orders   repository.OrderRepository
	ttl      time.Duration
	interval time.Duration
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewExpirySweeper(orders repository.OrderRepository, ttl, interval time.Duration, m *metrics.Metrics) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpirySweeper{orders: orders, ttl: ttl, interval: interval, metrics: m, now: time.Now}
}

// Run sweeps until ctx is cancelled. A non-positive ttl disables expiry.
func (s *ExpirySweeper) Run(ctx context.Context) {
	if s.ttl <= 0 {
		logging.Info("sweeper", "expiry_sweeper_disabled", nil)
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Info("sweeper", "expiry_sweeper_started", map[string]any{
		"ttl_ms":      s.ttl.Milliseconds(),
		"interval_ms": s.interval.Milliseconds(),
	})
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				logging.Error("sweeper", "expiry_sweep_failed", err, nil)
			}
		}
	}
}

// RunOnce expires overdue orders in batches and returns how many it cancelled.
func (s *ExpirySweeper) RunOnce(ctx context.Context) (int, error) {
	cutoff := s.now().UTC().Add(-s.ttl)
	total := 0
	for {
		codes, err := s.orders.ExpirePending(ctx, cutoff, sweepBatch)
		total += len(codes)
		s.metrics.OrdersExpired(len(codes))
		if len(codes) > 0 {
			logging.Info("sweeper", "orders_expired", map[string]any{"codes": codes, "count": len(codes)})
		}
		if err != nil {
			return total, err
		}
		if len(codes) < sweepBatch {
			return total, nil
		}
	}
}
