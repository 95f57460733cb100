// Package worker holds the background loops: the outbox relay that delivers
// admin notifications and the sweeper that expires unpaid orders.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"ticketapi/internal/logging"
	"ticketapi/internal/metrics"
	"ticketapi/internal/model"
	"ticketapi/internal/notify"
	"ticketapi/internal/repository"
	"ticketapi/internal/storage"
)

// RelayOptions controls polling and retry behaviour of the OutboxRelay.
type RelayOptions struct {
	Interval      time.Duration
	BatchSize     int
	MaxAttempts   int
	SlipURLExpiry time.Duration
}

// OutboxRelay drains the notifications table. Each row is rendered against
// the current order state, mirrored to the broker when one is configured,
// then sent to the administrator. Rows are retried until MaxAttempts.
type OutboxRelay struct {
	notifications repository.NotificationRepository
	orders        repository.OrderRepository
	store         storage.Storage
	renderer      *notify.Renderer
	sender        notify.Sender
	publisher     notify.Publisher
	metrics       *metrics.Metrics
	opts          RelayOptions
	tracer        trace.Tracer
}

// envelope is the broker message body.
type envelope struct {
	ID         string            `json:"id"`
	Kind       string            `json:"kind"`
	OrderCode  string            `json:"order_code"`
	Status     string            `json:"status"`
	Quantity   int               `json:"quantity"`
	Amount     int64             `json:"total_amount"`
	EventID    string            `json:"event_id"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NewOutboxRelay wires the relay. publisher may be nil.
func NewOutboxRelay(
	notifications repository.NotificationRepository,
	orders repository.OrderRepository,
	store storage.Storage,
	renderer *notify.Renderer,
	sender notify.Sender,
	publisher notify.Publisher,
	m *metrics.Metrics,
	opts RelayOptions,
) *OutboxRelay {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.SlipURLExpiry <= 0 {
		opts.SlipURLExpiry = 24 * time.Hour
	}
	return &OutboxRelay{
		notifications: notifications,
		orders:        orders,
		store:         store,
		renderer:      renderer,
		sender:        sender,
		publisher:     publisher,
		metrics:       m,
		opts:          opts,
		tracer:        otel.Tracer("ticketapi/worker"),
	}
}

// Run polls until ctx is cancelled.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.opts.Interval)
	defer ticker.Stop()

	logging.Info("outbox", "outbox_relay_started", map[string]any{
		"interval_ms":  r.opts.Interval.Milliseconds(),
		"batch_size":   r.opts.BatchSize,
		"max_attempts": r.opts.MaxAttempts,
	})
	for {
		select {
		case <-ctx.Done():
			logging.Info("outbox", "outbox_relay_stopped", nil)
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil && ctx.Err() == nil {
				logging.Error("outbox", "outbox_batch_failed", err, nil)
			}
		}
	}
}

// RunOnce processes a single batch.
func (r *OutboxRelay) RunOnce(ctx context.Context) (repository.ProcessResult, error) {
	res, err := r.notifications.Process(ctx, r.opts.BatchSize, r.opts.MaxAttempts, r.deliver)
	if err != nil {
		return res, err
	}
	if res.Sent+res.Retry+res.Failed > 0 {
		logging.Info("outbox", "outbox_batch_processed", map[string]any{
			"sent":   res.Sent,
			"retry":  res.Retry,
			"failed": res.Failed,
		})
	}
	return res, nil
}

func (r *OutboxRelay) deliver(ctx context.Context, n model.Notification) (err error) {
	ctx, span := r.tracer.Start(ctx, "outbox.deliver", trace.WithAttributes(
		attribute.String("notification.id", n.ID),
		attribute.String("notification.kind", string(n.Kind)),
		attribute.String("order.code", n.OrderCode),
		attribute.Int("notification.attempt", n.Attempts+1),
	))
	start := time.Now()
	defer func() {
		result := "sent"
		if err != nil {
			result = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logging.Warn("outbox", "notification_delivery_failed", err, map[string]any{
				"id":      n.ID,
				"kind":    string(n.Kind),
				"code":    n.OrderCode,
				"attempt": n.Attempts + 1,
			})
		}
		r.metrics.Notification(string(n.Kind), result, time.Since(start).Seconds())
		span.End()
	}()

	detail, err := r.orders.FindDetail(ctx, n.OrderCode)
	if err != nil {
		return fmt.Errorf("load order %s: %w", n.OrderCode, err)
	}

	msg := notify.Message{Kind: n.Kind, Order: *detail, Payload: n.Payload}
	if n.Kind == model.NotifyPaymentSubmitted && detail.SlipPath != "" && r.store != nil {
		url, err := r.store.PresignGet(ctx, detail.SlipPath, r.opts.SlipURLExpiry)
		if err != nil {
			logging.Warn("outbox", "slip_presign_failed", err, map[string]any{"code": n.OrderCode})
		} else {
			msg.SlipURL = url
		}
	}
	text, err := r.renderer.Render(msg)
	if err != nil {
		return err
	}

	// Broker first: a failed publish must not leave a chat message behind.
	// Consumers dedupe on the message id.
	if r.publisher != nil {
		body, err := json.Marshal(envelope{
			ID:         n.ID,
			Kind:       string(n.Kind),
			OrderCode:  detail.Code,
			Status:     string(detail.Status),
			Quantity:   detail.Quantity,
			Amount:     detail.TotalAmount,
			EventID:    detail.EventID,
			Payload:    n.Payload,
			OccurredAt: n.CreatedAt,
		})
		if err != nil {
			return fmt.Errorf("encode envelope: %w", err)
		}
		if err := r.publisher.Publish(ctx, n.ID, string(n.Kind), body); err != nil {
			return err
		}
	}

	return r.sender.Send(ctx, text)
}
