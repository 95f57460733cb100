package repository

import (
	"context"

	"ticketapi/internal/model"
)

// DeliverFunc delivers one notification. A non-nil error leaves the row for retry.
type DeliverFunc func(ctx context.Context, n model.Notification) error

// ProcessResult counts the outcome of one outbox batch.
type ProcessResult struct {
	Sent   int
	Retry  int
	Failed int
}

// NotificationRepository is the outbox the relay drains.
type NotificationRepository interface {
	// Process claims up to limit pending notifications, hands each to fn and
	// records the outcome. Rows reaching maxAttempts failures are marked failed.
	Process(ctx context.Context, limit, maxAttempts int, fn DeliverFunc) (ProcessResult, error)
}
