package repository

import (
	"context"
	"time"

	"ticketapi/internal/model"
)

// RefundRepository defines data access for refund links.
type RefundRepository interface {
	FindByToken(ctx context.Context, token string) (*model.RefundLink, error)

	// Submit stores the customer's bank details on an open (or already
	// submitted, not yet completed) refund link and queues n.
	Submit(ctx context.Context, token string, d model.BankDetails, now time.Time, n *model.Notification) (*model.RefundLink, error)

	// Complete marks a submitted refund as paid out and queues n.
	Complete(ctx context.Context, token string, now time.Time, n *model.Notification) (*model.RefundLink, error)
}
