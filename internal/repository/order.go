package repository

import (
	"context"
	"time"

	"ticketapi/internal/model"
)

// OrderFilter narrows admin order listings. Zero values match everything.
type OrderFilter struct {
	Status  model.OrderStatus
	EventID string
	Page    PageQuery
}

// StatusUpdate describes one lifecycle transition applied under a row lock.
type StatusUpdate struct {
	To model.OrderStatus
	// From further restricts the source states the transition table allows.
	From     []model.OrderStatus
	SlipPath string
	Reason   string
	// Refund is inserted only when the order had been paid.
	Refund       *model.RefundLink
	Notification *model.Notification
	Now          time.Time
}

// StatusResult reports the order after a transition.
type StatusResult struct {
	Order        *model.Order
	Previous     model.OrderStatus
	PreviousSlip string
	Refund       *model.RefundLink
}

// OrderRepository owns the order lifecycle and the seat bookkeeping that goes with it.
type OrderRepository interface {
	// Create reserves seats and inserts the order in one transaction: the
	// event row is locked, the purchase link (if any) is consumed, seats are
	// decremented and the notification is queued.
	Create(ctx context.Context, o *model.Order, n *model.Notification) (*model.Order, error)

	FindByCode(ctx context.Context, code string) (*model.Order, error)

	// FindDetail returns the order joined with its event.
	FindDetail(ctx context.Context, code string) (*model.OrderDetail, error)

	List(ctx context.Context, f OrderFilter) (*PageResult[model.Order], error)

	UpdateStatus(ctx context.Context, code string, upd StatusUpdate) (*StatusResult, error)

	// ExpirePending cancels up to limit pending orders created before cutoff
	// and returns their codes.
	ExpirePending(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}
