package repository

import (
	"context"

	"ticketapi/internal/model"
)

// EventRepository defines data access for events.
type EventRepository interface {
	// Create inserts an event. AvailableSeats starts equal to TotalSeats.
	Create(ctx context.Context, e *model.Event) (*model.Event, error)

	// Update rewrites the editable fields of an event. Changing TotalSeats
	// shifts AvailableSeats by the same delta and fails with ErrSeatsBelowSold
	// when the new total would not cover seats already sold.
	Update(ctx context.Context, e *model.Event) (*model.Event, error)

	FindByID(ctx context.Context, id string) (*model.Event, error)

	// List returns events ordered by start time. activeOnly hides closed events.
	List(ctx context.Context, pq PageQuery, activeOnly bool) (*PageResult[model.Event], error)

	SetStatus(ctx context.Context, id string, status model.EventStatus) error
}
