package model

import "time"

// EventStatus is the sales state of an event.
type EventStatus string

const (
	EventActive EventStatus = "active"
	EventClosed EventStatus = "closed"
)

// Event is a ticketed show with a single price tier and a seat counter.
// Price is expressed in minor currency units (satang).
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Venue          string      `json:"venue"`
	Description    string      `json:"description"`
	StartsAt       time.Time   `json:"starts_at"`
	Price          int64       `json:"price"`
	TotalSeats     int         `json:"total_seats"`
	AvailableSeats int         `json:"available_seats"`
	RequiresLink   bool        `json:"requires_link"`
	Status         EventStatus `json:"status"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OnSale reports whether new orders may be placed for the event.
func (e *Event) OnSale(now time.Time) bool {
	return e.Status == EventActive && now.Before(e.StartsAt)
}
