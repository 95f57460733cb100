package model

import "time"

// OrderStatus is a step of the order lifecycle:
//
//	pending -> paid -> confirmed
//	pending|paid -> rejected
//	pending|paid|confirmed -> cancelled
//
// rejected and cancelled are terminal.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderConfirmed OrderStatus = "confirmed"
	OrderRejected  OrderStatus = "rejected"
	OrderCancelled OrderStatus = "cancelled"
)

var transitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderPaid, OrderRejected, OrderCancelled},
	OrderPaid:      {OrderConfirmed, OrderRejected, OrderCancelled},
	OrderConfirmed: {OrderCancelled},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderConfirmed, OrderRejected, OrderCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order in from may move to to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ReleasesSeats reports whether entering to returns the order's seats to inventory.
func ReleasesSeats(to OrderStatus) bool {
	return to == OrderRejected || to == OrderCancelled
}

// Refundable reports whether money has been received for an order in s.
func Refundable(s OrderStatus) bool {
	return s == OrderPaid || s == OrderConfirmed
}

// Order is a customer's reservation of Quantity seats for one event.
// Amounts are in minor currency units.
type Order struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	EventID      string      `json:"event_id"`
	CustomerName string      `json:"customer_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Quantity     int         `json:"quantity"`
	UnitPrice    int64       `json:"unit_price"`
	TotalAmount  int64       `json:"total_amount"`
	Status       OrderStatus `json:"status"`
	SlipPath     string      `json:"-"`
	HasSlip      bool        `json:"has_slip"`
	RejectReason string      `json:"reject_reason,omitempty"`
	LinkToken    string      `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
}

// OrderDetail is an order together with the event fields needed to describe it.
type OrderDetail struct {
	Order
	EventTitle    string    `json:"event_title"`
	EventVenue    string    `json:"event_venue"`
	EventStartsAt time.Time `json:"event_starts_at"`
}
