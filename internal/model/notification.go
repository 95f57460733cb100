package model

import "time"

// NotificationKind names an order lifecycle event relayed to the administrator.
type NotificationKind string

const (
	NotifyOrderCreated     NotificationKind = "order_created"
	NotifyPaymentSubmitted NotificationKind = "payment_submitted"
	NotifyOrderConfirmed   NotificationKind = "order_confirmed"
	NotifyOrderRejected    NotificationKind = "order_rejected"
	NotifyOrderCancelled   NotificationKind = "order_cancelled"
	NotifyOrderExpired     NotificationKind = "order_expired"
	NotifyRefundRequested  NotificationKind = "refund_requested"
	NotifyRefundCompleted  NotificationKind = "refund_completed"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "pending"
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
)

// Notification is an outbox row. It is written in the same transaction as
// the state change it describes and delivered later by the relay.
type Notification struct {
	ID        string             `json:"id"`
	Kind      NotificationKind   `json:"kind"`
	OrderCode string             `json:"order_code"`
	Payload   map[string]string  `json:"payload,omitempty"`
	Status    NotificationStatus `json:"status"`
	Attempts  int                `json:"attempts"`
	LastError string             `json:"last_error,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	SentAt    *time.Time         `json:"sent_at,omitempty"`
}
