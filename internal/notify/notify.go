// Package notify delivers administrator notifications. Messages go to a chat
// bot through a Sender and, optionally, are mirrored to a message broker
// through a Publisher for downstream consumers.
package notify

import (
	"context"

	"ticketapi/internal/logging"
)

// Sender delivers a rendered message to the administrator.
type Sender interface {
	Send(ctx context.Context, text string) error
}

// Publisher mirrors an order event to a broker. topic is the notification kind.
type Publisher interface {
	Publish(ctx context.Context, id, topic string, payload []byte) error
}

// LogSender writes messages to the log instead of delivering them. It is
// used when no chat bot is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, text string) error {
	logging.Info("notify", "notification_logged", map[string]any{"text": text})
	return nil
}
