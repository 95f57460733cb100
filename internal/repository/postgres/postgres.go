// Package postgres implements the repository interfaces on PostgreSQL using
// database/sql with parameterized queries.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"ticketapi/internal/model"
)

const uniqueViolation = "23505"

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

// insertNotification queues n in the outbox using the caller's transaction.
func insertNotification(ctx context.Context, tx *sql.Tx, n *model.Notification, now time.Time) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Payload == nil {
		n.Payload = map[string]string{}
	}
	payload, err := json.Marshal(n.Payload)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	n.Status = model.NotificationPending
	n.CreatedAt = now

	const q = `
		INSERT INTO notifications (id, kind, order_code, payload, status, created_at, next_attempt_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
	`
	if _, err := tx.ExecContext(ctx, q, n.ID, n.Kind, n.OrderCode, payload, n.Status, now); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}
