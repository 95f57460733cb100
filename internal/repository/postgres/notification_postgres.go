package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"ticketapi/internal/database"
	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

// maxErrorLen bounds last_error, in bytes.
const maxErrorLen = 500

// Failed deliveries wait retryBaseDelay, doubling per attempt up to retryMaxDelay.
const (
	retryBaseDelay = 10 * time.Second
	retryMaxDelay  = 15 * time.Minute
)

// retryDelay is the wait before the next try after the given failed attempt (1-based).
func retryDelay(attempt int) time.Duration {
	d := retryBaseDelay
	for i := 1; i < attempt && d < retryMaxDelay; i++ {
		d *= 2
	}
	return min(d, retryMaxDelay)
}

// clipError cuts msg to maxErrorLen bytes on a rune boundary.
func clipError(msg string) string {
	if len(msg) <= maxErrorLen {
		return msg
	}
	cut := maxErrorLen
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}

// NotificationPostgres is the outbox table drained by the notification relay.
type NotificationPostgres struct {
	db  *sql.DB
	now func() time.Time
}

func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db, now: time.Now}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

// Process claims a batch with FOR UPDATE SKIP LOCKED so several relays can
// run side by side. Rows wait until next_attempt_at, which backs off after
// each failure. Delivery is at-least-once: a crash between fn and commit
// resends the batch.
func (r *NotificationPostgres) Process(ctx context.Context, limit, maxAttempts int, fn repository.DeliverFunc) (repository.ProcessResult, error) {
	var res repository.ProcessResult
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, kind, order_code, payload, attempts, created_at
			FROM notifications
			WHERE status = 'pending' AND next_attempt_at <= $2
			ORDER BY created_at ASC
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		`, limit, r.now())
		if err != nil {
			return fmt.Errorf("fetch notifications: %w", err)
		}

		var batch []model.Notification
		for rows.Next() {
			var (
				n       model.Notification
				payload []byte
			)
			if err := rows.Scan(&n.ID, &n.Kind, &n.OrderCode, &payload, &n.Attempts, &n.CreatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("scan notification: %w", err)
			}
			if len(payload) > 0 {
				if err := json.Unmarshal(payload, &n.Payload); err != nil {
					n.Payload = map[string]string{}
				}
			}
			n.Status = model.NotificationPending
			batch = append(batch, n)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		for _, n := range batch {
			deliverErr := fn(ctx, n)
			now := r.now()

			if deliverErr == nil {
				if _, err := tx.ExecContext(ctx, `
					UPDATE notifications
					SET status = 'sent', attempts = attempts + 1, sent_at = $2, last_error = ''
					WHERE id = $1
				`, n.ID, now); err != nil {
					return fmt.Errorf("mark notification sent: %w", err)
				}
				res.Sent++
				continue
			}

			status := model.NotificationPending
			if n.Attempts+1 >= maxAttempts {
				status = model.NotificationFailed
				res.Failed++
			} else {
				res.Retry++
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE notifications
				SET status = $2, attempts = attempts + 1, last_error = $3, next_attempt_at = $4
				WHERE id = $1
			`, n.ID, status, clipError(deliverErr.Error()), now.Add(retryDelay(n.Attempts+1))); err != nil {
				return fmt.Errorf("record notification failure: %w", err)
			}
		}
		return nil
	})
	return res, err
}
