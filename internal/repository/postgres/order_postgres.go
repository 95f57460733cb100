package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ticketapi/internal/database"
	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

const orderColumns = `id, code, event_id, customer_name, email, phone, quantity, unit_price,
		total_amount, status, slip_path, reject_reason, link_token, created_at, updated_at, paid_at`

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
// Every state change runs in one transaction holding the row locks it needs.
type OrderPostgres struct {
	db  *sql.DB
	now func() time.Time
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db, now: time.Now}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

func scanOrder(row rowScanner, extra ...any) (*model.Order, error) {
	var (
		o      model.Order
		link   sql.NullString
		paidAt sql.NullTime
	)
	dest := []any{
		&o.ID,
		&o.Code,
		&o.EventID,
		&o.CustomerName,
		&o.Email,
		&o.Phone,
		&o.Quantity,
		&o.UnitPrice,
		&o.TotalAmount,
		&o.Status,
		&o.SlipPath,
		&o.RejectReason,
		&link,
		&o.CreatedAt,
		&o.UpdatedAt,
		&paidAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	o.LinkToken = link.String
	o.PaidAt = timePtr(paidAt)
	o.HasSlip = o.SlipPath != ""
	return &o, nil
}

// Create reserves seats for o and inserts it together with its notification.
func (r *OrderPostgres) Create(ctx context.Context, o *model.Order, n *model.Notification) (*model.Order, error) {
	var out *model.Order
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		ev := model.Event{ID: o.EventID}
		err := tx.QueryRowContext(ctx, `
			SELECT price, available_seats, status, starts_at, requires_link
			FROM events
			WHERE id = $1
			FOR UPDATE
		`, o.EventID).Scan(&ev.Price, &ev.AvailableSeats, &ev.Status, &ev.StartsAt, &ev.RequiresLink)
		if err != nil {
			return err
		}

		if !ev.OnSale(o.CreatedAt) {
			return repository.ErrEventClosed
		}

		if o.LinkToken != "" {
			if err := redeemLink(ctx, tx, o.LinkToken, o.EventID, o.CreatedAt); err != nil {
				return err
			}
		} else if ev.RequiresLink {
			return repository.ErrLinkRequired
		}

		if ev.AvailableSeats < o.Quantity {
			return repository.ErrSoldOut
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE events
			SET available_seats = available_seats - $2, updated_at = $3
			WHERE id = $1
		`, o.EventID, o.Quantity, o.CreatedAt); err != nil {
			return fmt.Errorf("reserve seats: %w", err)
		}

		var link sql.NullString
		if o.LinkToken != "" {
			link = sql.NullString{String: o.LinkToken, Valid: true}
		}
		q := `
			INSERT INTO orders (id, code, event_id, customer_name, email, phone, quantity,
				unit_price, total_amount, status, link_token, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
			RETURNING ` + orderColumns
		out, err = scanOrder(tx.QueryRowContext(ctx, q,
			o.ID,
			o.Code,
			o.EventID,
			o.CustomerName,
			o.Email,
			o.Phone,
			o.Quantity,
			ev.Price,
			ev.Price*int64(o.Quantity),
			model.OrderPending,
			link,
			o.CreatedAt,
		))
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicateCode
			}
			return fmt.Errorf("insert order: %w", err)
		}

		if n != nil {
			n.OrderCode = out.Code
			return insertNotification(ctx, tx, n, o.CreatedAt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// redeemLink locks the purchase link, checks it belongs to eventID and is
// still usable, then consumes one use.
func redeemLink(ctx context.Context, tx *sql.Tx, token, eventID string, now time.Time) error {
	var (
		l       model.GeneratedLink
		expires sql.NullTime
	)
	err := tx.QueryRowContext(ctx, `
		SELECT event_id, max_uses, used_count, expires_at, revoked
		FROM generated_links
		WHERE token = $1
		FOR UPDATE
	`, token).Scan(&l.EventID, &l.MaxUses, &l.UsedCount, &expires, &l.Revoked)
	if isNoRows(err) {
		return repository.ErrLinkInvalid
	}
	if err != nil {
		return err
	}
	l.ExpiresAt = timePtr(expires)

	if l.EventID != eventID || !l.Usable(now) {
		return repository.ErrLinkInvalid
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE generated_links SET used_count = used_count + 1 WHERE token = $1`, token,
	); err != nil {
		return fmt.Errorf("consume link: %w", err)
	}
	return nil
}

// FindByCode fetches a single order by its public code.
func (r *OrderPostgres) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE code = $1`
	return scanOrder(r.db.QueryRowContext(ctx, q, code))
}

// FindDetail fetches an order joined with the event it belongs to.
func (r *OrderPostgres) FindDetail(ctx context.Context, code string) (*model.OrderDetail, error) {
	q := `
		SELECT o.id, o.code, o.event_id, o.customer_name, o.email, o.phone, o.quantity,
			o.unit_price, o.total_amount, o.status, o.slip_path, o.reject_reason, o.link_token,
			o.created_at, o.updated_at, o.paid_at, e.title, e.venue, e.starts_at
		FROM orders o
		JOIN events e ON e.id = o.event_id
		WHERE o.code = $1
	`
	var d model.OrderDetail
	o, err := scanOrder(r.db.QueryRowContext(ctx, q, code), &d.EventTitle, &d.EventVenue, &d.EventStartsAt)
	if err != nil {
		return nil, err
	}
	d.Order = *o
	return &d, nil
}

// List returns orders newest first with optional status and event filters.
func (r *OrderPostgres) List(ctx context.Context, f repository.OrderFilter) (*repository.PageResult[model.Order], error) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if f.EventID != "" {
		args = append(args, f.EventID)
		conds = append(conds, "event_id = $"+strconv.Itoa(len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	limitArg := len(args) + 1
	q := `SELECT ` + orderColumns + ` FROM orders` + where + `
		ORDER BY created_at DESC, id DESC
		LIMIT $` + strconv.Itoa(limitArg) + ` OFFSET $` + strconv.Itoa(limitArg+1)
	rows, err := r.db.QueryContext(ctx, q, append(args, f.Page.Limit, f.Page.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Order]{Items: items, Total: total}, nil
}

// UpdateStatus applies one lifecycle transition under the order row lock.
// Seats go back to the event when the order is rejected or cancelled.
func (r *OrderPostgres) UpdateStatus(ctx context.Context, code string, upd repository.StatusUpdate) (*repository.StatusResult, error) {
	if upd.Now.IsZero() {
		upd.Now = r.now()
	}

	var res repository.StatusResult
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var (
			id, eventID, slipPath string
			quantity              int
			total                 int64
		)
		err := tx.QueryRowContext(ctx, `
			SELECT id, event_id, quantity, total_amount, status, slip_path
			FROM orders
			WHERE code = $1
			FOR UPDATE
		`, code).Scan(&id, &eventID, &quantity, &total, &res.Previous, &slipPath)
		if err != nil {
			return err
		}
		res.PreviousSlip = slipPath

		if !allowedFrom(res.Previous, upd.From) || !model.CanTransition(res.Previous, upd.To) {
			return fmt.Errorf("%w: %s -> %s", repository.ErrInvalidTransition, res.Previous, upd.To)
		}

		if model.ReleasesSeats(upd.To) {
			if _, err := tx.ExecContext(ctx, `
				UPDATE events
				SET available_seats = available_seats + $2, updated_at = $3
				WHERE id = $1
			`, eventID, quantity, upd.Now); err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
		}

		q := `
			UPDATE orders
			SET status = $2,
				slip_path = CASE WHEN $3 = '' THEN slip_path ELSE $3 END,
				reject_reason = CASE WHEN $4 = '' THEN reject_reason ELSE $4 END,
				paid_at = CASE WHEN $2 = 'paid' THEN $5 ELSE paid_at END,
				updated_at = $5
			WHERE id = $1
			RETURNING ` + orderColumns
		res.Order, err = scanOrder(tx.QueryRowContext(ctx, q, id, upd.To, upd.SlipPath, upd.Reason, upd.Now))
		if err != nil {
			return fmt.Errorf("update order: %w", err)
		}

		if upd.Refund != nil && model.Refundable(res.Previous) {
			ref := *upd.Refund
			ref.OrderID = id
			ref.OrderCode = code
			ref.Amount = total
			ref.Status = model.RefundOpen
			ref.CreatedAt = upd.Now
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO refund_links (token, order_id, amount, status, expires_at, created_at)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, ref.Token, ref.OrderID, ref.Amount, ref.Status, ref.ExpiresAt, ref.CreatedAt); err != nil {
				return fmt.Errorf("insert refund link: %w", err)
			}
			res.Refund = &ref
		}

		if upd.Notification != nil {
			n := upd.Notification
			n.OrderCode = code
			if n.Payload == nil {
				n.Payload = map[string]string{}
			}
			n.Payload["previous_status"] = string(res.Previous)
			if res.Refund != nil {
				n.Payload["refund_token"] = res.Refund.Token
			}
			return insertNotification(ctx, tx, n, upd.Now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func allowedFrom(s model.OrderStatus, from []model.OrderStatus) bool {
	if len(from) == 0 {
		return true
	}
	for _, f := range from {
		if f == s {
			return true
		}
	}
	return false
}

// ExpirePending cancels stale pending orders. Rows locked by a concurrent
// transition are skipped and picked up on a later sweep.
func (r *OrderPostgres) ExpirePending(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	type stale struct {
		id, code, eventID string
		quantity          int
	}

	var codes []string
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, code, event_id, quantity
			FROM orders
			WHERE status = 'pending' AND created_at < $1
			ORDER BY created_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		`, cutoff, limit)
		if err != nil {
			return err
		}
		var batch []stale
		for rows.Next() {
			var s stale
			if err := rows.Scan(&s.id, &s.code, &s.eventID, &s.quantity); err != nil {
				rows.Close()
				return err
			}
			batch = append(batch, s)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		now := r.now()
		for _, s := range batch {
			if _, err := tx.ExecContext(ctx, `
				UPDATE events
				SET available_seats = available_seats + $2, updated_at = $3
				WHERE id = $1
			`, s.eventID, s.quantity, now); err != nil {
				return fmt.Errorf("release seats: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE orders
				SET status = 'cancelled', reject_reason = 'payment window expired', updated_at = $2
				WHERE id = $1
			`, s.id, now); err != nil {
				return fmt.Errorf("expire order: %w", err)
			}
			n := &model.Notification{
				Kind:      model.NotifyOrderExpired,
				OrderCode: s.code,
				Payload:   map[string]string{"previous_status": string(model.OrderPending)},
			}
			if err := insertNotification(ctx, tx, n, now); err != nil {
				return err
			}
			codes = append(codes, s.code)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return codes, nil
}
