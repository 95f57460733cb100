package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ticketapi/internal/database"
	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

const refundSelect = `
	SELECT r.token, r.order_id, o.code, r.amount, r.status, r.bank_name, r.account_name,
		r.account_number, r.expires_at, r.created_at, r.submitted_at, r.completed_at
	FROM refund_links r
	JOIN orders o ON o.id = r.order_id
	WHERE r.token = $1`

// RefundPostgres is a PostgreSQL implementation of repository.RefundRepository.
type RefundPostgres struct {
	db *sql.DB
}

func NewRefundPostgres(db *sql.DB) *RefundPostgres {
	return &RefundPostgres{db: db}
}

var _ repository.RefundRepository = (*RefundPostgres)(nil)

func scanRefund(row rowScanner) (*model.RefundLink, error) {
	var (
		rl                   model.RefundLink
		submitted, completed sql.NullTime
	)
	if err := row.Scan(
		&rl.Token,
		&rl.OrderID,
		&rl.OrderCode,
		&rl.Amount,
		&rl.Status,
		&rl.BankName,
		&rl.AccountName,
		&rl.AccountNumber,
		&rl.ExpiresAt,
		&rl.CreatedAt,
		&submitted,
		&completed,
	); err != nil {
		return nil, err
	}
	rl.SubmittedAt = timePtr(submitted)
	rl.CompletedAt = timePtr(completed)
	return &rl, nil
}

func (r *RefundPostgres) FindByToken(ctx context.Context, token string) (*model.RefundLink, error) {
	return scanRefund(r.db.QueryRowContext(ctx, refundSelect, token))
}

// Submit records the customer's bank details. Resubmitting before the
// administrator completes the refund overwrites the previous details.
func (r *RefundPostgres) Submit(ctx context.Context, token string, d model.BankDetails, now time.Time, n *model.Notification) (*model.RefundLink, error) {
	var out *model.RefundLink
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := scanRefund(tx.QueryRowContext(ctx, refundSelect+` FOR UPDATE OF r`, token))
		if err != nil {
			return err
		}
		if cur.Status == model.RefundCompleted {
			return repository.ErrRefundState
		}
		if !now.Before(cur.ExpiresAt) {
			return repository.ErrRefundExpired
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE refund_links
			SET status = $2, bank_name = $3, account_name = $4, account_number = $5, submitted_at = $6
			WHERE token = $1
		`, token, model.RefundSubmitted, d.BankName, d.AccountName, d.AccountNumber, now); err != nil {
			return fmt.Errorf("update refund link: %w", err)
		}

		cur.Status = model.RefundSubmitted
		cur.BankName = d.BankName
		cur.AccountName = d.AccountName
		cur.AccountNumber = d.AccountNumber
		cur.SubmittedAt = &now
		out = cur

		if n != nil {
			n.OrderCode = cur.OrderCode
			return insertNotification(ctx, tx, n, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Complete marks a submitted refund as transferred.
func (r *RefundPostgres) Complete(ctx context.Context, token string, now time.Time, n *model.Notification) (*model.RefundLink, error) {
	var out *model.RefundLink
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		cur, err := scanRefund(tx.QueryRowContext(ctx, refundSelect+` FOR UPDATE OF r`, token))
		if err != nil {
			return err
		}
		if cur.Status != model.RefundSubmitted {
			return repository.ErrRefundState
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE refund_links SET status = $2, completed_at = $3 WHERE token = $1
		`, token, model.RefundCompleted, now); err != nil {
			return fmt.Errorf("complete refund link: %w", err)
		}

		cur.Status = model.RefundCompleted
		cur.CompletedAt = &now
		out = cur

		if n != nil {
			n.OrderCode = cur.OrderCode
			return insertNotification(ctx, tx, n, now)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
