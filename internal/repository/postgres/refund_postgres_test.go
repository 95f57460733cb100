package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

var refundCols = []string{"token", "order_id", "code", "amount", "status", "bank_name", "account_name",
	"account_number", "expires_at", "created_at", "submitted_at", "completed_at"}

func refundRow(status string, expires, created time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(refundCols).AddRow("rf-tok", "o-1", "TK-1", int64(300000), status, "", "", "",
		expires, created, nil, nil)
}

func TestRefundPostgres_FindByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRefundPostgres(db)

	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM refund_links r JOIN orders o ON o.id = r.order_id WHERE r.token = ?").
		WithArgs("rf-tok").
		WillReturnRows(refundRow("open", now.Add(time.Hour), now))

	rl, err := repo.FindByToken(context.Background(), "rf-tok")

	require.NoError(t, err)
	assert.Equal(t, "TK-1", rl.OrderCode)
	assert.Equal(t, model.RefundOpen, rl.Status)
	assert.Nil(t, rl.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefundPostgres_Submit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	details := model.BankDetails{BankName: "KBank", AccountName: "Somchai", AccountNumber: "123-4-56789-0"}

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRefundPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM refund_links r (.+) FOR UPDATE OF r").
			WithArgs("rf-tok").
			WillReturnRows(refundRow("open", now.Add(time.Hour), now.Add(-time.Hour)))
		mock.ExpectExec("UPDATE refund_links SET status").
			WithArgs("rf-tok", "submitted", "KBank", "Somchai", "123-4-56789-0", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO notifications").
			WithArgs(sqlmock.AnyArg(), "refund_requested", "TK-1", sqlmock.AnyArg(), "pending", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rl, err := repo.Submit(ctx, "rf-tok", details, now, &model.Notification{Kind: model.NotifyRefundRequested})

		require.NoError(t, err)
		assert.Equal(t, model.RefundSubmitted, rl.Status)
		assert.Equal(t, "KBank", rl.BankName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("expired", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRefundPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM refund_links r").
			WithArgs("rf-tok").
			WillReturnRows(refundRow("open", now.Add(-time.Minute), now.Add(-time.Hour)))
		mock.ExpectRollback()

		_, err = repo.Submit(ctx, "rf-tok", details, now, nil)
		assert.ErrorIs(t, err, repository.ErrRefundExpired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already completed", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRefundPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM refund_links r").
			WithArgs("rf-tok").
			WillReturnRows(refundRow("completed", now.Add(time.Hour), now.Add(-time.Hour)))
		mock.ExpectRollback()

		_, err = repo.Submit(ctx, "rf-tok", details, now, nil)
		assert.ErrorIs(t, err, repository.ErrRefundState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRefundPostgres_Complete(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRefundPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM refund_links r").
			WithArgs("rf-tok").
			WillReturnRows(refundRow("submitted", now.Add(time.Hour), now.Add(-time.Hour)))
		mock.ExpectExec("UPDATE refund_links SET status = (.+), completed_at").
			WithArgs("rf-tok", "completed", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO notifications").
			WithArgs(sqlmock.AnyArg(), "refund_completed", "TK-1", sqlmock.AnyArg(), "pending", now).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rl, err := repo.Complete(ctx, "rf-tok", now, &model.Notification{Kind: model.NotifyRefundCompleted})

		require.NoError(t, err)
		assert.Equal(t, model.RefundCompleted, rl.Status)
		require.NotNil(t, rl.CompletedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not submitted yet", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		repo := NewRefundPostgres(db)

		mock.ExpectBegin()
		mock.ExpectQuery("FROM refund_links r").
			WithArgs("rf-tok").
			WillReturnRows(refundRow("open", now.Add(time.Hour), now.Add(-time.Hour)))
		mock.ExpectRollback()

		_, err = repo.Complete(ctx, "rf-tok", now, nil)
		assert.ErrorIs(t, err, repository.ErrRefundState)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
