package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticketapi/internal/model"
)

var linkCols = []string{"token", "event_id", "label", "max_uses", "used_count", "expires_at", "revoked", "created_at"}

func TestLinkPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLinkPostgres(db)

	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	expires := now.Add(48 * time.Hour)
	l := &model.GeneratedLink{Token: "tok", EventID: "ev-1", Label: "press", MaxUses: 4, ExpiresAt: &expires, CreatedAt: now}

	mock.ExpectQuery("INSERT INTO generated_links").
		WithArgs("tok", "ev-1", "press", 4, expires, now).
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow("tok", "ev-1", "press", 4, 0, expires, false, now))

	got, err := repo.Create(context.Background(), l)

	require.NoError(t, err)
	assert.Equal(t, 4, got.Remaining())
	require.NotNil(t, got.ExpiresAt)
	assert.Equal(t, expires, *got.ExpiresAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkPostgres_FindAndList(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLinkPostgres(db)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM generated_links WHERE token = ?").
		WithArgs("tok").
		WillReturnRows(sqlmock.NewRows(linkCols).AddRow("tok", "ev-1", "", 2, 2, nil, false, now))

	l, err := repo.FindByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Nil(t, l.ExpiresAt)
	assert.False(t, l.Usable(now))

	mock.ExpectQuery("SELECT (.+) FROM generated_links WHERE event_id = (.+) ORDER BY created_at DESC").
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows(linkCols).
			AddRow("a", "ev-1", "", 2, 0, nil, false, now).
			AddRow("b", "ev-1", "", 1, 0, nil, true, now))

	links, err := repo.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Len(t, links, 2)
	assert.True(t, links[1].Revoked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkPostgres_Revoke(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewLinkPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE generated_links SET revoked = true").WithArgs("tok").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Revoke(ctx, "tok"))

	mock.ExpectExec("UPDATE generated_links SET revoked = true").WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Revoke(ctx, "gone"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}
