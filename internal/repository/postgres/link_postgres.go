package postgres

import (
	"context"
	"database/sql"

	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

const linkColumns = `token, event_id, label, max_uses, used_count, expires_at, revoked, created_at`

// LinkPostgres is a PostgreSQL implementation of repository.LinkRepository.
type LinkPostgres struct {
	db *sql.DB
}

func NewLinkPostgres(db *sql.DB) *LinkPostgres {
	return &LinkPostgres{db: db}
}

var _ repository.LinkRepository = (*LinkPostgres)(nil)

func scanLink(row rowScanner) (*model.GeneratedLink, error) {
	var (
		l       model.GeneratedLink
		expires sql.NullTime
	)
	if err := row.Scan(
		&l.Token,
		&l.EventID,
		&l.Label,
		&l.MaxUses,
		&l.UsedCount,
		&expires,
		&l.Revoked,
		&l.CreatedAt,
	); err != nil {
		return nil, err
	}
	l.ExpiresAt = timePtr(expires)
	return &l, nil
}

func (r *LinkPostgres) Create(ctx context.Context, l *model.GeneratedLink) (*model.GeneratedLink, error) {
	q := `
		INSERT INTO generated_links (token, event_id, label, max_uses, used_count, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, 0, $5, false, $6)
		RETURNING ` + linkColumns
	return scanLink(r.db.QueryRowContext(ctx, q,
		l.Token,
		l.EventID,
		l.Label,
		l.MaxUses,
		nullTime(l.ExpiresAt),
		l.CreatedAt,
	))
}

func (r *LinkPostgres) FindByToken(ctx context.Context, token string) (*model.GeneratedLink, error) {
	q := `SELECT ` + linkColumns + ` FROM generated_links WHERE token = $1`
	return scanLink(r.db.QueryRowContext(ctx, q, token))
}

func (r *LinkPostgres) ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error) {
	q := `SELECT ` + linkColumns + ` FROM generated_links WHERE event_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.GeneratedLink, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *l)
	}
	return items, rows.Err()
}

// Revoke disables a link. Orders already placed through it are unaffected.
func (r *LinkPostgres) Revoke(ctx context.Context, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE generated_links SET revoked = true WHERE token = $1`, token)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
