package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ticketapi/internal/database"
	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

const eventColumns = `id, title, venue, description, starts_at, price, total_seats,
		available_seats, requires_link, status, created_at, updated_at`

// EventPostgres is a PostgreSQL implementation of repository.EventRepository.
type EventPostgres struct {
	db *sql.DB
}

// NewEventPostgres creates a new EventPostgres repository.
func NewEventPostgres(db *sql.DB) *EventPostgres {
	return &EventPostgres{db: db}
}

var _ repository.EventRepository = (*EventPostgres)(nil)

func scanEvent(row rowScanner) (*model.Event, error) {
	var e model.Event
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Venue,
		&e.Description,
		&e.StartsAt,
		&e.Price,
		&e.TotalSeats,
		&e.AvailableSeats,
		&e.RequiresLink,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event row and returns the stored record.
func (r *EventPostgres) Create(ctx context.Context, e *model.Event) (*model.Event, error) {
	q := `
		INSERT INTO events (id, title, venue, description, starts_at, price, total_seats,
			available_seats, requires_link, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7, $8, $9, $10, $10)
		RETURNING ` + eventColumns
	row := r.db.QueryRowContext(ctx, q,
		e.ID,
		e.Title,
		e.Venue,
		e.Description,
		e.StartsAt,
		e.Price,
		e.TotalSeats,
		e.RequiresLink,
		e.Status,
		e.CreatedAt,
	)
	return scanEvent(row)
}

// Update rewrites the editable fields under a row lock so the seat delta is
// computed against the current counters.
func (r *EventPostgres) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	var out *model.Event
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var total, available int
		err := tx.QueryRowContext(ctx,
			`SELECT total_seats, available_seats FROM events WHERE id = $1 FOR UPDATE`, e.ID,
		).Scan(&total, &available)
		if err != nil {
			return err
		}

		sold := total - available
		if e.TotalSeats < sold {
			return repository.ErrSeatsBelowSold
		}

		q := `
			UPDATE events
			SET title = $2, venue = $3, description = $4, starts_at = $5, price = $6,
				total_seats = $7, available_seats = $8, requires_link = $9, updated_at = $10
			WHERE id = $1
			RETURNING ` + eventColumns
		out, err = scanEvent(tx.QueryRowContext(ctx, q,
			e.ID,
			e.Title,
			e.Venue,
			e.Description,
			e.StartsAt,
			e.Price,
			e.TotalSeats,
			e.TotalSeats-sold,
			e.RequiresLink,
			e.UpdatedAt,
		))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID fetches a single event by its ID.
func (r *EventPostgres) FindByID(ctx context.Context, id string) (*model.Event, error) {
	q := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.db.QueryRowContext(ctx, q, id))
}

// List returns events using LIMIT/OFFSET pagination and a total count.
func (r *EventPostgres) List(ctx context.Context, pq repository.PageQuery, activeOnly bool) (*repository.PageResult[model.Event], error) {
	where := ""
	if activeOnly {
		where = ` WHERE status = 'active'`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`+where).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + eventColumns + ` FROM events` + where + `
		ORDER BY starts_at ASC, id ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Event]{Items: items, Total: total}, nil
}

// SetStatus changes the sales status. It returns sql.ErrNoRows when the event does not exist.
func (r *EventPostgres) SetStatus(ctx context.Context, id string, status model.EventStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update event status: %w", err)
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

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
