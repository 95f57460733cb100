package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

// EventInput carries the administrator-editable fields of an event.
type EventInput struct {
	Title        string    `json:"title"`
	Venue        string    `json:"venue"`
	Description  string    `json:"description"`
	StartsAt     time.Time `json:"starts_at"`
	Price        int64     `json:"price"`
	TotalSeats   int       `json:"total_seats"`
	RequiresLink bool      `json:"requires_link"`
}

func (in *EventInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Venue = strings.TrimSpace(in.Venue)
	switch {
	case in.Title == "":
		return invalid("title", "is required")
	case utf8.RuneCountInString(in.Title) > maxTitleLen:
		return tooLong("title", in.Title, maxTitleLen)
	case utf8.RuneCountInString(in.Venue) > maxVenueLen:
		return tooLong("venue", in.Venue, maxVenueLen)
	case utf8.RuneCountInString(in.Description) > maxDescriptionLen:
		return tooLong("description", in.Description, maxDescriptionLen)
	case in.StartsAt.IsZero():
		return invalid("starts_at", "is required")
	case in.Price < 0:
		return invalid("price", "must not be negative")
	case in.TotalSeats <= 0:
		return invalid("total_seats", "must be greater than zero")
	}
	return nil
}

// EventListResult is the service-level DTO for paginated events.
type EventListResult struct {
	Items []model.Event `json:"data"`
	Total int           `json:"total"`
}

// EventService manages the event catalogue.
type EventService interface {
	// List returns events ordered by start time. Closed events are only
	// included when includeClosed is set.
	List(ctx context.Context, limit, offset int, includeClosed bool) (*EventListResult, error)
	Get(ctx context.Context, id string) (*model.Event, error)
	Create(ctx context.Context, in EventInput) (*model.Event, error)
	// Update replaces the editable fields. Seats already sold are kept, so
	// lowering TotalSeats below them fails with ErrSeatsBelowSold.
	Update(ctx context.Context, id string, in EventInput) (*model.Event, error)
	// Close stops sales; existing orders are unaffected.
	Close(ctx context.Context, id string) error
}

type eventService struct {
	repo repository.EventRepository
	now  func() time.Time
}

func NewEventService(repo repository.EventRepository) EventService {
	return &eventService{repo: repo, now: time.Now}
}

func (s *eventService) List(ctx context.Context, limit, offset int, includeClosed bool) (*EventListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset}, !includeClosed)
	if err != nil {
		return nil, err
	}
	return &EventListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*model.Event, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *eventService) Create(ctx context.Context, in EventInput) (*model.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return s.repo.Create(ctx, &model.Event{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Venue:          in.Venue,
		Description:    in.Description,
		StartsAt:       in.StartsAt,
		Price:          in.Price,
		TotalSeats:     in.TotalSeats,
		AvailableSeats: in.TotalSeats,
		RequiresLink:   in.RequiresLink,
		Status:         model.EventActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

func (s *eventService) Update(ctx context.Context, id string, in EventInput) (*model.Event, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	e, err := s.repo.Update(ctx, &model.Event{
		ID:           id,
		Title:        in.Title,
		Venue:        in.Venue,
		Description:  in.Description,
		StartsAt:     in.StartsAt,
		Price:        in.Price,
		TotalSeats:   in.TotalSeats,
		RequiresLink: in.RequiresLink,
		UpdatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (s *eventService) Close(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.repo.SetStatus(ctx, id, model.EventClosed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
