package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

// GenerateLinkInput describes a new purchase link. A zero TTL never expires.
type GenerateLinkInput struct {
	EventID string        `json:"event_id"`
	Label   string        `json:"label"`
	MaxUses int           `json:"max_uses"`
	TTL     time.Duration `json:"-"`
}

// LinkView is the public projection of a purchase link.
type LinkView struct {
	Token     string       `json:"token"`
	Remaining int          `json:"remaining"`
	ExpiresAt *time.Time   `json:"expires_at,omitempty"`
	Event     *model.Event `json:"event"`
}

// LinkService issues and resolves purchase links for link-only events.
type LinkService interface {
	Generate(ctx context.Context, in GenerateLinkInput) (*model.GeneratedLink, error)
	// Resolve returns ErrLinkInvalid for links that are revoked, expired or used up.
	Resolve(ctx context.Context, token string) (*LinkView, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error)
	Revoke(ctx context.Context, token string) error
}

type linkService struct {
	links  repository.LinkRepository
	events repository.EventRepository
	now    func() time.Time
}

func NewLinkService(links repository.LinkRepository, events repository.EventRepository) LinkService {
	return &linkService{links: links, events: events, now: time.Now}
}

func (s *linkService) Generate(ctx context.Context, in GenerateLinkInput) (*model.GeneratedLink, error) {
	if in.EventID == "" {
		return nil, invalid("event_id", "is required")
	}
	if in.MaxUses <= 0 {
		return nil, invalid("max_uses", "must be greater than zero")
	}
	if in.TTL < 0 {
		return nil, invalid("ttl", "must not be negative")
	}
	if _, err := s.events.FindByID(ctx, in.EventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	l := &model.GeneratedLink{
		Token:     token,
		EventID:   in.EventID,
		Label:     strings.TrimSpace(in.Label),
		MaxUses:   in.MaxUses,
		CreatedAt: now,
	}
	if in.TTL > 0 {
		exp := now.Add(in.TTL)
		l.ExpiresAt = &exp
	}
	return s.links.Create(ctx, l)
}

func (s *linkService) Resolve(ctx context.Context, token string) (*LinkView, error) {
	if token == "" {
		return nil, ErrIDRequired
	}
	l, err := s.links.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLinkInvalid
		}
		return nil, err
	}
	now := s.now()
	if !l.Usable(now) {
		return nil, ErrLinkInvalid
	}
	e, err := s.events.FindByID(ctx, l.EventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if !e.OnSale(now) {
		return nil, ErrEventClosed
	}
	return &LinkView{Token: l.Token, Remaining: l.Remaining(), ExpiresAt: l.ExpiresAt, Event: e}, nil
}

func (s *linkService) ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error) {
	if eventID == "" {
		return nil, invalid("event_id", "is required")
	}
	return s.links.ListByEvent(ctx, eventID)
}

func (s *linkService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrIDRequired
	}
	return notFound(s.links.Revoke(ctx, token))
}
