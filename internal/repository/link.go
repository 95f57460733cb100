package repository

import (
	"context"

	"ticketapi/internal/model"
)

// LinkRepository defines data access for generated purchase links.
// Redemption happens inside OrderRepository.Create.
type LinkRepository interface {
	Create(ctx context.Context, l *model.GeneratedLink) (*model.GeneratedLink, error)
	FindByToken(ctx context.Context, token string) (*model.GeneratedLink, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error)
	Revoke(ctx context.Context, token string) error
}
