package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
)

type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) Create(ctx context.Context, l *model.GeneratedLink) (*model.GeneratedLink, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedLink), args.Error(1)
}

func (m *MockLinkRepository) FindByToken(ctx context.Context, token string) (*model.GeneratedLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedLink), args.Error(1)
}

func (m *MockLinkRepository) ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GeneratedLink), args.Error(1)
}

func (m *MockLinkRepository) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
