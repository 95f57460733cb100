package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
	"ticketapi/internal/service"
)

type MockLinkService struct {
	mock.Mock
}

func (m *MockLinkService) Generate(ctx context.Context, in service.GenerateLinkInput) (*model.GeneratedLink, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratedLink), args.Error(1)
}

func (m *MockLinkService) Resolve(ctx context.Context, token string) (*service.LinkView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LinkView), args.Error(1)
}

func (m *MockLinkService) ListByEvent(ctx context.Context, eventID string) ([]model.GeneratedLink, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GeneratedLink), args.Error(1)
}

func (m *MockLinkService) Revoke(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
