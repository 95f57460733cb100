package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
	"ticketapi/internal/service"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) List(ctx context.Context, limit, offset int, includeClosed bool) (*service.EventListResult, error) {
	args := m.Called(ctx, limit, offset, includeClosed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventListResult), args.Error(1)
}

func (m *MockEventService) Get(ctx context.Context, id string) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Create(ctx context.Context, in service.EventInput) (*model.Event, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, id string, in service.EventInput) (*model.Event, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventService) Close(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
