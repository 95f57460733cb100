package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/repository"
)

// MockNotificationRepository hands the configured batch to fn so relay
// tests exercise the real delivery callback.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Process(ctx context.Context, limit, maxAttempts int, fn repository.DeliverFunc) (repository.ProcessResult, error) {
	args := m.Called(ctx, limit, maxAttempts, fn)
	if f, ok := args.Get(0).(func(context.Context, repository.DeliverFunc) repository.ProcessResult); ok {
		return f(ctx, fn), args.Error(1)
	}
	return args.Get(0).(repository.ProcessResult), args.Error(1)
}
