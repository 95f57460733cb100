package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
)

type MockRefundRepository struct {
	mock.Mock
}

func (m *MockRefundRepository) FindByToken(ctx context.Context, token string) (*model.RefundLink, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundLink), args.Error(1)
}

func (m *MockRefundRepository) Submit(ctx context.Context, token string, d model.BankDetails, now time.Time, n *model.Notification) (*model.RefundLink, error) {
	args := m.Called(ctx, token, d, now, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundLink), args.Error(1)
}

func (m *MockRefundRepository) Complete(ctx context.Context, token string, now time.Time, n *model.Notification) (*model.RefundLink, error) {
	args := m.Called(ctx, token, now, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundLink), args.Error(1)
}
