package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
)

type MockRefundService struct {
	mock.Mock
}

func (m *MockRefundService) refund(args mock.Arguments) (*model.RefundLink, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefundLink), args.Error(1)
}

func (m *MockRefundService) Get(ctx context.Context, token string) (*model.RefundLink, error) {
	return m.refund(m.Called(ctx, token))
}

func (m *MockRefundService) Submit(ctx context.Context, token string, d model.BankDetails) (*model.RefundLink, error) {
	return m.refund(m.Called(ctx, token, d))
}

func (m *MockRefundService) Complete(ctx context.Context, token string) (*model.RefundLink, error) {
	return m.refund(m.Called(ctx, token))
}
