package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"ticketapi/internal/model"
	"ticketapi/internal/service"
	"ticketapi/internal/storage"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error) {
	return m.order(m.Called(ctx, in))
}

func (m *MockOrderService) Get(ctx context.Context, code string) (*model.Order, error) {
	return m.order(m.Called(ctx, code))
}

func (m *MockOrderService) Detail(ctx context.Context, code string) (*model.OrderDetail, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderDetail), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, f service.OrderListFilter) (*service.OrderListResult, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderListResult), args.Error(1)
}

func (m *MockOrderService) UploadSlip(ctx context.Context, code string, up service.SlipUpload) (*model.Order, error) {
	return m.order(m.Called(ctx, code, up))
}

func (m *MockOrderService) Confirm(ctx context.Context, code string) (*model.Order, error) {
	return m.order(m.Called(ctx, code))
}

func (m *MockOrderService) Reject(ctx context.Context, code, reason string) (*model.Order, error) {
	return m.order(m.Called(ctx, code, reason))
}

func (m *MockOrderService) CancelByCustomer(ctx context.Context, code string) (*model.Order, error) {
	return m.order(m.Called(ctx, code))
}

func (m *MockOrderService) CancelByAdmin(ctx context.Context, code, reason string) (*service.CancelResult, error) {
	args := m.Called(ctx, code, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CancelResult), args.Error(1)
}

func (m *MockOrderService) OpenSlip(ctx context.Context, code string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, code)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	var info storage.ObjectInfo
	if v := args.Get(1); v != nil {
		info = v.(storage.ObjectInfo)
	}
	return rc, info, args.Error(2)
}

func (m *MockOrderService) SlipURL(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}
