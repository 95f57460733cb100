package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"ticketapi/internal/logging"
	"ticketapi/internal/metrics"
	"ticketapi/internal/model"
	"ticketapi/internal/repository"
	"ticketapi/internal/storage"
)

const (
	maxSlipSize     = 5 << 20
	codeAttempts    = 3
	defaultRejected = "payment could not be verified"
)

var slipTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

// CreateOrderInput is what a customer submits to reserve seats.
type CreateOrderInput struct {
	EventID      string `json:"event_id"`
	CustomerName string `json:"customer_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Quantity     int    `json:"quantity"`
	LinkToken    string `json:"link_token"`
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	Status  string
	EventID string
	Limit   int
	Offset  int
}

// OrderListResult is the service-level DTO for paginated orders.
type OrderListResult struct {
	Items []model.Order `json:"data"`
	Total int           `json:"total"`
}

// SlipUpload describes a payment slip file.
type SlipUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CancelResult is returned to the administrator after a cancellation.
// Refund is set when the order had already been paid.
type CancelResult struct {
	Order  *model.Order      `json:"order"`
	Refund *model.RefundLink `json:"refund,omitempty"`
}

// OrderOptions are the tunables of the order workflow.
type OrderOptions struct {
	MaxTickets    int
	RefundLinkTTL time.Duration
	SlipURLExpiry time.Duration
	// Location is the business timezone used for the date part of order codes.
	Location *time.Location
}

// OrderService implements the customer purchase flow and the admin review flow.
type OrderService interface {
	// Create reserves seats and queues an order_created notification.
	Create(ctx context.Context, in CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, code string) (*model.Order, error)
	Detail(ctx context.Context, code string) (*model.OrderDetail, error)
	List(ctx context.Context, f OrderListFilter) (*OrderListResult, error)

	// UploadSlip stores the payment slip and moves a pending order to paid.
	// The stored object is removed again if the status change fails.
	UploadSlip(ctx context.Context, code string, up SlipUpload) (*model.Order, error)
	Confirm(ctx context.Context, code string) (*model.Order, error)
	Reject(ctx context.Context, code, reason string) (*model.Order, error)
	// CancelByCustomer only accepts orders that have not been paid.
	CancelByCustomer(ctx context.Context, code string) (*model.Order, error)
	// CancelByAdmin accepts any non-terminal order and issues a refund link
	// when money was already received.
	CancelByAdmin(ctx context.Context, code, reason string) (*CancelResult, error)

	OpenSlip(ctx context.Context, code string) (io.ReadCloser, storage.ObjectInfo, error)
	SlipURL(ctx context.Context, code string) (string, error)
}

type orderService struct {
	repo    repository.OrderRepository
	store   storage.Storage
	metrics *metrics.Metrics
	opts    OrderOptions
	now     func() time.Time
}

func NewOrderService(repo repository.OrderRepository, store storage.Storage, m *metrics.Metrics, opts OrderOptions) OrderService {
	if opts.MaxTickets <= 0 {
		opts.MaxTickets = 10
	}
	if opts.RefundLinkTTL <= 0 {
		opts.RefundLinkTTL = 14 * 24 * time.Hour
	}
	if opts.SlipURLExpiry <= 0 {
		opts.SlipURLExpiry = 24 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &orderService{repo: repo, store: store, metrics: m, opts: opts, now: time.Now}
}

func (s *orderService) validate(in *CreateOrderInput) error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.LinkToken = strings.TrimSpace(in.LinkToken)

	if in.EventID == "" {
		return invalid("event_id", "is required")
	}
	if in.CustomerName == "" {
		return invalid("customer_name", "is required")
	}
	if err := tooLong("customer_name", in.CustomerName, maxNameLen); err != nil {
		return err
	}
	if err := tooLong("email", in.Email, maxEmailLen); err != nil {
		return err
	}
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return invalid("email", "is not a valid address")
	}
	if !validPhone(in.Phone) {
		return invalid("phone", "must contain 9 to 15 digits")
	}
	if in.Quantity < 1 || in.Quantity > s.opts.MaxTickets {
		return invalid("quantity", fmt.Sprintf("must be between 1 and %d", s.opts.MaxTickets))
	}
	return nil
}

func validPhone(p string) bool {
	digits := 0
	for i, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0, r == '-', r == ' ':
		default:
			return false
		}
	}
	return digits >= 9 && digits <= 15
}

func (s *orderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		now := s.now().UTC()
		code, err := newOrderCode(now.In(s.opts.Location))
		if err != nil {
			return nil, err
		}
		o := &model.Order{
			ID:           uuid.NewString(),
			Code:         code,
			EventID:      in.EventID,
			CustomerName: in.CustomerName,
			Email:        in.Email,
			Phone:        in.Phone,
			Quantity:     in.Quantity,
			LinkToken:    in.LinkToken,
			Status:       model.OrderPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		created, err := s.repo.Create(ctx, o, &model.Notification{Kind: model.NotifyOrderCreated})
		switch {
		case err == nil:
			s.metrics.OrderCreated()
			logging.Info("order", "order_created", map[string]any{
				"code":     created.Code,
				"event_id": created.EventID,
				"quantity": created.Quantity,
			})
			return created, nil
		case errors.Is(err, repository.ErrDuplicateCode) && attempt < codeAttempts:
			continue
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrEventNotFound
		default:
			return nil, err
		}
	}
}

func (s *orderService) Get(ctx context.Context, code string) (*model.Order, error) {
	if code == "" {
		return nil, ErrIDRequired
	}
	o, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (s *orderService) Detail(ctx context.Context, code string) (*model.OrderDetail, error) {
	if code == "" {
		return nil, ErrIDRequired
	}
	d, err := s.repo.FindDetail(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *orderService) List(ctx context.Context, f OrderListFilter) (*OrderListResult, error) {
	limit, offset := normalizePage(f.Limit, f.Offset)
	status := model.OrderStatus(f.Status)
	if status != "" && !status.Valid() {
		return nil, invalid("status", "is not a known order status")
	}
	res, err := s.repo.List(ctx, repository.OrderFilter{
		Status:  status,
		EventID: f.EventID,
		Page:    repository.PageQuery{Limit: limit, Offset: offset},
	})
	if err != nil {
		return nil, err
	}
	return &OrderListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *orderService) UploadSlip(ctx context.Context, code string, up SlipUpload) (*model.Order, error) {
	if code == "" {
		return nil, ErrIDRequired
	}
	if up.Reader == nil {
		return nil, ErrReaderNil
	}
	ext, ok := slipTypes[up.ContentType]
	if !ok {
		return nil, invalid("slip", "must be a JPEG, PNG or PDF file")
	}
	if up.Size > maxSlipSize {
		return nil, invalid("slip", "must not exceed 5 MiB")
	}

	// Reject early so an upload for a settled order leaves no object behind.
	o, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, notFound(err)
	}
	if o.Status != model.OrderPending {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, model.OrderPaid)
	}

	key := path.Join("slips", code, uuid.NewString()+ext)
	info, err := s.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: up.ContentType,
		Metadata: map[string]string{
			"original-filename": path.Base(up.Filename),
			"order-code":        code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	res, err := s.repo.UpdateStatus(ctx, code, repository.StatusUpdate{
		To:           model.OrderPaid,
		From:         []model.OrderStatus{model.OrderPending},
		SlipPath:     info.Key,
		Notification: &model.Notification{Kind: model.NotifyPaymentSubmitted},
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, notFound(err)
	}
	if res.PreviousSlip != "" && res.PreviousSlip != info.Key {
		if err := s.store.Delete(ctx, res.PreviousSlip); err != nil {
			logging.Warn("order", "previous_slip_delete_failed", err, map[string]any{"code": code, "key": res.PreviousSlip})
		}
	}
	s.metrics.OrderTransition(string(model.OrderPaid))
	return res.Order, nil
}

func (s *orderService) Confirm(ctx context.Context, code string) (*model.Order, error) {
	res, err := s.transition(ctx, code, repository.StatusUpdate{
		To:           model.OrderConfirmed,
		Notification: &model.Notification{Kind: model.NotifyOrderConfirmed},
	})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (s *orderService) Reject(ctx context.Context, code, reason string) (*model.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejected
	}
	if err := tooLong("reason", reason, maxReasonLen); err != nil {
		return nil, err
	}
	res, err := s.transition(ctx, code, repository.StatusUpdate{
		To:     model.OrderRejected,
		Reason: reason,
		Notification: &model.Notification{
			Kind:    model.NotifyOrderRejected,
			Payload: map[string]string{"reason": reason},
		},
	})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (s *orderService) CancelByCustomer(ctx context.Context, code string) (*model.Order, error) {
	res, err := s.transition(ctx, code, repository.StatusUpdate{
		To:     model.OrderCancelled,
		From:   []model.OrderStatus{model.OrderPending},
		Reason: "cancelled by customer",
		Notification: &model.Notification{
			Kind:    model.NotifyOrderCancelled,
			Payload: map[string]string{"by": "customer"},
		},
	})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (s *orderService) CancelByAdmin(ctx context.Context, code, reason string) (*CancelResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "cancelled by organiser"
	}
	if err := tooLong("reason", reason, maxReasonLen); err != nil {
		return nil, err
	}
	token, err := newToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	res, err := s.transition(ctx, code, repository.StatusUpdate{
		To:     model.OrderCancelled,
		Reason: reason,
		Refund: &model.RefundLink{
			Token:     token,
			Status:    model.RefundOpen,
			ExpiresAt: now.Add(s.opts.RefundLinkTTL),
		},
		Notification: &model.Notification{
			Kind:    model.NotifyOrderCancelled,
			Payload: map[string]string{"by": "admin", "reason": reason},
		},
		Now: now,
	})
	if err != nil {
		return nil, err
	}
	return &CancelResult{Order: res.Order, Refund: res.Refund}, nil
}

func (s *orderService) transition(ctx context.Context, code string, upd repository.StatusUpdate) (*repository.StatusResult, error) {
	if code == "" {
		return nil, ErrIDRequired
	}
	res, err := s.repo.UpdateStatus(ctx, code, upd)
	if err != nil {
		return nil, notFound(err)
	}
	s.metrics.OrderTransition(string(upd.To))
	logging.Info("order", "order_status_changed", map[string]any{
		"code": code,
		"from": string(res.Previous),
		"to":   string(upd.To),
	})
	return res, nil
}

func (s *orderService) OpenSlip(ctx context.Context, code string) (io.ReadCloser, storage.ObjectInfo, error) {
	o, err := s.Get(ctx, code)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if o.SlipPath == "" {
		return nil, storage.ObjectInfo{}, ErrNotFound
	}
	return s.store.Get(ctx, o.SlipPath)
}

func (s *orderService) SlipURL(ctx context.Context, code string) (string, error) {
	o, err := s.Get(ctx, code)
	if err != nil {
		return "", err
	}
	if o.SlipPath == "" {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, o.SlipPath, s.opts.SlipURLExpiry)
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
