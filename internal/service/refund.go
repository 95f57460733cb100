package service

import (
	"context"
	"strings"
	"time"

	"ticketapi/internal/model"
	"ticketapi/internal/repository"
)

// RefundService drives the refund link workflow: the customer submits bank
// details, the administrator marks the transfer completed.
type RefundService interface {
	Get(ctx context.Context, token string) (*model.RefundLink, error)
	Submit(ctx context.Context, token string, d model.BankDetails) (*model.RefundLink, error)
	Complete(ctx context.Context, token string) (*model.RefundLink, error)
}

type refundService struct {
	repo repository.RefundRepository
	now  func() time.Time
}

func NewRefundService(repo repository.RefundRepository) RefundService {
	return &refundService{repo: repo, now: time.Now}
}

func (s *refundService) Get(ctx context.Context, token string) (*model.RefundLink, error) {
	if token == "" {
		return nil, ErrIDRequired
	}
	rl, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, notFound(err)
	}
	return rl, nil
}

func (s *refundService) Submit(ctx context.Context, token string, d model.BankDetails) (*model.RefundLink, error) {
	if token == "" {
		return nil, ErrIDRequired
	}
	d.BankName = strings.TrimSpace(d.BankName)
	d.AccountName = strings.TrimSpace(d.AccountName)
	d.AccountNumber = strings.TrimSpace(d.AccountNumber)
	switch {
	case d.BankName == "":
		return nil, invalid("bank_name", "is required")
	case d.AccountName == "":
		return nil, invalid("account_name", "is required")
	case !validAccountNumber(d.AccountNumber):
		return nil, invalid("account_number", "must contain 6 to 20 digits")
	}

	rl, err := s.repo.Submit(ctx, token, d, s.now().UTC(), &model.Notification{
		Kind:    model.NotifyRefundRequested,
		Payload: map[string]string{"bank_name": d.BankName},
	})
	if err != nil {
		return nil, notFound(err)
	}
	return rl, nil
}

func (s *refundService) Complete(ctx context.Context, token string) (*model.RefundLink, error) {
	if token == "" {
		return nil, ErrIDRequired
	}
	rl, err := s.repo.Complete(ctx, token, s.now().UTC(), &model.Notification{Kind: model.NotifyRefundCompleted})
	if err != nil {
		return nil, notFound(err)
	}
	return rl, nil
}

func validAccountNumber(n string) bool {
	digits := 0
	for _, r := range n {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '-' || r == ' ':
		default:
			return false
		}
	}
	return digits >= 6 && digits <= 20
}
