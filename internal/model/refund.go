package model

import "time"

type RefundStatus string

const (
	RefundOpen      RefundStatus = "open"
	RefundSubmitted RefundStatus = "submitted"
	RefundCompleted RefundStatus = "completed"
)

// RefundLink is created when a paid order is cancelled. The customer opens it
// to submit the bank account the administrator transfers the money back to.
type RefundLink struct {
	Token         string       `json:"token"`
	OrderID       string       `json:"-"`
	OrderCode     string       `json:"order_code"`
	Amount        int64        `json:"amount"`
	Status        RefundStatus `json:"status"`
	BankName      string       `json:"bank_name,omitempty"`
	AccountName   string       `json:"account_name,omitempty"`
	AccountNumber string       `json:"account_number,omitempty"`
	ExpiresAt     time.Time    `json:"expires_at"`
	CreatedAt     time.Time    `json:"created_at"`
	SubmittedAt   *time.Time   `json:"submitted_at,omitempty"`
	CompletedAt   *time.Time   `json:"completed_at,omitempty"`
}

// BankDetails is what the customer submits through a refund link.
type BankDetails struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
}
