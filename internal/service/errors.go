package service

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"ticketapi/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("resource not found")
	ErrReaderNil  = errors.New("reader is nil")

	ErrEventNotFound = errors.New("event not found")

	ErrEventClosed       = repository.ErrEventClosed
	ErrSoldOut           = repository.ErrSoldOut
	ErrLinkRequired      = repository.ErrLinkRequired
	ErrLinkInvalid       = repository.ErrLinkInvalid
	ErrInvalidTransition = repository.ErrInvalidTransition
	ErrSeatsBelowSold    = repository.ErrSeatsBelowSold
	ErrRefundState       = repository.ErrRefundState
	ErrRefundExpired     = repository.ErrRefundExpired

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAuthDisabled       = errors.New("admin login is not configured")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// Rune limits for free-text fields that end up in admin notifications.
const (
	maxNameLen        = 100
	maxEmailLen       = 254
	maxReasonLen      = 500
	maxTitleLen       = 200
	maxVenueLen       = 200
	maxDescriptionLen = 5000
)

// tooLong reports a ValidationError when s exceeds n runes.
func tooLong(field, s string, n int) error {
	if utf8.RuneCountInString(s) > n {
		return invalid(field, fmt.Sprintf("must be at most %d characters", n))
	}
	return nil
}
