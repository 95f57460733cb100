// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres) and contain no business
// rules beyond the invariants that must hold inside a single transaction.
package repository

import "errors"

// Errors returned by implementations when a transactional check fails.
// A missing row is reported as sql.ErrNoRows.
var (
	ErrEventClosed       = errors.New("event is not on sale")
	ErrSoldOut           = errors.New("not enough seats available")
	ErrLinkRequired      = errors.New("event requires a purchase link")
	ErrLinkInvalid       = errors.New("purchase link is invalid or used up")
	ErrDuplicateCode     = errors.New("order code already exists")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrSeatsBelowSold    = errors.New("total seats below seats already sold")
	ErrRefundState       = errors.New("refund link is not in a state that allows this")
	ErrRefundExpired     = errors.New("refund link has expired")
)

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
