package handler

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"ticketapi/internal/http/middleware"
	"ticketapi/internal/logging"
	"ticketapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

type errorMapping struct {
	err     error
	status  int
	code    string
	message string
}

// Order matters: the first matching sentinel wins.
var serviceErrors = []errorMapping{
	{service.ErrIDRequired, fiber.StatusBadRequest, "BAD_REQUEST", "identifier is required"},
	{service.ErrReaderNil, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required"},
	{service.ErrEventNotFound, fiber.StatusNotFound, "EVENT_NOT_FOUND", "event not found"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{sql.ErrNoRows, fiber.StatusNotFound, "NOT_FOUND", "resource not found"},
	{service.ErrEventClosed, fiber.StatusConflict, "EVENT_CLOSED", "event is not on sale"},
	{service.ErrSoldOut, fiber.StatusConflict, "SOLD_OUT", "not enough seats available"},
	{service.ErrLinkRequired, fiber.StatusForbidden, "LINK_REQUIRED", "this event is only sold through a purchase link"},
	{service.ErrLinkInvalid, fiber.StatusGone, "LINK_INVALID", "purchase link is invalid, expired or used up"},
	{service.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION", "order cannot change to that status"},
	{service.ErrSeatsBelowSold, fiber.StatusConflict, "SEATS_BELOW_SOLD", "total seats cannot be lower than seats already sold"},
	{service.ErrRefundExpired, fiber.StatusGone, "REFUND_EXPIRED", "refund link has expired"},
	{service.ErrRefundState, fiber.StatusConflict, "REFUND_STATE", "refund is not in a state that allows this"},
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"},
	{service.ErrInvalidToken, fiber.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token"},
	{service.ErrAuthDisabled, fiber.StatusServiceUnavailable, "AUTH_DISABLED", "admin login is not configured"},
}

// writeServiceError translates a service error into the standard payload.
// Unknown errors are logged and reported as 500 without details.
func writeServiceError(c *fiber.Ctx, err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", ve.Error())
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.message)
		}
	}
	logging.Error("http", "request_failed", err, map[string]any{
		"request_id": requestIDFromCtx(c),
		"method":     c.Method(),
		"path":       c.Path(),
	})
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", e.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			logging.Error("http", "unhandled_error", err, map[string]any{"request_id": requestIDFromCtx(c)})
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
