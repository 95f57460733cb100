package handler

import (
	"github.com/gofiber/fiber/v2"

	"ticketapi/internal/model"
	"ticketapi/internal/service"
)

// GetRefund shows the state of a refund link.
//
// @Summary  Refund status
// @Tags     refunds
// @Produce  json
// @Param    token path string true "refund token"
// @Success  200 {object} model.RefundLink
// @Failure  404 {object} errorPayload
// @Router   /api/refunds/{token} [get]
func GetRefund(svc service.RefundService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rl, err := svc.Get(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rl)
	}
}

// SubmitRefund records the bank account the refund is paid to.
//
// @Summary  Submit refund details
// @Tags     refunds
// @Accept   json
// @Produce  json
// @Param    token path string            true "refund token"
// @Param    body  body model.BankDetails true "bank account"
// @Success  200 {object} model.RefundLink
// @Failure  400 {object} errorPayload
// @Failure  410 {object} errorPayload "expired"
// @Router   /api/refunds/{token} [post]
func SubmitRefund(svc service.RefundService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var d model.BankDetails
		if perr := parseBody(c, &d); perr != nil {
			return perr.write(c)
		}
		rl, err := svc.Submit(c.UserContext(), c.Params("token"), d)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rl)
	}
}

// CompleteRefund marks the transfer as done.
func CompleteRefund(svc service.RefundService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rl, err := svc.Complete(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(rl)
	}
}
