package handler

import (
	"mime"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ticketapi/internal/service"
)

type reasonRequest struct {
	Reason string `json:"reason"`
}

// CreateOrder reserves seats for a customer.
//
// @Summary  Place an order
// @Tags     orders
// @Accept   json
// @Produce  json
// @Param    body body service.CreateOrderInput true "order"
// @Success  201 {object} model.Order
// @Failure  400 {object} errorPayload
// @Failure  403 {object} errorPayload "purchase link required"
// @Failure  409 {object} errorPayload "sold out or event closed"
// @Router   /api/orders [post]
func CreateOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateOrderInput
		if perr := parseBody(c, &in); perr != nil {
			return perr.write(c)
		}
		if _, err := uuid.Parse(in.EventID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "event_id: must be a valid id")
		}
		o, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(o)
	}
}

// GetOrder returns an order by its code.
//
// @Summary  Order status
// @Tags     orders
// @Produce  json
// @Param    code path string true "order code"
// @Success  200 {object} model.Order
// @Failure  404 {object} errorPayload
// @Router   /api/orders/{code} [get]
func GetOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := svc.Get(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// UploadSlip accepts a payment slip (multipart/form-data, field name: slip).
//
// @Summary  Upload payment slip
// @Tags     orders
// @Accept   mpfd
// @Produce  json
// @Param    code path     string true "order code"
// @Param    slip formData file   true "JPEG, PNG or PDF, at most 5 MiB"
// @Success  200 {object} model.Order
// @Failure  400 {object} errorPayload
// @Failure  409 {object} errorPayload
// @Router   /api/orders/{code}/slip [post]
func UploadSlip(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("slip")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "slip file is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
		if err != nil {
			ct = "application/octet-stream"
		}

		o, err := svc.UploadSlip(c.UserContext(), c.Params("code"), service.SlipUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: ct,
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// CancelOrder lets the customer withdraw an unpaid order.
func CancelOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := svc.CancelByCustomer(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// AdminListOrders lists orders, optionally filtered by status and event.
//
// @Summary  List orders
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    status   query string false "pending, paid, confirmed, rejected or cancelled"
// @Param    event_id query string false "event id"
// @Param    limit    query int    false "page size" default(10)
// @Param    offset   query int    false "page offset" default(0)
// @Success  200 {object} service.OrderListResult
// @Router   /admin/orders [get]
func AdminListOrders(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, perr := parsePage(c)
		if perr != nil {
			return perr.write(c)
		}
		eventID := c.Query("event_id")
		if eventID != "" {
			if _, err := uuid.Parse(eventID); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid event_id format")
			}
		}
		res, err := svc.List(c.UserContext(), service.OrderListFilter{
			Status:  c.Query("status"),
			EventID: eventID,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminGetOrder returns an order with its event.
func AdminGetOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Detail(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}

// AdminGetSlip streams the payment slip, or redirects to a presigned URL
// when called with ?redirect=true.
func AdminGetSlip(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		code := c.Params("code")
		if c.QueryBool("redirect") {
			url, err := svc.SlipURL(c.UserContext(), code)
			if err != nil {
				return writeServiceError(c, err)
			}
			return c.Redirect(url, fiber.StatusFound)
		}

		rc, info, err := svc.OpenSlip(c.UserContext(), code)
		if err != nil {
			return writeServiceError(c, err)
		}
		if info.ContentType != "" {
			c.Set(fiber.HeaderContentType, info.ContentType)
		}
		c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(code+"-slip"))
		size := -1
		if info.Size > 0 {
			size = int(info.Size)
		}
		return c.SendStream(rc, size)
	}
}

// ConfirmOrder accepts a paid order.
//
// @Summary  Confirm payment
// @Tags     admin
// @Produce  json
// @Security BearerAuth
// @Param    code path string true "order code"
// @Success  200 {object} model.Order
// @Failure  409 {object} errorPayload
// @Router   /admin/orders/{code}/confirm [post]
func ConfirmOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		o, err := svc.Confirm(c.UserContext(), c.Params("code"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// RejectOrder rejects an order and releases its seats.
func RejectOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req reasonRequest
		if perr := parseOptionalBody(c, &req); perr != nil {
			return perr.write(c)
		}
		o, err := svc.Reject(c.UserContext(), c.Params("code"), req.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(o)
	}
}

// AdminCancelOrder cancels any open order; paid orders get a refund link.
//
// @Summary  Cancel order
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    code path string        true  "order code"
// @Param    body body reasonRequest false "reason"
// @Success  200 {object} service.CancelResult
// @Failure  409 {object} errorPayload
// @Router   /admin/orders/{code}/cancel [post]
func AdminCancelOrder(svc service.OrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req reasonRequest
		if perr := parseOptionalBody(c, &req); perr != nil {
			return perr.write(c)
		}
		res, err := svc.CancelByAdmin(c.UserContext(), c.Params("code"), req.Reason)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}
