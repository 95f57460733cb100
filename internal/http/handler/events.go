package handler

import (
	"github.com/gofiber/fiber/v2"

	"ticketapi/internal/service"
)

// ListEvents lists events on sale, soonest first.
//
// @Summary  List events
// @Tags     events
// @Produce  json
// @Param    limit  query int false "page size" default(10)
// @Param    offset query int false "page offset" default(0)
// @Success  200 {object} service.EventListResult
// @Failure  400 {object} errorPayload
// @Router   /api/events [get]
func ListEvents(svc service.EventService) fiber.Handler {
	return listEvents(svc, false)
}

// AdminListEvents lists every event including closed ones.
func AdminListEvents(svc service.EventService) fiber.Handler {
	return listEvents(svc, true)
}

func listEvents(svc service.EventService, includeClosed bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, perr := parsePage(c)
		if perr != nil {
			return perr.write(c)
		}
		res, err := svc.List(c.UserContext(), limit, offset, includeClosed)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// GetEvent returns one event.
//
// @Summary  Get event
// @Tags     events
// @Produce  json
// @Param    id path string true "event id"
// @Success  200 {object} model.Event
// @Failure  404 {object} errorPayload
// @Router   /api/events/{id} [get]
func GetEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := uuidParam(c, "id")
		if perr != nil {
			return perr.write(c)
		}
		e, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// CreateEvent adds an event to the catalogue.
//
// @Summary  Create event
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body service.EventInput true "event"
// @Success  201 {object} model.Event
// @Failure  400 {object} errorPayload
// @Router   /admin/events [post]
func CreateEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.EventInput
		if perr := parseBody(c, &in); perr != nil {
			return perr.write(c)
		}
		e, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	}
}

// UpdateEvent replaces an event's editable fields.
//
// @Summary  Update event
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    id   path string true "event id"
// @Param    body body service.EventInput true "event"
// @Success  200 {object} model.Event
// @Failure  409 {object} errorPayload
// @Router   /admin/events/{id} [put]
func UpdateEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := uuidParam(c, "id")
		if perr != nil {
			return perr.write(c)
		}
		var in service.EventInput
		if perr := parseBody(c, &in); perr != nil {
			return perr.write(c)
		}
		e, err := svc.Update(c.UserContext(), id, in)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(e)
	}
}

// CloseEvent stops sales for an event.
func CloseEvent(svc service.EventService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, perr := uuidParam(c, "id")
		if perr != nil {
			return perr.write(c)
		}
		if err := svc.Close(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
