package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ticketapi/internal/service"
)

type generateLinkRequest struct {
	EventID  string `json:"event_id"`
	Label    string `json:"label"`
	MaxUses  int    `json:"max_uses"`
	TTLHours int    `json:"ttl_hours"`
}

// ResolveLink shows what a purchase link grants.
//
// @Summary  Resolve purchase link
// @Tags     links
// @Produce  json
// @Param    token path string true "link token"
// @Success  200 {object} service.LinkView
// @Failure  410 {object} errorPayload
// @Router   /api/links/{token} [get]
func ResolveLink(svc service.LinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := svc.Resolve(c.UserContext(), c.Params("token"))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(v)
	}
}

// GenerateLink issues a purchase link for an event.
//
// @Summary  Generate purchase link
// @Tags     admin
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    body body generateLinkRequest true "link"
// @Success  201 {object} model.GeneratedLink
// @Router   /admin/links [post]
func GenerateLink(svc service.LinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req generateLinkRequest
		if perr := parseBody(c, &req); perr != nil {
			return perr.write(c)
		}
		if _, err := uuid.Parse(req.EventID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "event_id: must be a valid id")
		}
		l, err := svc.Generate(c.UserContext(), service.GenerateLinkInput{
			EventID: req.EventID,
			Label:   req.Label,
			MaxUses: req.MaxUses,
			TTL:     time.Duration(req.TTLHours) * time.Hour,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(l)
	}
}

// ListLinks lists the purchase links of one event (?event_id=).
func ListLinks(svc service.LinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		eventID := c.Query("event_id")
		if _, err := uuid.Parse(eventID); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "event_id query parameter must be a valid id")
		}
		links, err := svc.ListByEvent(c.UserContext(), eventID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": links})
	}
}

func RevokeLink(svc service.LinkService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := svc.Revoke(c.UserContext(), c.Params("token")); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
