package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type paramError struct {
	code    string
	message string
}

func (p *paramError) write(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, p.code, p.message)
}

// parsePage reads limit and offset query parameters.
func parsePage(c *fiber.Ctx) (int, int, *paramError) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, &paramError{"INVALID_LIMIT", "invalid limit"}
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, &paramError{"INVALID_OFFSET", "invalid offset"}
	}
	return limit, offset, nil
}

// uuidParam returns the named route parameter when it is a valid UUID.
func uuidParam(c *fiber.Ctx, name string) (string, *paramError) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", &paramError{"INVALID_ID", "invalid id format"}
	}
	return id, nil
}

// parseOptionalBody decodes the body into out only when one was sent.
func parseOptionalBody(c *fiber.Ctx, out any) *paramError {
	if len(c.Body()) == 0 {
		return nil
	}
	return parseBody(c, out)
}

func parseBody(c *fiber.Ctx, out any) *paramError {
	if err := c.BodyParser(out); err != nil {
		return &paramError{"INVALID_BODY", "request body is not valid JSON"}
	}
	return nil
}
