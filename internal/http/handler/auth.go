package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"ticketapi/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges the admin password for a bearer token.
//
// @Summary  Admin login
// @Tags     admin
// @Accept   json
// @Produce  json
// @Param    body body loginRequest true "credentials"
// @Success  200 {object} loginResponse
// @Failure  401 {object} errorPayload
// @Router   /admin/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if perr := parseBody(c, &req); perr != nil {
			return perr.write(c)
		}
		token, exp, err := svc.Login(req.Password)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(loginResponse{Token: token, ExpiresAt: exp})
	}
}
