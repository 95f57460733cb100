package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AdminLocalKey holds the verified admin claims in Fiber's context locals.
const AdminLocalKey = "admin_claims"

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(token string) (*jwt.RegisteredClaims, error)
}

// AdminAuth rejects requests without a valid "Authorization: Bearer" token.
// Failures surface as 401 fiber errors for the global error handler.
func AdminAuth(v TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		claims, err := v.Verify(strings.TrimSpace(token))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		c.Locals(AdminLocalKey, claims)
		return c.Next()
	}
}
