package middleware

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

type verifierFunc func(string) (*jwt.RegisteredClaims, error)

func (f verifierFunc) Verify(token string) (*jwt.RegisteredClaims, error) { return f(token) }

func TestAdminAuth(t *testing.T) {
	v := verifierFunc(func(token string) (*jwt.RegisteredClaims, error) {
		if token == "good" {
			return &jwt.RegisteredClaims{Subject: "admin"}, nil
		}
		return nil, errors.New("bad token")
	})

	app := fiber.New()
	app.Use(AdminAuth(v))
	app.Get("/admin/orders", func(c *fiber.Ctx) error {
		claims := c.Locals(AdminLocalKey).(*jwt.RegisteredClaims)
		return c.SendString(claims.Subject)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid", header: "Bearer good", want: fiber.StatusOK},
		{name: "scheme is case-insensitive", header: "bearer good", want: fiber.StatusOK},
		{name: "missing header", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", want: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: fiber.StatusUnauthorized},
		{name: "rejected token", header: "Bearer forged", want: fiber.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin/orders", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, _ := app.Test(req)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}
