package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// AuthAdmin verifies the Bearer session token and stores the admin user in
// the request locals.
func (m *AuthMiddleware) AuthAdmin(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}
	token = strings.Replace(token, "Bearer ", "", 1)

	claims, err := m.authService.ValidateToken(token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	admin, err := m.authService.GetAdmin(claims.AdminID)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	c.Locals("admin_user", admin)

	return c.Next()
}
