package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/middlewares"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type AuthHandler struct {
	authService    *services.AuthService
	authMiddleware *middlewares.AuthMiddleware
}

func NewAuthHandler(authService *services.AuthService, authMiddleware *middlewares.AuthMiddleware) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		authMiddleware: authMiddleware,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")

	authGroup.Post("/login", h.Login)
	authGroup.Patch("/password", h.authMiddleware.AuthAdmin, h.ChangePassword)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.Login(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	admin := c.Locals("admin_user").(*models.AdminUser)

	var req models.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if err := h.authService.ChangePassword(admin.ID, &req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Password updated")
}

// adminActor builds the audit actor for the admin stored by AuthAdmin.
func adminActor(c *fiber.Ctx) models.Actor {
	admin := c.Locals("admin_user").(*models.AdminUser)
	return models.AdminActor(admin.ID, admin.Email)
}
