package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type SettingsHandler struct {
	configService *services.ConfigService
}

func NewSettingsHandler(configService *services.ConfigService) *SettingsHandler {
	return &SettingsHandler{configService: configService}
}

func (h *SettingsHandler) RegisterRoutes(router fiber.Router) {
	settingsGroup := router.Group("/settings")

	settingsGroup.Get("/", h.GetSettings)
	settingsGroup.Patch("/", h.UpdateSettings)
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.configService.GetSettings()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, settings)
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	var req models.SettingsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	settings, err := h.configService.UpdateSettings(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, settings)
}
