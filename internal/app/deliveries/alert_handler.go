package deliveries

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
)

type AlertHandler struct {
	alertService *services.AlertService
}

func NewAlertHandler(alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{alertService: alertService}
}

// RegisterRoutes mounts the admin alert endpoints.
func (h *AlertHandler) RegisterRoutes(router fiber.Router) {
	alertGroup := router.Group("/alerts")

	alertGroup.Get("/low-stock", h.GetLowStock)
	alertGroup.Post("/low-stock", h.SendAlert)
}

// RegisterCronRoutes mounts the scheduler-facing endpoint, authenticated by
// the shared cron secret instead of an admin session.
func (h *AlertHandler) RegisterCronRoutes(router fiber.Router) {
	router.Post("/cron/low-stock", h.CronLowStock)
}

func (h *AlertHandler) GetLowStock(c *fiber.Ctx) error {
	lowStock, err := h.alertService.GetLowStockItems()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, &models.LowStockResponse{
		LowStock: lowStock,
		Total:    len(lowStock),
	})
}

func (h *AlertHandler) SendAlert(c *fiber.Ctx) error {
	result, err := h.alertService.SendLowStockAlert(c.Context())
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}

func (h *AlertHandler) CronLowStock(c *fiber.Ctx) error {
	secret := ""
	if infrastructures.Config != nil {
		secret = infrastructures.Config.CRON_SECRET
	}
	if secret == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Cron endpoint is not configured"))
	}

	provided := c.Get("X-Cron-Secret")
	if provided == "" {
		provided = strings.Replace(c.Get("Authorization"), "Bearer ", "", 1)
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	result, err := h.alertService.SendLowStockAlert(c.Context())
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
