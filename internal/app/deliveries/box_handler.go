package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

// BoxHandler serves the public box lookup hit right after a QR scan.
type BoxHandler struct {
	boxService *services.BoxService
}

func NewBoxHandler(boxService *services.BoxService) *BoxHandler {
	return &BoxHandler{boxService: boxService}
}

func (h *BoxHandler) RegisterRoutes(router fiber.Router) {
	boxGroup := router.Group("/boxes")

	boxGroup.Get("/:token", h.ResolveBox)
}

func (h *BoxHandler) ResolveBox(c *fiber.Ctx) error {
	token := c.Params("token")

	box, err := h.boxService.ResolveToken(token)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, box)
}
