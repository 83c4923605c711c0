package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type AdminBoxHandler struct {
	boxService *services.BoxService
}

func NewAdminBoxHandler(boxService *services.BoxService) *AdminBoxHandler {
	return &AdminBoxHandler{boxService: boxService}
}

func (h *AdminBoxHandler) RegisterRoutes(router fiber.Router) {
	boxGroup := router.Group("/boxes")

	boxGroup.Get("/", h.ListBoxes)
	boxGroup.Post("/", h.CreateBox)
	boxGroup.Patch("/:id", h.UpdateBox)
	boxGroup.Delete("/:id", h.DeleteBox)
}

func (h *AdminBoxHandler) ListBoxes(c *fiber.Ctx) error {
	boxes, err := h.boxService.ListBoxes()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, boxes)
}

func (h *AdminBoxHandler) CreateBox(c *fiber.Ctx) error {
	var req models.BoxCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	box, err := h.boxService.CreateBox(&req, adminActor(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, box)
}

func (h *AdminBoxHandler) UpdateBox(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.BoxUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	box, err := h.boxService.UpdateBox(id, &req, adminActor(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, box)
}

func (h *AdminBoxHandler) DeleteBox(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.boxService.DeleteBox(id, adminActor(c)); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Box deleted")
}
