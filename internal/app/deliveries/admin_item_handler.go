package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type AdminItemHandler struct {
	itemService   *services.ItemService
	ledgerService *services.LedgerService
}

func NewAdminItemHandler(itemService *services.ItemService, ledgerService *services.LedgerService) *AdminItemHandler {
	return &AdminItemHandler{
		itemService:   itemService,
		ledgerService: ledgerService,
	}
}

func (h *AdminItemHandler) RegisterRoutes(router fiber.Router) {
	itemGroup := router.Group("/items")

	itemGroup.Get("/", h.ListItems)
	itemGroup.Post("/", h.CreateItem)
	itemGroup.Get("/:id", h.GetItem)
	itemGroup.Patch("/:id", h.UpdateItem)
	itemGroup.Delete("/:id", h.DeleteItem)
	itemGroup.Post("/:id/rebuild-stock", h.RebuildStock)
}

func (h *AdminItemHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.itemService.ListItems()
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, items)
}

func (h *AdminItemHandler) GetItem(c *fiber.Ctx) error {
	id := c.Params("id")

	item, err := h.itemService.GetItem(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, item)
}

func (h *AdminItemHandler) CreateItem(c *fiber.Ctx) error {
	var req models.ItemCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	item, err := h.itemService.CreateItem(&req, adminActor(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, item)
}

func (h *AdminItemHandler) UpdateItem(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.ItemUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	item, err := h.itemService.UpdateItem(id, &req, adminActor(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, item)
}

func (h *AdminItemHandler) DeleteItem(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := h.itemService.DeleteItem(id, adminActor(c)); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, "Item deleted")
}

// RebuildStock recomputes an item's cached counter from the ledger. Without
// a body, or with apply=false, it only reports the drift.
func (h *AdminItemHandler) RebuildStock(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.StockRebuildRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return pkg.ErrorResponse(c, err)
		}
	}

	result, err := h.ledgerService.RebuildItemStock(id, req.Apply)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
