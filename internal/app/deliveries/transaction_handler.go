package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

// TransactionHandler serves the engineer-facing ledger endpoints. These are
// deliberately unauthenticated; access control is the QR token itself plus
// per-IP rate limiting.
type TransactionHandler struct {
	ledgerService *services.LedgerService
}

func NewTransactionHandler(ledgerService *services.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
	}
}

func (h *TransactionHandler) RegisterRoutes(router fiber.Router) {
	transactionGroup := router.Group("/transactions")

	transactionGroup.Post("/", h.RecordTransaction)
	transactionGroup.Get("/last", h.GetLastTransaction)
	transactionGroup.Patch("/:id", h.AmendTransaction)
}

func (h *TransactionHandler) RecordTransaction(c *fiber.Ctx) error {
	var req models.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.ledgerService.Record(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, response)
}

func (h *TransactionHandler) AmendTransaction(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.AmendTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.ledgerService.Amend(id, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *TransactionHandler) GetLastTransaction(c *fiber.Ctx) error {
	boxToken := c.Query("box_token")

	response, err := h.ledgerService.LastForBox(boxToken)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}
