package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/app/services"
)

type AdminTransactionHandler struct {
	reportService *services.ReportService
	ledgerService *services.LedgerService
	auditService  *services.AuditService
}

func NewAdminTransactionHandler(
	reportService *services.ReportService,
	ledgerService *services.LedgerService,
	auditService *services.AuditService,
) *AdminTransactionHandler {
	return &AdminTransactionHandler{
		reportService: reportService,
		ledgerService: ledgerService,
		auditService:  auditService,
	}
}

func (h *AdminTransactionHandler) RegisterRoutes(router fiber.Router) {
	transactionGroup := router.Group("/transactions")

	transactionGroup.Get("/", h.ListTransactions)
	transactionGroup.Get("/:id", h.GetTransaction)

	router.Post("/stock-in", h.StockIn)
	router.Get("/usage", h.UsageReport)
	router.Get("/audit", h.ListAuditLogs)
}

func parsePagination(c *fiber.Ctx, defaultLimit int) *models.PaginationRequest {
	var pagination models.PaginationRequest

	// Parse page parameter
	pageStr := c.Query("page", "1")
	if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
		pagination.Page = page
	} else {
		pagination.Page = 1
	}

	// Parse limit parameter
	limitStr := c.Query("limit", strconv.Itoa(defaultLimit))
	if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
		pagination.Limit = limit
	} else {
		pagination.Limit = defaultLimit
	}

	return &pagination
}

func (h *AdminTransactionHandler) ListTransactions(c *fiber.Ctx) error {
	pagination := parsePagination(c, 50)

	transactions, err := h.reportService.ListTransactions(pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, transactions)
}

func (h *AdminTransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id := c.Params("id")

	detail, err := h.reportService.GetTransaction(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, detail)
}

func (h *AdminTransactionHandler) StockIn(c *fiber.Ctx) error {
	var req models.StockInRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.ledgerService.RecordStockIn(&req, adminActor(c))
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.CreatedResponse(c, response)
}

// UsageReport serves the job-costing view. With format=csv the same filtered
// rows come back as a CSV download instead of JSON.
func (h *AdminTransactionHandler) UsageReport(c *fiber.Ctx) error {
	query := &models.UsageReportQuery{
		JobNumber: c.Query("job_number"),
		ItemID:    c.Query("item_id"),
		DeviceID:  c.Query("device_id"),
		DateFrom:  c.Query("date_from"),
		DateTo:    c.Query("date_to"),
	}

	if c.Query("format") == "csv" {
		data, err := h.reportService.UsageReportCSV(query)
		if err != nil {
			return pkg.ErrorResponse(c, err)
		}
		c.Set(fiber.HeaderContentType, "text/csv")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="usage-report.csv"`)
		return c.Send(data)
	}

	report, err := h.reportService.UsageReport(query)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, report)
}

func (h *AdminTransactionHandler) ListAuditLogs(c *fiber.Ctx) error {
	pagination := parsePagination(c, 10)

	logs, err := h.auditService.GetAuditLogs(pagination)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, logs)
}
