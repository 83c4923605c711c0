package services

import (
	"bytes"
	"encoding/csv"
	goerrors "errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"gorm.io/gorm"
)

// ReportService serves the admin read side of the ledger: paginated
// transaction browsing, per-transaction history, and the usage report that
// groups USAGE entries by job number.
type ReportService struct {
	db            *gorm.DB
	auditService  *AuditService
	configService *ConfigService
}

func NewReportService(db *gorm.DB, auditService *AuditService, configService *ConfigService) *ReportService {
	return &ReportService{
		db:            db,
		auditService:  auditService,
		configService: configService,
	}
}

func (s *ReportService) ListTransactions(pagination *models.PaginationRequest) (*models.Pagination[[]models.Transaction], error) {
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.Limit < 1 {
		pagination.Limit = 50
	}

	var total int64
	if err := s.db.Model(&models.Transaction{}).Count(&total).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count transactions")
	}

	var transactions []models.Transaction
	if err := s.db.
		Preload("Item").
		Preload("Box").
		Order("created_at DESC").
		Limit(pagination.Limit).
		Offset((pagination.Page - 1) * pagination.Limit).
		Find(&transactions).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get transactions")
	}

	totalPages := int(math.Ceil(float64(total) / float64(pagination.Limit)))
	return &models.Pagination[[]models.Transaction]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(total),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      transactions,
	}, nil
}

// GetTransaction returns one ledger entry with its merged audit history.
func (s *ReportService) GetTransaction(transactionID string) (*models.TransactionDetailResponse, error) {
	txnUUID, err := parseUUID(transactionID, "transaction ID")
	if err != nil {
		return nil, err
	}

	var transaction models.Transaction
	if err := s.db.
		Preload("Item").
		Preload("Box").
		Where("id = ?", txnUUID).
		First(&transaction).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Transaction not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get transaction")
	}

	history, err := s.auditService.TransactionHistory(txnUUID)
	if err != nil {
		return nil, err
	}

	return &models.TransactionDetailResponse{
		Transaction: &transaction,
		History:     history,
	}, nil
}

// usageTransactions fetches USAGE entries matching the report filters,
// ordered so rows for the same job stay adjacent and chronological.
func (s *ReportService) usageTransactions(query *models.UsageReportQuery) ([]models.Transaction, error) {
	db := s.db.
		Preload("Item").
		Where("type = ?", models.TransactionTypeUsage)

	if job := strings.TrimSpace(query.JobNumber); job != "" {
		db = db.Where("LOWER(job_number) LIKE ?", "%"+strings.ToLower(job)+"%")
	}
	if query.ItemID != "" {
		itemUUID, err := parseUUID(query.ItemID, "item ID")
		if err != nil {
			return nil, err
		}
		db = db.Where("item_id = ?", itemUUID)
	}
	if device := strings.TrimSpace(query.DeviceID); device != "" {
		db = db.Where("device_id = ?", device)
	}
	if query.DateFrom != "" {
		from, err := time.Parse("2006-01-02", query.DateFrom)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid date_from, expected YYYY-MM-DD")
		}
		db = db.Where("created_at >= ?", from)
	}
	if query.DateTo != "" {
		to, err := time.Parse("2006-01-02", query.DateTo)
		if err != nil {
			return nil, errors.NewBadRequestError("Invalid date_to, expected YYYY-MM-DD")
		}
		db = db.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	var transactions []models.Transaction
	if err := db.Order("job_number ASC").Order("created_at ASC").Find(&transactions).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get usage transactions")
	}
	return transactions, nil
}

// UsageReport groups filtered USAGE transactions by job number with per-item
// totals and the devices that logged against each job.
func (s *ReportService) UsageReport(query *models.UsageReportQuery) (*models.UsageReportResponse, error) {
	transactions, err := s.usageTransactions(query)
	if err != nil {
		return nil, err
	}

	jobIndex := map[string]int{}
	jobs := []models.UsageJob{}
	for _, txn := range transactions {
		jobNumber := ""
		if txn.JobNumber != nil {
			jobNumber = *txn.JobNumber
		}

		idx, ok := jobIndex[jobNumber]
		if !ok {
			idx = len(jobs)
			jobIndex[jobNumber] = idx
			jobs = append(jobs, models.UsageJob{JobNumber: jobNumber})
		}
		job := &jobs[idx]

		found := false
		for i := range job.Items {
			if job.Items[i].ItemID == txn.ItemID {
				job.Items[i].TotalQty += txn.Quantity
				found = true
				break
			}
		}
		if !found {
			job.Items = append(job.Items, models.UsageJobItem{
				ItemID:   txn.ItemID,
				ItemName: txn.Item.Name,
				Unit:     txn.Item.Unit,
				TotalQty: txn.Quantity,
			})
		}

		if txn.DeviceID != nil && *txn.DeviceID != "" {
			seen := false
			for _, id := range job.DeviceIDs {
				if id == *txn.DeviceID {
					seen = true
					break
				}
			}
			if !seen {
				job.DeviceIDs = append(job.DeviceIDs, *txn.DeviceID)
			}
		}

		job.Transactions = append(job.Transactions, models.UsageEntry{
			ID:        txn.ID,
			Quantity:  txn.Quantity,
			DeviceID:  txn.DeviceID,
			CreatedAt: txn.CreatedAt,
			ItemName:  txn.Item.Name,
			Unit:      txn.Item.Unit,
		})
		job.TotalTransactions++
	}

	return &models.UsageReportResponse{
		Jobs:             jobs,
		TransactionCount: len(transactions),
	}, nil
}

// UsageReportCSV renders the filtered usage rows as a flat CSV export.
func (s *ReportService) UsageReportCSV(query *models.UsageReportQuery) ([]byte, error) {
	transactions, err := s.usageTransactions(query)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Job Number", "Item Name", "Quantity", "Unit", "Date", "Engineer"}); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to write CSV")
	}
	for _, txn := range transactions {
		jobNumber := ""
		if txn.JobNumber != nil {
			jobNumber = *txn.JobNumber
		}
		deviceID := ""
		if txn.DeviceID != nil {
			deviceID = *txn.DeviceID
		}
		record := []string{
			jobNumber,
			txn.Item.Name,
			strconv.FormatInt(txn.Quantity, 10),
			strings.ToLower(string(txn.Item.Unit)),
			txn.CreatedAt.UTC().Format(time.RFC3339),
			deviceID,
		}
		if err := w.Write(record); err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to write CSV")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to write CSV")
	}
	return buf.Bytes(), nil
}
