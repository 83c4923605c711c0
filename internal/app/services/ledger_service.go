package services

import (
	goerrors "errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
)

// Error codes for better client error handling
const (
	ErrCodeEditWindowExpired = "EDIT_WINDOW_EXPIRED"
	ErrCodeEditFailed        = "EDIT_FAILED"
)

// LedgerService owns every write to the stock ledger and, through it, every
// mutation of Item.CurrentStock. Each write path runs as one database
// transaction: ledger row, atomic counter increment, audit row — all or
// nothing. The counter is only ever moved with an atomic increment so
// concurrent submissions against the same item cannot lose updates.
type LedgerService struct {
	db            *gorm.DB
	validator     *infrastructures.Validator
	configService *ConfigService
	auditService  *AuditService
}

func NewLedgerService(
	db *gorm.DB,
	validator *infrastructures.Validator,
	configService *ConfigService,
	auditService *AuditService,
) *LedgerService {
	return &LedgerService{
		db:            db,
		validator:     validator,
		configService: configService,
		auditService:  auditService,
	}
}

// Helper function to parse UUID with better error handling
func parseUUID(id, fieldName string) (uuid.UUID, error) {
	parsedUUID, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.NewBadRequestError(fmt.Sprintf("Invalid %s format", fieldName))
	}
	return parsedUUID, nil
}

// floorQuantity truncates a submitted quantity toward zero and rejects
// anything that is not a positive finite number after flooring.
func floorQuantity(quantity float64) (int64, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity <= 0 {
		return 0, errors.NewBadRequestError("Quantity must be a positive number")
	}
	qty := int64(math.Floor(quantity))
	if qty <= 0 {
		return 0, errors.NewBadRequestError("Quantity must be a positive number")
	}
	return qty, nil
}

// trimToNil normalizes optional free-text fields: whitespace-only becomes nil.
func trimToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// stockWarning computes the post-write warning for an item. Negative stock
// takes priority over the low-stock threshold.
func stockWarning(item *models.Item) *models.StockWarning {
	if item.CurrentStock < 0 {
		return &models.StockWarning{
			Code:    models.WarningCodeNegativeStock,
			Message: fmt.Sprintf("%s stock is negative (%d).", item.Name, item.CurrentStock),
		}
	}
	if item.MinStock != nil && item.CurrentStock <= *item.MinStock {
		return &models.StockWarning{
			Code:    models.WarningCodeLowStock,
			Message: fmt.Sprintf("%s is low (%d).", item.Name, item.CurrentStock),
		}
	}
	return nil
}

// incrementStock applies a signed delta to the cached counter with a single
// atomic UPDATE. Read-modify-write is deliberately not used here.
func incrementStock(tx *gorm.DB, itemID uuid.UUID, delta int64) error {
	return tx.Model(&models.Item{}).
		Where("id = ?", itemID).
		UpdateColumn("current_stock", gorm.Expr("current_stock + ?", delta)).Error
}

// Record creates a stock-affecting transaction from an engineer submission
// and applies its delta to the item's cached stock atomically.
func (s *LedgerService) Record(req *models.RecordTransactionRequest) (*models.RecordTransactionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	qty, err := floorQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	jobNumber := trimToNil(req.JobNumber)
	if req.Type == models.TransactionTypeUsage && jobNumber == nil {
		return nil, errors.NewBadRequestError("Job number is required for USAGE")
	}

	// Inactive boxes are reported exactly like missing ones so the token
	// space leaks nothing.
	var box models.Box
	if err := s.db.Preload("BoxItems").Where("token = ?", req.BoxToken).First(&box).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Box not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to look up box")
	}
	if !box.Active {
		return nil, errors.NewNotFoundError("Box not found")
	}

	itemID, err := s.resolveBoxItem(&box, req.ItemID)
	if err != nil {
		return nil, err
	}

	delta := models.StockDelta(req.Type, qty)
	deviceID := trimToNil(req.DeviceID)

	var txn *models.Transaction
	var item models.Item
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txn = &models.Transaction{
			Type:      req.Type,
			Quantity:  qty,
			JobNumber: jobNumber,
			DeviceID:  deviceID,
			BoxID:     box.ID,
			ItemID:    itemID,
		}
		if err := tx.Create(txn).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to save transaction")
		}

		if delta != 0 {
			if err := incrementStock(tx, itemID, delta); err != nil {
				return errors.NewInternalServerError(err, "Failed to update stock")
			}
		}

		s.auditService.LogAction(tx, models.EntityTypeTransaction, txn.ID, models.AuditActionCreate,
			models.EngineerActor(deviceID),
			map[string]interface{}{"type": req.Type, "quantity": qty, "item_id": itemID})

		if err := tx.Where("id = ?", itemID).First(&item).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to read updated stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.RecordTransactionResponse{
		TransactionID: txn.ID,
		CreatedAt:     txn.CreatedAt,
		CurrentStock:  item.CurrentStock,
		Warning:       stockWarning(&item),
	}, nil
}

// resolveBoxItem applies the item-selection rules: a single-item box needs no
// explicit choice, a multi-item box requires one, and any explicit choice
// must be linked to the box.
func (s *LedgerService) resolveBoxItem(box *models.Box, requestedItemID *string) (uuid.UUID, error) {
	if requestedItemID != nil {
		itemUUID, err := parseUUID(*requestedItemID, "item ID")
		if err != nil {
			return uuid.Nil, err
		}
		for _, bi := range box.BoxItems {
			if bi.ItemID == itemUUID {
				return itemUUID, nil
			}
		}
		return uuid.Nil, errors.NewBadRequestError("Item is not linked to this box")
	}

	if len(box.BoxItems) == 1 {
		return box.BoxItems[0].ItemID, nil
	}
	if len(box.BoxItems) == 0 {
		return uuid.Nil, errors.NewNotFoundError("Box has no items linked")
	}
	return uuid.Nil, errors.NewBadRequestError("Item selection is required for this box")
}

// RecordStockIn books a RESTOCK delivery against a box/item pair on behalf of
// an admin, with an optional delivery reference stored as the job number.
func (s *LedgerService) RecordStockIn(req *models.StockInRequest, actor models.Actor) (*models.StockInResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	qty, err := floorQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	boxUUID, err := parseUUID(req.BoxID, "box ID")
	if err != nil {
		return nil, err
	}
	itemUUID, err := parseUUID(req.ItemID, "item ID")
	if err != nil {
		return nil, err
	}

	var box models.Box
	if err := s.db.Preload("BoxItems").Where("id = ?", boxUUID).First(&box).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Box not found or inactive")
		}
		return nil, errors.NewInternalServerError(err, "Failed to look up box")
	}
	if !box.Active {
		return nil, errors.NewNotFoundError("Box not found or inactive")
	}

	linked := false
	for _, bi := range box.BoxItems {
		if bi.ItemID == itemUUID {
			linked = true
			break
		}
	}
	if !linked {
		return nil, errors.NewBadRequestError("Item is not linked to this box")
	}

	deliveryRef := trimToNil(req.DeliveryReference)

	var txn *models.Transaction
	var item models.Item
	err = s.db.Transaction(func(tx *gorm.DB) error {
		txn = &models.Transaction{
			Type:      models.TransactionTypeRestock,
			Quantity:  qty,
			JobNumber: deliveryRef,
			BoxID:     box.ID,
			ItemID:    itemUUID,
		}
		if err := tx.Create(txn).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to record stock-in")
		}

		if err := incrementStock(tx, itemUUID, qty); err != nil {
			return errors.NewInternalServerError(err, "Failed to update stock")
		}

		s.auditService.LogAction(tx, models.EntityTypeTransaction, txn.ID, models.AuditActionCreate, actor,
			map[string]interface{}{"type": models.TransactionTypeRestock, "quantity": qty, "item_id": itemUUID})

		if err := tx.Where("id = ?", itemUUID).First(&item).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to read updated stock")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &models.StockInResponse{
		TransactionID: txn.ID,
		CreatedAt:     txn.CreatedAt,
		Quantity:      txn.Quantity,
		ItemName:      item.Name,
		NewStock:      item.CurrentStock,
		Unit:          item.Unit,
	}, nil
}

// Amend corrects the quantity and/or job number of a USAGE transaction
// within the configured edit window. The cached stock is reconciled with a
// compensating delta (newDelta - oldDelta) — never re-applied from scratch —
// and the before/after state lands in TransactionEditAudit even when nothing
// changed.
func (s *LedgerService) Amend(transactionID string, req *models.AmendTransactionRequest) (*models.AmendTransactionResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	txnUUID, err := parseUUID(transactionID, "transaction ID")
	if err != nil {
		return nil, err
	}

	qty, err := floorQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}

	var jobNumber *string
	if req.JobNumber != nil {
		jobNumber = trimToNil(req.JobNumber)
		if jobNumber == nil {
			return nil, errors.NewBadRequestError("Job number is required for USAGE")
		}
	}

	var txn models.Transaction
	if err := s.db.Where("id = ?", txnUUID).First(&txn).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Transaction not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to find transaction")
	}

	if !s.configService.IsWithinEditWindow(txn.CreatedAt) {
		return nil, errors.NewCodedError(403, ErrCodeEditWindowExpired, "Edit window has expired.")
	}

	if txn.Type != models.TransactionTypeUsage {
		return nil, errors.NewBadRequestError("Only USAGE transactions can be edited")
	}

	newJobNumber := txn.JobNumber
	if req.JobNumber != nil {
		newJobNumber = jobNumber
	}

	oldDelta := models.StockDelta(txn.Type, txn.Quantity)
	newDelta := models.StockDelta(txn.Type, qty)
	stockCorrection := newDelta - oldDelta

	var item models.Item
	err = s.db.Transaction(func(tx *gorm.DB) error {
		editAudit := &models.TransactionEditAudit{
			TransactionID: txn.ID,
			OldType:       txn.Type,
			NewType:       txn.Type,
			OldQuantity:   txn.Quantity,
			NewQuantity:   qty,
			OldJobNumber:  txn.JobNumber,
			NewJobNumber:  newJobNumber,
			OldDeviceID:   txn.DeviceID,
			NewDeviceID:   txn.DeviceID,
			ActorDeviceID: txn.DeviceID,
		}
		if err := tx.Create(editAudit).Error; err != nil {
			return fmt.Errorf("failed to record edit audit: %w", err)
		}

		updates := map[string]interface{}{"quantity": qty}
		if req.JobNumber != nil {
			updates["job_number"] = newJobNumber
		}
		if err := tx.Model(&models.Transaction{}).Where("id = ?", txn.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		// Zero correction means the stock is already right; skip the write.
		if stockCorrection != 0 {
			if err := incrementStock(tx, txn.ItemID, stockCorrection); err != nil {
				return fmt.Errorf("failed to apply stock correction: %w", err)
			}
		}

		if err := tx.Where("id = ?", txn.ItemID).First(&item).Error; err != nil {
			return fmt.Errorf("failed to read updated stock: %w", err)
		}
		return nil
	})
	if err != nil {
		var appErr *errors.AppError
		if goerrors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, errors.NewCodedError(500, ErrCodeEditFailed, "Failed to update transaction")
	}

	return &models.AmendTransactionResponse{
		CurrentStock: item.CurrentStock,
		Warning:      stockWarning(&item),
	}, nil
}

// LastForBox returns the most recent transaction logged against a box plus
// whether it can still be amended. Backs the engineer form's edit feature.
func (s *LedgerService) LastForBox(boxToken string) (*models.LastTransactionResponse, error) {
	if strings.TrimSpace(boxToken) == "" {
		return nil, errors.NewBadRequestError("Missing boxToken")
	}

	var box models.Box
	if err := s.db.Where("token = ?", boxToken).First(&box).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Box not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to look up box")
	}
	if !box.Active {
		return nil, errors.NewNotFoundError("Box not found")
	}

	var last models.Transaction
	err := s.db.Preload("Item").
		Where("box_id = ?", box.ID).
		Order("created_at DESC").
		First(&last).Error
	if err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return &models.LastTransactionResponse{Last: nil, CanEdit: false}, nil
		}
		return nil, errors.NewInternalServerError(err, "Failed to get last transaction")
	}

	jobNumber := ""
	if last.JobNumber != nil {
		jobNumber = *last.JobNumber
	}

	return &models.LastTransactionResponse{
		Last: &models.LastTransaction{
			ID:        last.ID,
			Type:      last.Type,
			Quantity:  last.Quantity,
			JobNumber: jobNumber,
			CreatedAt: last.CreatedAt,
			ItemName:  last.Item.Name,
			ItemUnit:  last.Item.Unit,
		},
		CanEdit: s.configService.IsWithinEditWindow(last.CreatedAt),
	}, nil
}

// RebuildItemStock recomputes the cached counter from the ledger (signed sum
// of all deltas for the item) and reports the drift. With apply set, the
// cache is reset to the ledger total in the same transaction. Idempotent:
// rebuilding a consistent item is a no-op.
func (s *LedgerService) RebuildItemStock(itemID string, apply bool) (*models.StockRebuildResult, error) {
	itemUUID, err := parseUUID(itemID, "item ID")
	if err != nil {
		return nil, err
	}

	var result *models.StockRebuildResult
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var item models.Item
		if err := tx.Where("id = ?", itemUUID).First(&item).Error; err != nil {
			if goerrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewNotFoundError("Item not found")
			}
			return errors.NewInternalServerError(err, "Failed to find item")
		}

		var ledgerTotal int64
		if err := tx.Model(&models.Transaction{}).
			Where("item_id = ?", itemUUID).
			Select("COALESCE(SUM(CASE WHEN type = 'USAGE' THEN -quantity WHEN type IN ('RESTOCK','RETURN') THEN quantity ELSE 0 END), 0)").
			Scan(&ledgerTotal).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to sum ledger")
		}

		drift := item.CurrentStock - ledgerTotal
		applied := false
		if apply && drift != 0 {
			if err := tx.Model(&models.Item{}).
				Where("id = ?", itemUUID).
				UpdateColumn("current_stock", ledgerTotal).Error; err != nil {
				return errors.NewInternalServerError(err, "Failed to rebuild stock")
			}
			applied = true
		}

		result = &models.StockRebuildResult{
			ItemID:      itemUUID,
			CachedStock: item.CurrentStock,
			LedgerTotal: ledgerTotal,
			Drift:       drift,
			Applied:     applied,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
