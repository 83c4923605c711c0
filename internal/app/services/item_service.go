package services

import (
	goerrors "errors"
	"strings"

	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
)

type ItemService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewItemService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *ItemService {
	return &ItemService{
		db:           db,
		validator:    validator,
		auditService: auditService,
	}
}

func (s *ItemService) ListItems() ([]models.Item, error) {
	var items []models.Item
	if err := s.db.Order("name ASC").Find(&items).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get items")
	}
	return items, nil
}

func (s *ItemService) GetItem(itemID string) (*models.Item, error) {
	itemUUID, err := parseUUID(itemID, "item ID")
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := s.db.Where("id = ?", itemUUID).First(&item).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Item not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get item")
	}
	return &item, nil
}

func (s *ItemService) CreateItem(req *models.ItemCreateRequest, actor models.Actor) (*models.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	minStock := req.MinStock
	if minStock != nil && *minStock < 0 {
		zero := int64(0)
		minStock = &zero
	}

	item := &models.Item{
		Name:     strings.TrimSpace(req.Name),
		Unit:     req.Unit,
		MinStock: minStock,
	}
	if item.Name == "" {
		return nil, errors.NewBadRequestError("Missing fields")
	}

	if err := s.db.Create(item).Error; err != nil {
		// The only constraint on insert is the unique name.
		return nil, errors.NewBadRequestError("Item name must be unique")
	}

	s.auditService.LogAction(nil, models.EntityTypeItem, item.ID, models.AuditActionCreate, actor,
		map[string]interface{}{"name": item.Name, "unit": item.Unit})

	return item, nil
}

func (s *ItemService) UpdateItem(itemID string, req *models.ItemUpdateRequest, actor models.Actor) (*models.Item, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.NewBadRequestError("Item name cannot be empty")
		}
		updates["name"] = name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.ClearMinStock {
		updates["min_stock"] = nil
	} else if req.MinStock != nil {
		minStock := *req.MinStock
		if minStock < 0 {
			minStock = 0
		}
		updates["min_stock"] = minStock
	}

	if len(updates) > 0 {
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to update item")
		}
	}

	s.auditService.LogAction(nil, models.EntityTypeItem, item.ID, models.AuditActionUpdate, actor, updates)

	return item, nil
}

// DeleteItem removes an item that has no ledger history. Items referenced by
// transactions are protected by the foreign key and reported as a conflict.
func (s *ItemService) DeleteItem(itemID string, actor models.Actor) error {
	item, err := s.GetItem(itemID)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.Model(&models.Transaction{}).Where("item_id = ?", item.ID).Count(&refs).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to check item usage")
	}
	if refs > 0 {
		return errors.NewConflictError("Item has transaction history and cannot be deleted")
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.BoxItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(item).Error
	}); err != nil {
		return errors.NewInternalServerError(err, "Failed to delete item")
	}

	s.auditService.LogAction(nil, models.EntityTypeItem, item.ID, models.AuditActionDelete, actor,
		map[string]interface{}{"name": item.Name})

	return nil
}
