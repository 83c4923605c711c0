package services

import (
	goerrors "errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/app/pkg"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
)

type BoxService struct {
	db           *gorm.DB
	validator    *infrastructures.Validator
	auditService *AuditService
}

func NewBoxService(db *gorm.DB, validator *infrastructures.Validator, auditService *AuditService) *BoxService {
	return &BoxService{
		db:           db,
		validator:    validator,
		auditService: auditService,
	}
}

// preloadItems loads the box's linked items in the order they were attached,
// which is the order the engineer form shows them in.
func preloadItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("BoxItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("box_items.created_at ASC")
		}).
		Preload("BoxItems.Item")
}

// ResolveToken looks up a box by its QR token for the engineer flow. Missing,
// inactive and item-less boxes are all reported as not found.
func (s *BoxService) ResolveToken(token string) (*models.PublicBoxResponse, error) {
	var box models.Box
	if err := preloadItems(s.db).Where("token = ?", token).First(&box).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Box not found. Ask the office to check the QR/box setup.")
		}
		return nil, errors.NewInternalServerError(err, "Failed to look up box")
	}
	if !box.Active {
		return nil, errors.NewNotFoundError("Box not found. Ask the office to check the QR/box setup.")
	}
	if len(box.BoxItems) == 0 {
		return nil, errors.NewNotFoundError("Box has no items linked. Ask the office to link items.")
	}
	return box.ToPublicResponse(), nil
}

func (s *BoxService) ListBoxes() ([]*models.BoxResponse, error) {
	var boxes []models.Box
	if err := preloadItems(s.db).Order("label ASC").Find(&boxes).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get boxes")
	}

	responses := make([]*models.BoxResponse, 0, len(boxes))
	for i := range boxes {
		responses = append(responses, boxes[i].ToResponse())
	}
	return responses, nil
}

func (s *BoxService) getBox(boxID string) (*models.Box, error) {
	boxUUID, err := parseUUID(boxID, "box ID")
	if err != nil {
		return nil, err
	}

	var box models.Box
	if err := preloadItems(s.db).Where("id = ?", boxUUID).First(&box).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewNotFoundError("Box not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get box")
	}
	return &box, nil
}

func (s *BoxService) CreateBox(req *models.BoxCreateRequest, actor models.Actor) (*models.BoxResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	label := strings.TrimSpace(req.Label)
	if label == "" {
		return nil, errors.NewBadRequestError("Missing or invalid label")
	}

	itemIDs, err := parseItemIDs(req.ItemIDs)
	if err != nil {
		return nil, err
	}

	token, err := pkg.NewBoxToken()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to generate box token")
	}

	box := &models.Box{
		Token:  token,
		Label:  label,
		Active: true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(box).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create box")
		}
		for _, itemID := range itemIDs {
			if err := tx.Create(&models.BoxItem{BoxID: box.ID, ItemID: itemID}).Error; err != nil {
				return errors.NewBadRequestError("One or more items do not exist")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.auditService.LogAction(nil, models.EntityTypeBox, box.ID, models.AuditActionCreate, actor,
		map[string]interface{}{"label": box.Label, "token": box.Token})

	return s.reload(box.ID)
}

func (s *BoxService) UpdateBox(boxID string, req *models.BoxUpdateRequest, actor models.Actor) (*models.BoxResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	box, err := s.getBox(boxID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Label != nil {
		label := strings.TrimSpace(*req.Label)
		if label != "" {
			updates["label"] = label
		}
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	var itemIDs []uuid.UUID
	if len(req.ItemIDs) > 0 {
		itemIDs, err = parseItemIDs(req.ItemIDs)
		if err != nil {
			return nil, err
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(box).Updates(updates).Error; err != nil {
				return errors.NewInternalServerError(err, "Failed to update box")
			}
		}
		if len(itemIDs) > 0 {
			if err := tx.Where("box_id = ?", box.ID).Delete(&models.BoxItem{}).Error; err != nil {
				return errors.NewInternalServerError(err, "Failed to relink items")
			}
			for _, itemID := range itemIDs {
				if err := tx.Create(&models.BoxItem{BoxID: box.ID, ItemID: itemID}).Error; err != nil {
					return errors.NewBadRequestError("One or more items do not exist")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	auditDetails := map[string]interface{}{}
	for k, v := range updates {
		auditDetails[k] = v
	}
	if len(itemIDs) > 0 {
		auditDetails["item_ids"] = itemIDs
	}
	s.auditService.LogAction(nil, models.EntityTypeBox, box.ID, models.AuditActionUpdate, actor, auditDetails)

	return s.reload(box.ID)
}

// DeleteBox removes a box with no ledger history. Boxes that transactions
// reference should be deactivated instead, and deletion reports a conflict.
func (s *BoxService) DeleteBox(boxID string, actor models.Actor) error {
	box, err := s.getBox(boxID)
	if err != nil {
		return err
	}

	var refs int64
	if err := s.db.Model(&models.Transaction{}).Where("box_id = ?", box.ID).Count(&refs).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to check box usage")
	}
	if refs > 0 {
		return errors.NewConflictError("Box has transaction history. Deactivate it instead.")
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("box_id = ?", box.ID).Delete(&models.BoxItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(box).Error
	}); err != nil {
		return errors.NewInternalServerError(err, "Failed to delete box")
	}

	s.auditService.LogAction(nil, models.EntityTypeBox, box.ID, models.AuditActionDelete, actor,
		map[string]interface{}{"label": box.Label})

	return nil
}

func (s *BoxService) reload(boxID uuid.UUID) (*models.BoxResponse, error) {
	var box models.Box
	if err := preloadItems(s.db).Where("id = ?", boxID).First(&box).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to reload box")
	}
	return box.ToResponse(), nil
}

func parseItemIDs(ids []string) ([]uuid.UUID, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		itemUUID, err := parseUUID(id, "item ID")
		if err != nil {
			return nil, err
		}
		if seen[itemUUID] {
			continue
		}
		seen[itemUUID] = true
		parsed = append(parsed, itemUUID)
	}
	if len(parsed) == 0 {
		return nil, errors.NewBadRequestError("At least one item is required")
	}
	return parsed, nil
}
