package services

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"gorm.io/gorm"
)

type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{
		db: db,
	}
}

// LogAction appends an ActionAudit row for a mutation. Pass the caller's tx
// handle when inside a transaction so the row commits with the mutation;
// pass nil to use the service's own connection.
//
// Audit logging is fire-and-forget: a failed write is reported to the
// operational log and never propagated, so it cannot fail the parent
// operation.
func (s *AuditService) LogAction(db *gorm.DB, entityType models.EntityType, entityID uuid.UUID, action models.AuditAction, actor models.Actor, details interface{}) {
	if db == nil {
		db = s.db
	}

	var detailsJSON *string
	if details != nil {
		jsonBytes, err := json.Marshal(details)
		if err != nil {
			logrus.Errorf("audit log failed to marshal details for %s %s: %v", entityType, entityID, err)
		} else {
			strJSON := string(jsonBytes)
			detailsJSON = &strJSON
		}
	}

	audit := &models.ActionAudit{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		ActorType:  actor.Type,
		ActorID:    actor.AdminID,
		ActorEmail: actor.Email,
		DeviceID:   actor.DeviceID,
		Details:    detailsJSON,
	}

	if err := db.Create(audit).Error; err != nil {
		logrus.Errorf("audit log failed for %s %s %s: %v", action, entityType, entityID, err)
	}
}

// TransactionHistory merges the two independent audit streams for a
// transaction (ActionAudit and TransactionEditAudit) into one chronological
// view. The merge is a stable sort by timestamp so same-instant rows keep
// stream order.
func (s *AuditService) TransactionHistory(transactionID uuid.UUID) ([]models.HistoryEntry, error) {
	var actions []models.ActionAudit
	if err := s.db.
		Where("entity_type = ? AND entity_id = ?", models.EntityTypeTransaction, transactionID).
		Order("created_at ASC").
		Find(&actions).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit history")
	}

	var edits []models.TransactionEditAudit
	if err := s.db.
		Where("transaction_id = ?", transactionID).
		Order("edited_at ASC").
		Find(&edits).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get edit history")
	}

	history := make([]models.HistoryEntry, 0, len(actions)+len(edits))
	for _, a := range actions {
		history = append(history, models.HistoryEntry{
			Kind:          models.HistoryKindAction,
			Action:        a.Action,
			ActorType:     a.ActorType,
			ActorEmail:    a.ActorEmail,
			ActorDeviceID: a.DeviceID,
			Timestamp:     a.CreatedAt,
			Details:       a.Details,
		})
	}
	for _, e := range edits {
		e := e
		actorType := models.ActorTypeEngineer
		if e.ActorEmail != nil {
			actorType = models.ActorTypeAdmin
		}
		history = append(history, models.HistoryEntry{
			Kind:          models.HistoryKindEdit,
			Action:        models.AuditActionUpdate,
			ActorType:     actorType,
			ActorEmail:    e.ActorEmail,
			ActorDeviceID: e.ActorDeviceID,
			Timestamp:     e.EditedAt,
			OldQuantity:   &e.OldQuantity,
			NewQuantity:   &e.NewQuantity,
			OldJobNumber:  e.OldJobNumber,
			NewJobNumber:  e.NewJobNumber,
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Timestamp.Before(history[j].Timestamp)
	})

	return history, nil
}

// GetAuditLogs retrieves the raw action audit stream with pagination, newest
// first.
func (s *AuditService) GetAuditLogs(pagination *models.PaginationRequest) (*models.Pagination[[]models.ActionAudit], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.ActionAudit{}).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count audit logs")
	}

	var logs []models.ActionAudit
	query := s.db.Order("created_at DESC").Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.ActionAudit]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      logs,
	}, nil
}
