package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the kind of mutation being audited
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

type ActorType string

const (
	ActorTypeAdmin    ActorType = "ADMIN"
	ActorTypeEngineer ActorType = "ENGINEER"
)

type EntityType string

const (
	EntityTypeItem        EntityType = "Item"
	EntityTypeBox         EntityType = "Box"
	EntityTypeTransaction EntityType = "Transaction"
)

// Actor identifies who performed a mutation. Exactly one variant applies:
// an admin session (id + email) or an anonymous engineer device. Use the
// constructors rather than filling fields by hand.
type Actor struct {
	Type     ActorType
	AdminID  *uuid.UUID
	Email    *string
	DeviceID *string
}

func AdminActor(adminID uuid.UUID, email string) Actor {
	return Actor{
		Type:    ActorTypeAdmin,
		AdminID: &adminID,
		Email:   &email,
	}
}

func EngineerActor(deviceID *string) Actor {
	return Actor{
		Type:     ActorTypeEngineer,
		DeviceID: deviceID,
	}
}

// ActionAudit is the general-purpose append-only log: one row per mutating
// action across items, boxes and transactions. Never updated, only appended.
type ActionAudit struct {
	ID         uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	EntityType EntityType  `json:"entity_type" gorm:"type:varchar(30);not null;index:idx_action_audit_entity"`
	EntityID   uuid.UUID   `json:"entity_id" gorm:"type:uuid;not null;index:idx_action_audit_entity"`
	Action     AuditAction `json:"action" gorm:"type:varchar(10);not null"`
	ActorType  ActorType   `json:"actor_type" gorm:"type:varchar(10);not null"`
	ActorID    *uuid.UUID  `json:"actor_id,omitempty" gorm:"type:uuid"`
	ActorEmail *string     `json:"actor_email,omitempty" gorm:"type:varchar(255)"`
	DeviceID   *string     `json:"device_id,omitempty" gorm:"type:varchar(100)"`
	Details    *string     `json:"details,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time   `json:"created_at" gorm:"autoCreateTime;index"`
}

func (a *ActionAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TransactionEditAudit captures one amendment to a transaction: the full
// before/after of the editable fields. Written only by the edit-window path,
// append-only, even when the amendment changed nothing.
type TransactionEditAudit struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `json:"transaction_id" gorm:"type:uuid;not null;index"`
	OldType       TransactionType `json:"old_type" gorm:"type:varchar(12);not null"`
	NewType       TransactionType `json:"new_type" gorm:"type:varchar(12);not null"`
	OldQuantity   int64           `json:"old_quantity" gorm:"not null"`
	NewQuantity   int64           `json:"new_quantity" gorm:"not null"`
	OldJobNumber  *string         `json:"old_job_number,omitempty" gorm:"type:varchar(100)"`
	NewJobNumber  *string         `json:"new_job_number,omitempty" gorm:"type:varchar(100)"`
	OldDeviceID   *string         `json:"old_device_id,omitempty" gorm:"type:varchar(100)"`
	NewDeviceID   *string         `json:"new_device_id,omitempty" gorm:"type:varchar(100)"`
	ActorEmail    *string         `json:"actor_email,omitempty" gorm:"type:varchar(255)"`
	ActorDeviceID *string         `json:"actor_device_id,omitempty" gorm:"type:varchar(100)"`
	EditedAt      time.Time       `json:"edited_at" gorm:"autoCreateTime;index"`
}

func (a *TransactionEditAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// HistoryEntry is one event in a transaction's merged change history. The two
// audit streams carry different payloads, so entries are tagged by Kind:
// "action" rows carry Details, "edit" rows carry the before/after diff.
type HistoryEntry struct {
	Kind          string      `json:"kind"`
	Action        AuditAction `json:"action"`
	ActorType     ActorType   `json:"actor_type"`
	ActorEmail    *string     `json:"actor_email,omitempty"`
	ActorDeviceID *string     `json:"actor_device_id,omitempty"`
	Timestamp     time.Time   `json:"timestamp"`
	Details       *string     `json:"details,omitempty"`
	OldQuantity   *int64      `json:"old_quantity,omitempty"`
	NewQuantity   *int64      `json:"new_quantity,omitempty"`
	OldJobNumber  *string     `json:"old_job_number,omitempty"`
	NewJobNumber  *string     `json:"new_job_number,omitempty"`
}

const (
	HistoryKindAction = "action"
	HistoryKindEdit   = "edit"
)

// TransactionDetailResponse is the admin detail view: the transaction plus
// its merged chronological history.
type TransactionDetailResponse struct {
	Transaction *Transaction   `json:"transaction"`
	History     []HistoryEntry `json:"history"`
}
