package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemUnit string

const (
	ItemUnitEach  ItemUnit = "EACH"
	ItemUnitMetre ItemUnit = "METRE"
	ItemUnitBox   ItemUnit = "BOX"
)

// Item is a stocked material. CurrentStock is a cached aggregate over the
// transaction ledger; it is mutated only through the ledger write paths and
// may legitimately go negative.
type Item struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null;uniqueIndex"`
	Unit         ItemUnit  `json:"unit" gorm:"type:varchar(10);not null;default:'EACH'"`
	CurrentStock int64     `json:"current_stock" gorm:"not null;default:0"`
	MinStock     *int64    `json:"min_stock,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type ItemCreateRequest struct {
	Name     string   `json:"name" validate:"required,max=255"`
	Unit     ItemUnit `json:"unit" validate:"required,oneof=EACH METRE BOX"`
	MinStock *int64   `json:"min_stock,omitempty" validate:"omitempty,min=0"`
}

type ItemUpdateRequest struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,max=255"`
	Unit     *ItemUnit `json:"unit,omitempty" validate:"omitempty,oneof=EACH METRE BOX"`
	MinStock *int64    `json:"min_stock,omitempty" validate:"omitempty,min=0"`
	// ClearMinStock removes the threshold entirely; MinStock is ignored when set.
	ClearMinStock bool `json:"clear_min_stock,omitempty"`
}
