package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Box is a physical container reachable through the opaque token embedded in
// its QR code. Retiring a box that still has history should flip Active off
// rather than delete the row.
type Box struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Token     string    `json:"token" gorm:"type:varchar(16);not null;uniqueIndex"`
	Label     string    `json:"label" gorm:"type:varchar(255);not null"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	BoxItems  []BoxItem `json:"box_items,omitempty" gorm:"foreignKey:BoxID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (b *Box) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// BoxItem links a box to one of the items it exposes for logging. CreatedAt
// drives the display order on the engineer form.
type BoxItem struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	BoxID     uuid.UUID `json:"box_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_box_item"`
	ItemID    uuid.UUID `json:"item_id" gorm:"type:uuid;not null;uniqueIndex:idx_box_item"`
	Item      Item      `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (bi *BoxItem) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == uuid.Nil {
		bi.ID = uuid.New()
	}
	return nil
}

type BoxCreateRequest struct {
	Label   string   `json:"label" validate:"required,max=255"`
	ItemIDs []string `json:"item_ids" validate:"required,min=1,dive,uuid"`
}

type BoxUpdateRequest struct {
	Label   *string  `json:"label,omitempty" validate:"omitempty,max=255"`
	Active  *bool    `json:"active,omitempty"`
	ItemIDs []string `json:"item_ids,omitempty" validate:"omitempty,min=1,dive,uuid"`
}

// BoxResponse is the admin-facing shape: linked items flattened out of the
// join rows.
type BoxResponse struct {
	ID     uuid.UUID `json:"id"`
	Label  string    `json:"label"`
	Token  string    `json:"token"`
	Active bool      `json:"active"`
	Items  []Item    `json:"items"`
}

func (b *Box) ToResponse() *BoxResponse {
	items := make([]Item, 0, len(b.BoxItems))
	for _, bi := range b.BoxItems {
		items = append(items, bi.Item)
	}
	return &BoxResponse{
		ID:     b.ID,
		Label:  b.Label,
		Token:  b.Token,
		Active: b.Active,
		Items:  items,
	}
}

// PublicBoxItem is what the engineer form sees after scanning a QR code.
type PublicBoxItem struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Unit string    `json:"unit"`
}

type PublicBoxResponse struct {
	Box struct {
		Label string `json:"label"`
		Token string `json:"token"`
	} `json:"box"`
	Items []PublicBoxItem `json:"items"`
	// Item is set when the box exposes exactly one item, so old clients
	// that predate multi-item boxes keep working.
	Item *PublicBoxItem `json:"item,omitempty"`
}

func (b *Box) ToPublicResponse() *PublicBoxResponse {
	resp := &PublicBoxResponse{}
	resp.Box.Label = b.Label
	resp.Box.Token = b.Token
	resp.Items = make([]PublicBoxItem, 0, len(b.BoxItems))
	for _, bi := range b.BoxItems {
		resp.Items = append(resp.Items, PublicBoxItem{
			ID:   bi.Item.ID,
			Name: bi.Item.Name,
			Unit: strings.ToLower(string(bi.Item.Unit)),
		})
	}
	if len(resp.Items) == 1 {
		resp.Item = &resp.Items[0]
	}
	return resp
}
