package models

import "github.com/google/uuid"

// LowStockItem is an item at or below its minimum stock, or negative.
type LowStockItem struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Unit         ItemUnit  `json:"unit"`
	CurrentStock int64     `json:"current_stock"`
	MinStock     *int64    `json:"min_stock"`
}

type LowStockResponse struct {
	LowStock []LowStockItem `json:"low_stock"`
	Total    int            `json:"total"`
}

// SendAlertResult reports what the alert run found and whether the email
// went out. A dispatch failure lands in Error; it never fails the caller.
type SendAlertResult struct {
	LowStock  []LowStockItem `json:"low_stock"`
	Total     int            `json:"total"`
	EmailSent bool           `json:"email_sent"`
	Error     string         `json:"error,omitempty"`
}
