package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionTypeUsage      TransactionType = "USAGE"
	TransactionTypeRestock    TransactionType = "RESTOCK"
	TransactionTypeReturn     TransactionType = "RETURN"
	TransactionTypeAdjustment TransactionType = "ADJUSTMENT"
)

// Transaction is one ledger entry. Its effect on the item's cached stock is
// applied exactly once at creation; later corrections go through the
// compensating-delta amend path, never a re-application.
type Transaction struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type      TransactionType `json:"type" gorm:"type:varchar(12);not null"`
	Quantity  int64           `json:"quantity" gorm:"not null"`
	JobNumber *string         `json:"job_number,omitempty" gorm:"type:varchar(100);index"`
	DeviceID  *string         `json:"device_id,omitempty" gorm:"type:varchar(100);index"`
	BoxID     uuid.UUID       `json:"box_id" gorm:"type:uuid;not null;index"`
	ItemID    uuid.UUID       `json:"item_id" gorm:"type:uuid;not null;index"`
	Box       Box             `json:"box,omitempty" gorm:"foreignKey:BoxID"`
	Item      Item            `json:"item,omitempty" gorm:"foreignKey:ItemID"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// StockDelta is the signed effect of a transaction on cached stock:
// USAGE decreases, RESTOCK and RETURN increase, ADJUSTMENT carries none.
func StockDelta(txnType TransactionType, quantity int64) int64 {
	switch txnType {
	case TransactionTypeUsage:
		return -quantity
	case TransactionTypeRestock, TransactionTypeReturn:
		return quantity
	default:
		return 0
	}
}

// StockWarning flags a concerning stock level after a write. NEGATIVE_STOCK
// wins over LOW_STOCK when both apply.
type StockWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	WarningCodeNegativeStock = "NEGATIVE_STOCK"
	WarningCodeLowStock      = "LOW_STOCK"
)

type RecordTransactionRequest struct {
	Type      TransactionType `json:"type" validate:"required,oneof=USAGE RESTOCK RETURN"`
	BoxToken  string          `json:"box_token" validate:"required"`
	ItemID    *string         `json:"item_id,omitempty" validate:"omitempty,uuid"`
	Quantity  float64         `json:"quantity" validate:"required,gt=0"`
	JobNumber *string         `json:"job_number,omitempty" validate:"omitempty,max=100"`
	DeviceID  *string         `json:"device_id,omitempty" validate:"omitempty,max=100"`
}

type RecordTransactionResponse struct {
	TransactionID uuid.UUID     `json:"transaction_id"`
	CreatedAt     time.Time     `json:"created_at"`
	CurrentStock  int64         `json:"current_stock"`
	Warning       *StockWarning `json:"warning,omitempty"`
}

type AmendTransactionRequest struct {
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	JobNumber *string `json:"job_number,omitempty" validate:"omitempty,max=100"`
}

type AmendTransactionResponse struct {
	CurrentStock int64         `json:"current_stock"`
	Warning      *StockWarning `json:"warning,omitempty"`
}

type StockInRequest struct {
	BoxID             string  `json:"box_id" validate:"required,uuid"`
	ItemID            string  `json:"item_id" validate:"required,uuid"`
	Quantity          float64 `json:"quantity" validate:"required,gt=0"`
	DeliveryReference *string `json:"delivery_reference,omitempty" validate:"omitempty,max=100"`
}

type StockInResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	CreatedAt     time.Time `json:"created_at"`
	Quantity      int64     `json:"quantity"`
	ItemName      string    `json:"item_name"`
	NewStock      int64     `json:"new_stock"`
	Unit          ItemUnit  `json:"unit"`
}

// LastTransactionResponse backs the engineer form's "edit my last entry"
// feature: the most recent ledger entry for a box and whether the edit
// window is still open for it.
type LastTransactionResponse struct {
	Last    *LastTransaction `json:"last"`
	CanEdit bool             `json:"can_edit"`
}

type LastTransaction struct {
	ID        uuid.UUID       `json:"id"`
	Type      TransactionType `json:"type"`
	Quantity  int64           `json:"quantity"`
	JobNumber string          `json:"job_number"`
	CreatedAt time.Time       `json:"created_at"`
	ItemName  string          `json:"item_name"`
	ItemUnit  ItemUnit        `json:"item_unit"`
}

// StockRebuildResult reports cache drift between the cached counter and the
// ledger sum for one item.
type StockRebuildResult struct {
	ItemID      uuid.UUID `json:"item_id"`
	CachedStock int64     `json:"cached_stock"`
	LedgerTotal int64     `json:"ledger_total"`
	Drift       int64     `json:"drift"`
	Applied     bool      `json:"applied"`
}

type StockRebuildRequest struct {
	Apply bool `json:"apply"`
}

// Usage report shapes (admin job-costing view and CSV export).

type UsageReportQuery struct {
	JobNumber string
	ItemID    string
	DeviceID  string
	DateFrom  string
	DateTo    string
}

type UsageJobItem struct {
	ItemID   uuid.UUID `json:"item_id"`
	ItemName string    `json:"item_name"`
	Unit     ItemUnit  `json:"unit"`
	TotalQty int64     `json:"total_qty"`
}

type UsageEntry struct {
	ID        uuid.UUID `json:"id"`
	Quantity  int64     `json:"quantity"`
	DeviceID  *string   `json:"device_id"`
	CreatedAt time.Time `json:"created_at"`
	ItemName  string    `json:"item_name"`
	Unit      ItemUnit  `json:"unit"`
}

type UsageJob struct {
	JobNumber         string         `json:"job_number"`
	Items             []UsageJobItem `json:"items"`
	DeviceIDs         []string       `json:"device_ids"`
	Transactions      []UsageEntry   `json:"transactions"`
	TotalTransactions int            `json:"total_transactions"`
}

type UsageReportResponse struct {
	Jobs             []UsageJob `json:"jobs"`
	TransactionCount int        `json:"transaction_count"`
}
