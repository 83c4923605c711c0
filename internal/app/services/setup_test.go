package services

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testServices bundles the full service graph over a throwaway database.
type testServices struct {
	db     *gorm.DB
	audit  *AuditService
	config *ConfigService
	ledger *LedgerService
	items  *ItemService
	boxes  *BoxService
	report *ReportService
	auth   *AuthService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	if infrastructures.Config == nil {
		infrastructures.Config = &infrastructures.AppConfig{
			JWT_SECRET:         "test-secret",
			EditWindowFallback: 10,
		}
	}

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := infrastructures.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	validator := infrastructures.NewValidator()
	audit := NewAuditService(db)
	config := NewConfigService(db, validator)
	return &testServices{
		db:     db,
		audit:  audit,
		config: config,
		ledger: NewLedgerService(db, validator, config, audit),
		items:  NewItemService(db, validator, audit),
		boxes:  NewBoxService(db, validator, audit),
		report: NewReportService(db, audit, config),
		auth:   NewAuthService(db, validator),
	}
}

func createTestItem(t *testing.T, db *gorm.DB, name string, stock int64, minStock *int64) *models.Item {
	t.Helper()
	item := &models.Item{
		Name:         name,
		Unit:         models.ItemUnitEach,
		CurrentStock: stock,
		MinStock:     minStock,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

func createTestBox(t *testing.T, db *gorm.DB, token, label string, itemIDs ...uuid.UUID) *models.Box {
	t.Helper()
	box := &models.Box{
		Token:  token,
		Label:  label,
		Active: true,
	}
	if err := db.Create(box).Error; err != nil {
		t.Fatalf("failed to create box %s: %v", label, err)
	}
	for _, itemID := range itemIDs {
		if err := db.Create(&models.BoxItem{BoxID: box.ID, ItemID: itemID}).Error; err != nil {
			t.Fatalf("failed to link item to box %s: %v", label, err)
		}
	}
	return box
}

func currentStock(t *testing.T, db *gorm.DB, itemID uuid.UUID) int64 {
	t.Helper()
	var item models.Item
	if err := db.Where("id = ?", itemID).First(&item).Error; err != nil {
		t.Fatalf("failed to read item: %v", err)
	}
	return item.CurrentStock
}

func ptrInt64(v int64) *int64 { return &v }

func ptrString(v string) *string { return &v }
