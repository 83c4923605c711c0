package infrastructures

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	db, err := gorm.Open(postgres.Open(os.Getenv("DATABASE_URL")), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	if err := Migrate(db); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

// Migrate applies the schema and makes sure the singleton config row exists.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Item{},
		&models.Box{},
		&models.BoxItem{},
		&models.Transaction{},
		&models.TransactionEditAudit{},
		&models.ActionAudit{},
		&models.AppConfig{},
		&models.AdminUser{},
	); err != nil {
		return err
	}

	defaultConfig := models.AppConfig{
		ID:                models.AppConfigID,
		EditWindowMinutes: models.DefaultEditWindowMinutes,
	}
	return db.Where(models.AppConfig{ID: models.AppConfigID}).
		FirstOrCreate(&defaultConfig).Error
}
