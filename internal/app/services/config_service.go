package services

import (
	"strings"
	"time"

	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
)

// ConfigService reads and mutates the singleton AppConfig row. The config is
// loaded per request rather than cached so admin changes take effect
// immediately and tests can inject arbitrary window durations.
type ConfigService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewConfigService(db *gorm.DB, validator *infrastructures.Validator) *ConfigService {
	return &ConfigService{
		db:        db,
		validator: validator,
	}
}

// Get returns the singleton config row, creating it with defaults when the
// database was provisioned without one.
func (s *ConfigService) Get() (*models.AppConfig, error) {
	config := models.AppConfig{
		ID:                models.AppConfigID,
		EditWindowMinutes: models.DefaultEditWindowMinutes,
	}
	if err := s.db.Where(models.AppConfig{ID: models.AppConfigID}).
		FirstOrCreate(&config).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load configuration")
	}
	return &config, nil
}

// EditWindowMinutes returns the admin-configured window, falling back to the
// environment default when the row is unreadable.
func (s *ConfigService) EditWindowMinutes() int {
	config, err := s.Get()
	if err != nil {
		if infrastructures.Config != nil {
			return infrastructures.Config.EditWindowFallback
		}
		return models.DefaultEditWindowMinutes
	}
	return config.EditWindowMinutes
}

// IsWithinEditWindow reports whether a transaction created at the given time
// can still be amended.
func (s *ConfigService) IsWithinEditWindow(createdAt time.Time) bool {
	window := time.Duration(s.EditWindowMinutes()) * time.Minute
	return time.Since(createdAt) <= window
}

func (s *ConfigService) GetSettings() (*models.SettingsResponse, error) {
	config, err := s.Get()
	if err != nil {
		return nil, err
	}
	return settingsResponse(config), nil
}

func (s *ConfigService) UpdateSettings(req *models.SettingsUpdateRequest) (*models.SettingsResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	config, err := s.Get()
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.EditWindowMinutes != nil {
		updates["edit_window_minutes"] = *req.EditWindowMinutes
	}
	if req.LowStockAlertsEnabled != nil {
		updates["low_stock_alerts_enabled"] = *req.LowStockAlertsEnabled
	}
	if req.LowStockAlertEmail != nil {
		trimmed := strings.TrimSpace(*req.LowStockAlertEmail)
		if trimmed == "" {
			updates["low_stock_alert_email"] = nil
		} else {
			updates["low_stock_alert_email"] = trimmed
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(config).Updates(updates).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to update configuration")
		}
	}

	config, err = s.Get()
	if err != nil {
		return nil, err
	}
	return settingsResponse(config), nil
}

func settingsResponse(config *models.AppConfig) *models.SettingsResponse {
	email := ""
	if config.LowStockAlertEmail != nil {
		email = *config.LowStockAlertEmail
	}
	return &models.SettingsResponse{
		EditWindowMinutes:     config.EditWindowMinutes,
		LowStockAlertsEnabled: config.LowStockAlertsEnabled,
		LowStockAlertEmail:    email,
	}
}
