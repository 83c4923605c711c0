package models

import "time"

const (
	AppConfigID = "default"

	DefaultEditWindowMinutes = 10
	MinEditWindowMinutes     = 1
	MaxEditWindowMinutes     = 1440
)

// AppConfig is the singleton configuration row (always id "default").
type AppConfig struct {
	ID                    string    `json:"id" gorm:"type:varchar(16);primaryKey"`
	EditWindowMinutes     int       `json:"edit_window_minutes" gorm:"not null;default:10"`
	LowStockAlertsEnabled bool      `json:"low_stock_alerts_enabled" gorm:"not null;default:false"`
	LowStockAlertEmail    *string   `json:"low_stock_alert_email,omitempty" gorm:"type:varchar(255)"`
	UpdatedAt             time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type SettingsResponse struct {
	EditWindowMinutes     int    `json:"edit_window_minutes"`
	LowStockAlertsEnabled bool   `json:"low_stock_alerts_enabled"`
	LowStockAlertEmail    string `json:"low_stock_alert_email"`
}

type SettingsUpdateRequest struct {
	EditWindowMinutes     *int    `json:"edit_window_minutes,omitempty" validate:"omitempty,min=1,max=1440"`
	LowStockAlertsEnabled *bool   `json:"low_stock_alerts_enabled,omitempty"`
	LowStockAlertEmail    *string `json:"low_stock_alert_email,omitempty" validate:"omitempty,max=255"`
}
