package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
	"gorm.io/gorm"
)

// AlertService finds items that need restocking and optionally emails the
// configured recipient. Email dispatch is best-effort: a provider failure is
// reported in the result, never as an error to the caller.
type AlertService struct {
	db            *gorm.DB
	configService *ConfigService
	resendClient  *infrastructures.ResendClient
}

func NewAlertService(db *gorm.DB, configService *ConfigService, resendClient *infrastructures.ResendClient) *AlertService {
	return &AlertService{
		db:            db,
		configService: configService,
		resendClient:  resendClient,
	}
}

// GetLowStockItems returns items at or below their minimum stock, or with
// negative stock, ordered by name.
func (s *AlertService) GetLowStockItems() ([]models.LowStockItem, error) {
	var items []models.Item
	if err := s.db.
		Where("(min_stock IS NOT NULL AND current_stock <= min_stock) OR current_stock < 0").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get low stock items")
	}

	lowStock := make([]models.LowStockItem, 0, len(items))
	for _, item := range items {
		lowStock = append(lowStock, models.LowStockItem{
			ID:           item.ID,
			Name:         item.Name,
			Unit:         item.Unit,
			CurrentStock: item.CurrentStock,
			MinStock:     item.MinStock,
		})
	}
	return lowStock, nil
}

// SendLowStockAlert checks stock levels and, when alerts are enabled and
// anything is low, emails the configured recipient.
func (s *AlertService) SendLowStockAlert(ctx context.Context) (*models.SendAlertResult, error) {
	config, err := s.configService.Get()
	if err != nil {
		return nil, err
	}

	lowStock, err := s.GetLowStockItems()
	if err != nil {
		return nil, err
	}

	result := &models.SendAlertResult{
		LowStock: lowStock,
		Total:    len(lowStock),
	}

	recipient := ""
	if config.LowStockAlertEmail != nil {
		recipient = strings.TrimSpace(*config.LowStockAlertEmail)
	}

	shouldSend := config.LowStockAlertsEnabled &&
		recipient != "" &&
		s.resendClient.Enabled() &&
		len(lowStock) > 0
	if !shouldSend {
		return result, nil
	}

	subject := fmt.Sprintf("Low stock alert: %d item(s) need attention", len(lowStock))
	rows := make([]string, 0, len(lowStock))
	for _, item := range lowStock {
		row := fmt.Sprintf("  - %s: %d %s", item.Name, item.CurrentStock, strings.ToLower(string(item.Unit)))
		if item.MinStock != nil {
			row += fmt.Sprintf(" (min %d)", *item.MinStock)
		}
		rows = append(rows, row)
	}
	body := strings.Join(rows, "\n")

	dashboardURL := "/admin"
	if infrastructures.Config != nil && infrastructures.Config.APP_BASE_URL != "" {
		dashboardURL = infrastructures.Config.APP_BASE_URL + "/admin"
	}
	html := fmt.Sprintf(
		"<p>The following items are at or below their minimum stock level:</p><pre>%s</pre><p>View the <a href=%q>Dashboard</a> to restock.</p>",
		body, dashboardURL)
	text := fmt.Sprintf("Low stock:\n%s\n\nView the Dashboard to restock.", body)

	if err := s.resendClient.SendEmail(ctx, recipient, subject, html, text); err != nil {
		infrastructures.GetLogger().Errorf("low stock alert email failed: %v", err)
		result.Error = err.Error()
		return result, nil
	}

	result.EmailSent = true
	return result, nil
}
