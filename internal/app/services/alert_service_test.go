package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stockpod/stockpod-core/internal/app/models"
	"github.com/stockpod/stockpod-core/internal/infrastructures"
)

func newTestAlertService(t *testing.T, s *testServices, handler http.HandlerFunc) (*AlertService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	resend := &infrastructures.ResendClient{
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
		BaseURL:    server.URL,
		APIKey:     "re_test_key",
		FromEmail:  "alerts@example.com",
	}
	return NewAlertService(s.db, s.config, resend), server
}

func enableAlerts(t *testing.T, s *testServices, email string) {
	t.Helper()
	enabled := true
	if _, err := s.config.UpdateSettings(&models.SettingsUpdateRequest{
		LowStockAlertsEnabled: &enabled,
		LowStockAlertEmail:    &email,
	}); err != nil {
		t.Fatalf("failed to enable alerts: %v", err)
	}
}

func TestGetLowStockItemsSelectsThresholdAndNegative(t *testing.T) {
	s := newTestServices(t)
	createTestItem(t, s.db, "Healthy", 50, ptrInt64(5))
	low := createTestItem(t, s.db, "Low", 3, ptrInt64(5))
	negative := createTestItem(t, s.db, "Negative", -2, nil)
	createTestItem(t, s.db, "NoThreshold", 1, nil)

	alerts, _ := newTestAlertService(t, s, func(w http.ResponseWriter, r *http.Request) {})
	items, err := alerts.GetLowStockItems()
	if err != nil {
		t.Fatalf("failed to get low stock items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected Low and Negative only, got %d items", len(items))
	}
	if items[0].ID != low.ID || items[1].ID != negative.ID {
		t.Fatalf("expected name-ordered [Low, Negative], got %+v", items)
	}
}

func TestSendLowStockAlertEmailsWhenEnabled(t *testing.T) {
	s := newTestServices(t)
	createTestItem(t, s.db, "Low", 1, ptrInt64(5))
	enableAlerts(t, s, "office@example.com")

	var received struct {
		To      []string `json:"to"`
		Subject string   `json:"subject"`
	}
	called := false
	alerts, _ := newTestAlertService(t, s, func(w http.ResponseWriter, r *http.Request) {
		called = true
		if r.URL.Path != "/emails" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer re_test_key" {
			t.Errorf("unexpected authorization header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode email payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})

	result, err := alerts.SendLowStockAlert(context.Background())
	if err != nil {
		t.Fatalf("failed to send alert: %v", err)
	}
	if !called {
		t.Fatal("expected the email provider to be called")
	}
	if !result.EmailSent || result.Total != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(received.To) != 1 || received.To[0] != "office@example.com" {
		t.Fatalf("unexpected recipient: %v", received.To)
	}
	if received.Subject != "Low stock alert: 1 item(s) need attention" {
		t.Fatalf("unexpected subject: %q", received.Subject)
	}
}

func TestSendLowStockAlertSkipsWhenDisabledOrHealthy(t *testing.T) {
	s := newTestServices(t)
	createTestItem(t, s.db, "Low", 1, ptrInt64(5))

	called := false
	alerts, _ := newTestAlertService(t, s, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// Alerts disabled.
	result, err := alerts.SendLowStockAlert(context.Background())
	if err != nil {
		t.Fatalf("failed to run alert check: %v", err)
	}
	if result.EmailSent || called {
		t.Fatal("disabled alerts must not email")
	}
	if result.Total != 1 {
		t.Fatalf("the check must still report low stock, got %d", result.Total)
	}

	// Enabled but nothing low.
	enableAlerts(t, s, "office@example.com")
	if err := s.db.Model(&models.Item{}).Where("name = ?", "Low").
		UpdateColumn("current_stock", 50).Error; err != nil {
		t.Fatalf("failed to restock item: %v", err)
	}
	result, err = alerts.SendLowStockAlert(context.Background())
	if err != nil {
		t.Fatalf("failed to run alert check: %v", err)
	}
	if result.EmailSent || called || result.Total != 0 {
		t.Fatalf("healthy stock must not email, got %+v", result)
	}
}

func TestSendLowStockAlertSurvivesProviderFailure(t *testing.T) {
	s := newTestServices(t)
	createTestItem(t, s.db, "Low", 1, ptrInt64(5))
	enableAlerts(t, s, "office@example.com")

	alerts, _ := newTestAlertService(t, s, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	result, err := alerts.SendLowStockAlert(context.Background())
	if err != nil {
		t.Fatalf("provider failure must not fail the caller: %v", err)
	}
	if result.EmailSent {
		t.Fatal("failed dispatch must not be reported as sent")
	}
	if result.Error == "" {
		t.Fatal("expected the provider error in the result")
	}
}
