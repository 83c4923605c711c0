package services

import (
	"testing"
	"time"

	"github.com/stockpod/stockpod-core/internal/app/models"
)

func TestConfigDefaultsAreCreatedOnDemand(t *testing.T) {
	s := newTestServices(t)

	settings, err := s.config.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.EditWindowMinutes != models.DefaultEditWindowMinutes {
		t.Fatalf("expected default window %d, got %d", models.DefaultEditWindowMinutes, settings.EditWindowMinutes)
	}
	if settings.LowStockAlertsEnabled {
		t.Fatal("alerts must default to disabled")
	}
}

func TestUpdateSettingsValidatesWindow(t *testing.T) {
	s := newTestServices(t)

	tooBig := 2000
	if _, err := s.config.UpdateSettings(&models.SettingsUpdateRequest{
		EditWindowMinutes: &tooBig,
	}); err == nil {
		t.Fatal("expected a window above 1440 minutes to be rejected")
	}

	window := 30
	enabled := true
	email := "office@example.com"
	settings, err := s.config.UpdateSettings(&models.SettingsUpdateRequest{
		EditWindowMinutes:     &window,
		LowStockAlertsEnabled: &enabled,
		LowStockAlertEmail:    &email,
	})
	if err != nil {
		t.Fatalf("failed to update settings: %v", err)
	}
	if settings.EditWindowMinutes != 30 || !settings.LowStockAlertsEnabled || settings.LowStockAlertEmail != email {
		t.Fatalf("unexpected settings after update: %+v", settings)
	}

	// Blank email clears the recipient.
	blank := "  "
	settings, err = s.config.UpdateSettings(&models.SettingsUpdateRequest{
		LowStockAlertEmail: &blank,
	})
	if err != nil {
		t.Fatalf("failed to clear email: %v", err)
	}
	if settings.LowStockAlertEmail != "" {
		t.Fatalf("expected cleared email, got %q", settings.LowStockAlertEmail)
	}
}

func TestEditWindowRespectsConfiguredMinutes(t *testing.T) {
	s := newTestServices(t)

	window := 30
	if _, err := s.config.UpdateSettings(&models.SettingsUpdateRequest{
		EditWindowMinutes: &window,
	}); err != nil {
		t.Fatalf("failed to widen window: %v", err)
	}

	if !s.config.IsWithinEditWindow(time.Now().Add(-20 * time.Minute)) {
		t.Fatal("20 minutes ago must be inside a 30 minute window")
	}
	if s.config.IsWithinEditWindow(time.Now().Add(-40 * time.Minute)) {
		t.Fatal("40 minutes ago must be outside a 30 minute window")
	}
}
