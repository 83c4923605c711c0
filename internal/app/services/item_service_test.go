package services

import (
	"testing"

	goerrors "errors"

	"github.com/google/uuid"
	"github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
)

func adminTestActor() models.Actor {
	return models.AdminActor(uuid.New(), "office@example.com")
}

func TestCreateItemRejectsDuplicateName(t *testing.T) {
	s := newTestServices(t)

	if _, err := s.items.CreateItem(&models.ItemCreateRequest{
		Name: "Widget",
		Unit: models.ItemUnitEach,
	}, adminTestActor()); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}

	_, err := s.items.CreateItem(&models.ItemCreateRequest{
		Name: "Widget",
		Unit: models.ItemUnitBox,
	}, adminTestActor())
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.StatusCode != 400 {
		t.Fatalf("expected 400 for duplicate name, got %v", err)
	}
}

func TestUpdateItemClearsMinStock(t *testing.T) {
	s := newTestServices(t)
	item := createTestItem(t, s.db, "Widget", 10, ptrInt64(5))

	updated, err := s.items.UpdateItem(item.ID.String(), &models.ItemUpdateRequest{
		ClearMinStock: true,
	}, adminTestActor())
	if err != nil {
		t.Fatalf("failed to update item: %v", err)
	}
	_ = updated

	var reloaded models.Item
	if err := s.db.Where("id = ?", item.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if reloaded.MinStock != nil {
		t.Fatalf("expected min stock cleared, got %v", *reloaded.MinStock)
	}
}

func TestDeleteItemWithHistoryConflicts(t *testing.T) {
	s := newTestServices(t)
	item := createTestItem(t, s.db, "Widget", 10, nil)
	createTestBox(t, s.db, "tok-del", "Van 1", item.ID)
	recordUsage(t, s, "tok-del", 1, "J1")

	err := s.items.DeleteItem(item.ID.String(), adminTestActor())
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.StatusCode != 409 {
		t.Fatalf("expected 409 for item with history, got %v", err)
	}

	// An unused item deletes cleanly along with its box links.
	unused := createTestItem(t, s.db, "Unused", 0, nil)
	createTestBox(t, s.db, "tok-del2", "Van 2", unused.ID)
	if err := s.items.DeleteItem(unused.ID.String(), adminTestActor()); err != nil {
		t.Fatalf("failed to delete unused item: %v", err)
	}
	var links int64
	if err := s.db.Model(&models.BoxItem{}).Where("item_id = ?", unused.ID).Count(&links).Error; err != nil {
		t.Fatalf("failed to count links: %v", err)
	}
	if links != 0 {
		t.Fatalf("expected box links removed with the item, got %d", links)
	}
}
