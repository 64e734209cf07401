package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"nodex/backend/internal/dto"
	"nodex/backend/internal/model"
)

func setupTestNotificationService() (NotificationService, *mockStore) {
	store := newMockStore()
	svc := NewNotificationService(store.repo(), nil, time.Second, zap.NewNop())
	return svc, store
}

func TestNotifyPersists(t *testing.T) {
	svc, store := setupTestNotificationService()

	n, err := svc.Notify(context.Background(), NotifyParams{
		UserID:            "user-1",
		Title:             "New No Due Application",
		Message:           "A student submitted an application.",
		Type:              model.NotificationInfo,
		RelatedEntityType: "application",
		RelatedEntityID:   "app-001",
	})
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if n.ID == "" {
		t.Error("notification id not assigned")
	}
	stored := store.notifications.forUser("user-1")
	if len(stored) != 1 {
		t.Fatalf("stored notifications = %d, want 1", len(stored))
	}
	if stored[0].RelatedEntityID == nil || *stored[0].RelatedEntityID != "app-001" {
		t.Error("related entity not stored")
	}
}

func TestNotifyBulkEmpty(t *testing.T) {
	svc, store := setupTestNotificationService()

	created, err := svc.NotifyBulk(context.Background(), nil)
	if err != nil {
		t.Fatalf("NotifyBulk failed: %v", err)
	}
	if created != nil || len(store.notifications.notifications) != 0 {
		t.Error("empty fan-out must store nothing")
	}
}

func TestListRouteFollowsRole(t *testing.T) {
	svc, store := setupTestNotificationService()
	store.notifications.notifications["n-1"] = &model.Notification{
		ID: "n-1", UserID: "user-1", Title: "t", Message: "m",
		Type: model.NotificationInfo, CreatedAt: time.Now(),
	}

	list, total, err := svc.List(context.Background(), "user-1", model.RoleHOD, &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("total=%d len=%d, want 1/1", total, len(list))
	}
	if list[0].Route != "/dashboard/hod" {
		t.Errorf("route = %q, want /dashboard/hod", list[0].Route)
	}
}

func TestMarkReadOwnerOnly(t *testing.T) {
	svc, store := setupTestNotificationService()
	store.notifications.notifications["n-1"] = &model.Notification{
		ID: "n-1", UserID: "user-1", Title: "t", Message: "m", Type: model.NotificationInfo,
	}

	if err := svc.MarkRead(context.Background(), "someone-else", "n-1"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("err = %v, want ErrNotificationNotFound for foreign notification", err)
	}
	if err := svc.MarkRead(context.Background(), "user-1", "n-1"); err != nil {
		t.Fatalf("MarkRead failed: %v", err)
	}
	if !store.notifications.notifications["n-1"].Read {
		t.Error("notification not marked read")
	}
}

func TestMarkAllReadAndUnreadCount(t *testing.T) {
	svc, store := setupTestNotificationService()
	for _, id := range []string{"n-1", "n-2", "n-3"} {
		store.notifications.notifications[id] = &model.Notification{
			ID: id, UserID: "user-1", Title: "t", Message: "m", Type: model.NotificationInfo,
		}
	}
	store.notifications.notifications["n-other"] = &model.Notification{
		ID: "n-other", UserID: "user-2", Title: "t", Message: "m", Type: model.NotificationInfo,
	}

	count, err := svc.UnreadCount(context.Background(), "user-1")
	if err != nil || count != 3 {
		t.Fatalf("UnreadCount = %d (%v), want 3", count, err)
	}

	n, err := svc.MarkAllRead(context.Background(), "user-1")
	if err != nil || n != 3 {
		t.Fatalf("MarkAllRead = %d (%v), want 3", n, err)
	}
	if store.notifications.notifications["n-other"].Read {
		t.Error("other user's notification was touched")
	}
}
