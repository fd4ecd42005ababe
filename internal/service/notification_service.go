package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"smart-erp/internal/event"
	"smart-erp/internal/model"
	"smart-erp/pkg/apierror"
)

type NotificationStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	FindByID(ctx context.Context, id string) (model.Notification, error)
	Create(ctx context.Context, n model.Notification) error
	MarkRead(ctx context.Context, id string) (model.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type NotificationService struct {
	store NotificationStore
	bus   event.Bus
}

func NewNotificationService(store NotificationStore, bus event.Bus) *NotificationService {
	return &NotificationService{store: store, bus: bus}
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]model.Notification, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, notificationID string) (model.Notification, error) {
	notification, err := s.store.FindByID(ctx, notificationID)
	if errors.Is(err, model.ErrNotificationNotFound) {
		return model.Notification{}, apierror.NotFound("notification not found", notificationID)
	}
	if err != nil {
		return model.Notification{}, err
	}

	// Ownership check happens before the write so a foreign id never
	// mutates state.
	if notification.UserID != userID {
		return model.Notification{}, apierror.Forbidden("notification belongs to another account")
	}

	updated, err := s.store.MarkRead(ctx, notificationID)
	if err != nil {
		return model.Notification{}, err
	}

	s.publish(event.TypeNotificationRead, userID, updated)
	return updated, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	updated, err := s.store.MarkAllRead(ctx, userID)
	if err != nil {
		return err
	}

	if updated > 0 {
		s.publish(event.TypeNotificationAllRead, userID, nil)
	}
	return nil
}

// Notify appends a notification to the account's feed and pushes it to any
// connected clients. Other modules call this as a side effect of their own
// operations.
func (s *NotificationService) Notify(ctx context.Context, userID string, kind string, title string, message string) (model.Notification, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		kind = model.NotificationInfo
	}
	if !model.ValidNotificationKind(kind) {
		return model.Notification{}, apierror.BadRequest("invalid notification type", kind)
	}
	if strings.TrimSpace(title) == "" || strings.TrimSpace(message) == "" {
		return model.Notification{}, apierror.BadRequest("title and message are required", "")
	}

	notification := model.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Create(ctx, notification); err != nil {
		return model.Notification{}, err
	}

	s.publish(event.TypeNotificationCreated, userID, notification)
	return notification, nil
}

func (s *NotificationService) publish(eventType event.Type, ownerID string, payload any) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		OwnerID:   ownerID,
	})
}
