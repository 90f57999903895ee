package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// NotificationRepository stores notifications
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) error
	ExistsSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error)
}

// Notifier is the fire-and-forget notification sink
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification)
	NotifiedSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error)
}
