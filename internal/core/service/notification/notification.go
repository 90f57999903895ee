package notification

import (
	"context"
	"log/slog"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

type notifier struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewNotifier creates a notifier writing to the notification table
func NewNotifier(uow port.UnitOfWork, logger *slog.Logger) port.Notifier {
	return &notifier{uow: uow, logger: logger}
}

// Notify stores the notification, failures are logged and never returned
func (n *notifier) Notify(ctx context.Context, notification domain.Notification) {
	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}

	if err := n.uow.NotificationRepo().Create(ctx, notification); err != nil {
		n.logger.ErrorContext(ctx, "failed to store notification",
			"user_id", notification.UserID,
			"type", notification.Type,
			"reference", notification.Reference,
			"error", err)
		return
	}
	n.logger.DebugContext(ctx, "notification stored", "user_id", notification.UserID, "type", notification.Type)
}

// NotifiedSince reports whether the same reminder was already sent after since
func (n *notifier) NotifiedSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error) {
	return n.uow.NotificationRepo().ExistsSince(ctx, userID, notificationType, reference, since)
}
