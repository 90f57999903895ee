package postgres

import (
	"context"
	"fmt"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

type sqlNotificationRepository struct {
	db SQLQuerier
}

// NewSqlNotificationRepository creates sqlNotificationRepository that implements port.NotificationRepository
func NewSqlNotificationRepository(db SQLQuerier) port.NotificationRepository {
	return &sqlNotificationRepository{db: db}
}

// Create stores a notification
func (s *sqlNotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	createdAt := notification.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `INSERT INTO notifications (id, user_id, title, message, type, reference, created_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.Type,
		notification.Reference,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting notification: %w", err)
	}
	return nil
}

// ExistsSince reports whether the same notification was raised at or after since
func (s *sqlNotificationRepository) ExistsSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE user_id = $1 AND type = $2 AND reference = $3 AND created_at >= $4
		)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, notificationType, reference, since).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
