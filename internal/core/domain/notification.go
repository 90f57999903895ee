package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReminderWindow is the period during which a reminder for one subject is not repeated
const ReminderWindow = 7 * 24 * time.Hour

// NotificationType represents the kind of a notification
type NotificationType string

const (
	NotificationTypeApplicationUpdate   NotificationType = "APPLICATION_UPDATE"
	NotificationTypeDocumentWarning     NotificationType = "DOCUMENT_WARNING"
	NotificationTypeAppointmentReminder NotificationType = "APPOINTMENT_REMINDER"
)

// Notification represents a message addressed to a user
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      NotificationType
	Reference string
	CreatedAt time.Time
}

// DocumentReference is the de-duplication subject of a document reminder
func DocumentReference(id uuid.UUID) string {
	return fmt.Sprintf("document:%s", id)
}

// PassportReference is the de-duplication subject of a passport reminder
func PassportReference(id uuid.UUID) string {
	return fmt.Sprintf("passport:%s", id)
}
