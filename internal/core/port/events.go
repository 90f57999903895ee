package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// EventConsumer is an interface to define an event consumer (kafka, nats, ...)
type EventConsumer interface {
	Subscribe(ctx context.Context, handler MessageService) error
	Close() error
}

// MessageService is an interface to define message handling
type MessageService interface {
	HandleMessage(ctx context.Context, data []byte) error
}

// TaskQueue publishes background jobs with at-least-once delivery
type TaskQueue interface {
	Enqueue(ctx context.Context, name domain.JobName, payload []byte) error
}

// Dispatcher hands documents over to background processing
type Dispatcher interface {
	EnqueueProcessing(ctx context.Context, documentID uuid.UUID, category string) error
	EnqueueExpiryCheck(ctx context.Context, documentID uuid.UUID) error
}

// ExpiryService raises reminders for expiring documents and passports
type ExpiryService interface {
	SweepExpiring(ctx context.Context, now time.Time) (*domain.SweepResult, error)
	CheckDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error)
}
