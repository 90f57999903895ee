package notification

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

// NewMockNotifier creates a new MockNotifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) Notify(ctx context.Context, notification domain.Notification) {
	m.Called(ctx, notification)
}

func (m *MockNotifier) NotifiedSince(ctx context.Context, userID uuid.UUID, notificationType domain.NotificationType, reference string, since time.Time) (bool, error) {
	args := m.Called(ctx, userID, notificationType, reference, since)
	return args.Bool(0), args.Error(1)
}
