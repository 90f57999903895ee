package processing

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

// NewMockDispatcher creates a new MockDispatcher
func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) EnqueueProcessing(ctx context.Context, documentID uuid.UUID, category string) error {
	args := m.Called(ctx, documentID, category)
	return args.Error(0)
}

func (m *MockDispatcher) EnqueueExpiryCheck(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

// MockExpiryService is a mock implementation of ExpiryService
type MockExpiryService struct {
	mock.Mock
}

// NewMockExpiryService creates a new MockExpiryService
func NewMockExpiryService() *MockExpiryService {
	return &MockExpiryService{}
}

func (m *MockExpiryService) SweepExpiring(ctx context.Context, now time.Time) (*domain.SweepResult, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

func (m *MockExpiryService) CheckDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(ctx, documentID, now)
	return args.Bool(0), args.Error(1)
}

// MockTaskQueue is a mock implementation of TaskQueue
type MockTaskQueue struct {
	mock.Mock
}

// NewMockTaskQueue creates a new MockTaskQueue
func NewMockTaskQueue() *MockTaskQueue {
	return &MockTaskQueue{}
}

func (m *MockTaskQueue) Enqueue(ctx context.Context, name domain.JobName, payload []byte) error {
	args := m.Called(ctx, name, payload)
	return args.Error(0)
}
