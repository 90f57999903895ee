package document

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockDocumentService is a mock implementation of DocumentService
type MockDocumentService struct {
	mock.Mock
}

// NewMockDocumentService creates a new MockDocumentService
func NewMockDocumentService() *MockDocumentService {
	return &MockDocumentService{}
}

func (m *MockDocumentService) ListDocuments(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error) {
	args := m.Called(ctx, userID, country)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDocument(ctx context.Context, userID, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) GetDownloadURL(ctx context.Context, userID, id uuid.UUID) (string, time.Time, error) {
	args := m.Called(ctx, userID, id)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockDocumentService) SetExpiryDate(ctx context.Context, userID, id uuid.UUID, expiryDate *time.Time) (*domain.Document, error) {
	args := m.Called(ctx, userID, id, expiryDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) DeleteDocument(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
