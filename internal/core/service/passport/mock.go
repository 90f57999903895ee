package passport

import (
	"context"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPassportService is a mock implementation of PassportService
type MockPassportService struct {
	mock.Mock
}

// NewMockPassportService creates a new MockPassportService
func NewMockPassportService() *MockPassportService {
	return &MockPassportService{}
}

func (m *MockPassportService) UpsertPassport(ctx context.Context, userID uuid.UUID, input domain.PassportInput) (*domain.Passport, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passport), args.Error(1)
}

func (m *MockPassportService) ListPassports(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Passport), args.Error(1)
}

func (m *MockPassportService) GetPassport(ctx context.Context, userID, id uuid.UUID) (*domain.Passport, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Passport), args.Error(1)
}

func (m *MockPassportService) DeletePassport(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
