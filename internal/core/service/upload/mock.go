package upload

import (
	"context"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) InitUpload(ctx context.Context, req domain.InitUploadRequest) (*domain.UploadPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadPlan), args.Error(1)
}

func (m *MockUploadService) AcceptChunk(ctx context.Context, userID, sessionID uuid.UUID, chunkIndex int, data []byte) (*domain.ChunkReceipt, error) {
	args := m.Called(ctx, userID, sessionID, chunkIndex, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChunkReceipt), args.Error(1)
}

func (m *MockUploadService) CompleteUpload(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockUploadService) AbortUpload(ctx context.Context, userID, sessionID uuid.UUID) error {
	args := m.Called(ctx, userID, sessionID)
	return args.Error(0)
}

func (m *MockUploadService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionProgress, error) {
	args := m.Called(ctx, userID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionProgress), args.Error(1)
}

func (m *MockUploadService) DirectUpload(ctx context.Context, req domain.DirectUploadRequest) (*domain.Document, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
