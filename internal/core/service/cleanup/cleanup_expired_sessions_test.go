package cleanup_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
	"vize-dostu/internal/adapters/repository"
	"vize-dostu/internal/adapters/storage"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/service/cleanup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCleanupService_CleanupExpiredSessions_NoExpiredSessions(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	logger := slog.Default()
	service := cleanup.NewCleanupService(mockUow, mockStorage, logger)

	now := time.Now()
	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()

	mockUploadSessionRepo.On("FindAllExpired", ctx, now).Return([]domain.UploadSession{}, nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredSessions_MultipleSessions(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	logger := slog.Default()
	service := cleanup.NewCleanupService(mockUow, mockStorage, logger)

	now := time.Now()
	session1 := domain.UploadSession{
		ID:               uuid.New(),
		StorageKey:       "storage-key-1",
		ProviderUploadID: "provider-upload-id-1",
		Status:           domain.UploadSessionStatusInProgress,
	}
	session2 := domain.UploadSession{
		ID:               uuid.New(),
		StorageKey:       "storage-key-2",
		ProviderUploadID: "provider-upload-id-2",
		Status:           domain.UploadSessionStatusInProgress,
	}

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, now).Return([]domain.UploadSession{session1, session2}, nil)

	// Session 1
	mockStorage.On("AbortMultipartUpload", ctx, session1.StorageKey, session1.ProviderUploadID).Return(nil)
	mockUploadSessionRepo.On("TransitionStatus", ctx, session1.ID, domain.UploadSessionStatusInProgress, domain.UploadSessionStatusExpired).Return(nil)

	// Session 2
	mockStorage.On("AbortMultipartUpload", ctx, session2.StorageKey, session2.ProviderUploadID).Return(nil)
	mockUploadSessionRepo.On("TransitionStatus", ctx, session2.ID, domain.UploadSessionStatusInProgress, domain.UploadSessionStatusExpired).Return(nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredSessions_FailuresDoNotStopTheLoop(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	logger := slog.Default()
	service := cleanup.NewCleanupService(mockUow, mockStorage, logger)

	now := time.Now()
	session1 := domain.UploadSession{ID: uuid.New(), StorageKey: "k1", ProviderUploadID: "u1", Status: domain.UploadSessionStatusInProgress}
	session2 := domain.UploadSession{ID: uuid.New(), StorageKey: "k2", ProviderUploadID: "u2", Status: domain.UploadSessionStatusInProgress}

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, now).Return([]domain.UploadSession{session1, session2}, nil)

	mockStorage.On("AbortMultipartUpload", ctx, "k1", "u1").Return(errors.New("no such upload"))
	mockUploadSessionRepo.On("TransitionStatus", ctx, session1.ID, domain.UploadSessionStatusInProgress, domain.UploadSessionStatusExpired).
		Return(domain.ErrInvalidSessionState)
	mockStorage.On("AbortMultipartUpload", ctx, "k2", "u2").Return(nil)
	mockUploadSessionRepo.On("TransitionStatus", ctx, session2.ID, domain.UploadSessionStatusInProgress, domain.UploadSessionStatusExpired).Return(nil)

	// Act
	err := service.CleanupExpiredSessions(ctx, now)

	// Assert
	assert.NoError(t, err)
	mockUploadSessionRepo.AssertExpectations(t)
	mockStorage.AssertExpectations(t)
}

func TestCleanupService_CleanupExpiredSessions_FindAllExpiredError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	logger := slog.Default()
	service := cleanup.NewCleanupService(mockUow, mockStorage, logger)

	now := time.Now()
	expectedError := errors.New("database error")

	mockUploadSessionRepo := mockUow.GetUploadSessionRepoMock()
	mockUploadSessionRepo.On("FindAllExpired", ctx, now).Return([]domain.UploadSession{}, expectedError)

	// Act
	err := service.CleanupExpiredSessions(ctx, now)

	// Assert
	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	mockUploadSessionRepo.AssertExpectations(t)
}
