package document_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
	"vize-dostu/internal/adapters/repository"
	"vize-dostu/internal/adapters/storage"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/document"
	"vize-dostu/internal/core/service/processing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService() (*repository.MockUnitOfWork, *storage.MockStorage, *processing.MockDispatcher, port.DocumentService) {
	mockUow := repository.NewMockUnitOfWork()
	mockStorage := storage.NewMockStorage()
	mockDispatcher := processing.NewMockDispatcher()
	service := document.NewDocumentService(mockUow, mockStorage, mockDispatcher, config.FileUploadConfig{DownloadURLTTL: time.Hour}, slog.Default())
	return mockUow, mockStorage, mockDispatcher, service
}

func TestDocumentService_GetDocument_OtherUser(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, _, _, service := newService()
	doc := &domain.Document{ID: uuid.New(), UserID: uuid.New()}
	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)

	// Act
	result, err := service.GetDocument(ctx, uuid.New(), doc.ID)

	// Assert
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentService_ListDocuments(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, _, _, service := newService()
	userID := uuid.New()
	country := "FR"
	documents := []domain.Document{{ID: uuid.New(), UserID: userID, Country: &country}}
	mockUow.GetDocumentRepoMock().On("ListByUser", ctx, userID, &country).Return(documents, nil)

	// Act
	result, err := service.ListDocuments(ctx, userID, &country)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, documents, result)
}

func TestDocumentService_GetDownloadURL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, mockStorage, _, service := newService()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, FileURL: "http://minio:9000/documents/documents/u/a.pdf"}
	expiresAt := time.Now().Add(time.Hour)

	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockStorage.On("KeyFromURL", doc.FileURL).Return("documents/u/a.pdf", nil)
	mockStorage.On("SignedURL", ctx, "documents/u/a.pdf", time.Hour).Return("http://signed", expiresAt, nil)

	// Act
	signedURL, expires, err := service.GetDownloadURL(ctx, userID, doc.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "http://signed", signedURL)
	assert.Equal(t, expiresAt, expires)
	mockStorage.AssertExpectations(t)
}

func TestDocumentService_SetExpiryDate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, _, mockDispatcher, service := newService()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, Category: "visa"}
	expiry := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)

	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockUow.GetDocumentRepoMock().On("UpdateExpiryDate", ctx, doc.ID, &expiry).Return(nil)
	mockDispatcher.On("EnqueueExpiryCheck", ctx, doc.ID).Return(errors.New("queue down"))

	// Act
	result, err := service.SetExpiryDate(ctx, userID, doc.ID, &expiry)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, result.ExpiryDate)
	assert.Equal(t, expiry, *result.ExpiryDate)
	mockDispatcher.AssertExpectations(t)
}

func TestDocumentService_SetExpiryDate_Clear(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, _, mockDispatcher, service := newService()
	userID := uuid.New()
	expiry := time.Now()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, ExpiryDate: &expiry}

	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockUow.GetDocumentRepoMock().On("UpdateExpiryDate", ctx, doc.ID, (*time.Time)(nil)).Return(nil)

	// Act
	result, err := service.SetExpiryDate(ctx, userID, doc.ID, nil)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, result.ExpiryDate)
	mockDispatcher.AssertNotCalled(t, "EnqueueExpiryCheck", mock.Anything, mock.Anything)
}

func TestDocumentService_DeleteDocument(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, mockStorage, _, service := newService()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, FileURL: "http://minio:9000/documents/documents/u/a.pdf"}

	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockUow.GetDocumentRepoMock().On("Delete", ctx, doc.ID).Return(nil)
	mockStorage.On("DeleteObject", ctx, doc.FileURL).Return(errors.New("bucket unreachable"))

	// Act
	err := service.DeleteDocument(ctx, userID, doc.ID)

	// Assert
	assert.NoError(t, err)
	mockStorage.AssertExpectations(t)
}

func TestDocumentService_DeleteDocument_RowFailureKeepsBlob(t *testing.T) {
	// Arrange
	ctx := context.Background()
	mockUow, mockStorage, _, service := newService()
	userID := uuid.New()
	doc := &domain.Document{ID: uuid.New(), UserID: userID, FileURL: "http://minio:9000/documents/documents/u/a.pdf"}
	expectedError := errors.New("database error")

	mockUow.GetDocumentRepoMock().On("FindByID", ctx, doc.ID).Return(doc, nil)
	mockUow.GetDocumentRepoMock().On("Delete", ctx, doc.ID).Return(expectedError)

	// Act
	err := service.DeleteDocument(ctx, userID, doc.ID)

	// Assert
	assert.ErrorIs(t, err, expectedError)
	mockStorage.AssertNotCalled(t, "DeleteObject", mock.Anything, mock.Anything)
}
