package processing_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"
	repomemory "vize-dostu/internal/adapters/repository/memory"
	storagememory "vize-dostu/internal/adapters/storage/memory"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/processing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type jobFixture struct {
	uow        port.UnitOfWork
	store      *storagememory.Store
	dispatcher *processing.MockDispatcher
	expiry     *processing.MockExpiryService
	handler    port.MessageService
}

func newJobFixture() *jobFixture {
	uow := repomemory.NewUnitOfWork(repomemory.NewStore())
	store := storagememory.NewStore()
	dispatcher := processing.NewMockDispatcher()
	expiry := processing.NewMockExpiryService()
	return &jobFixture{
		uow:        uow,
		store:      store,
		dispatcher: dispatcher,
		expiry:     expiry,
		handler:    processing.NewJobHandler(uow, store, dispatcher, expiry, slog.Default()),
	}
}

func (f *jobFixture) seedDocument(t *testing.T, fileName string, mimeType string, content []byte, expiry *time.Time) domain.Document {
	t.Helper()
	ctx := context.Background()
	key := "documents/" + uuid.NewString() + "/" + fileName
	fileURL, err := f.store.PutObject(ctx, key, content, mimeType)
	require.NoError(t, err)

	document := domain.Document{
		ID:         uuid.New(),
		UserID:     uuid.New(),
		Category:   "passport",
		FileName:   fileName,
		FileURL:    fileURL,
		SizeBytes:  int64(len(content)),
		MimeType:   mimeType,
		ExpiryDate: expiry,
	}
	require.NoError(t, f.uow.DocumentRepo().Create(ctx, document))
	return document
}

func encodeJob(t *testing.T, job domain.Job) []byte {
	t.Helper()
	data, err := json.Marshal(job)
	require.NoError(t, err)
	return data
}

func TestJobHandler_ProcessDocument(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newJobFixture()
	document := f.seedDocument(t, "scan.pdf", "application/pdf", []byte("%PDF-1.7\n%binary"), nil)

	// Act
	err := f.handler.HandleMessage(ctx, encodeJob(t, domain.Job{
		Name:       domain.JobProcessDocument,
		DocumentID: document.ID,
		Category:   document.Category,
	}))

	// Assert
	require.NoError(t, err)
	stored, err := f.uow.DocumentRepo().FindByID(ctx, document.ID)
	require.NoError(t, err)
	assert.Equal(t, true, stored.ExtractedData["processed"])
	assert.Equal(t, "application/pdf", stored.ExtractedData["detected_mime_type"])
	assert.Equal(t, false, stored.ExtractedData["mime_mismatch"])
	assert.Equal(t, "passport", stored.ExtractedData["category"])
	f.dispatcher.AssertNotCalled(t, "EnqueueExpiryCheck", mock.Anything, mock.Anything)
}

func TestJobHandler_ProcessDocument_IsIdempotent(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newJobFixture()
	expiry := time.Now().AddDate(1, 0, 0)
	document := f.seedDocument(t, "photo.png", "image/png", []byte("not really a png"), &expiry)
	payload := encodeJob(t, domain.Job{Name: domain.JobProcessDocument, DocumentID: document.ID})

	f.dispatcher.On("EnqueueExpiryCheck", ctx, document.ID).Return(nil).Twice()

	// Act
	require.NoError(t, f.handler.HandleMessage(ctx, payload))
	err := f.handler.HandleMessage(ctx, payload)

	// Assert
	require.NoError(t, err)
	stored, err := f.uow.DocumentRepo().FindByID(ctx, document.ID)
	require.NoError(t, err)
	assert.Equal(t, true, stored.ExtractedData["mime_mismatch"])
	assert.Equal(t, "text/plain", stored.ExtractedData["detected_mime_type"])
	f.dispatcher.AssertExpectations(t)
}

func TestJobHandler_ProcessDocument_StorageErrorIsRetried(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newJobFixture()
	document := f.seedDocument(t, "scan.pdf", "application/pdf", []byte("%PDF-1.7"), nil)
	f.store.FailOn(storagememory.OpGetHeaderBytes, assert.AnError)

	// Act
	err := f.handler.HandleMessage(ctx, encodeJob(t, domain.Job{Name: domain.JobProcessDocument, DocumentID: document.ID}))

	// Assert
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestJobHandler_DropsUnprocessableMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
	}{
		{name: "invalid json", payload: []byte("{not json")},
		{name: "unknown job", payload: []byte(`{"name":"resize-image","documentId":"` + uuid.NewString() + `"}`)},
		{name: "missing document", payload: []byte(`{"name":"process-document"}`)},
		{name: "deleted document", payload: []byte(`{"name":"process-document","documentId":"` + uuid.NewString() + `"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			f := newJobFixture()

			// Act
			err := f.handler.HandleMessage(context.Background(), tt.payload)

			// Assert
			assert.NoError(t, err)
		})
	}
}

func TestJobHandler_CheckExpiry(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newJobFixture()
	documentID := uuid.New()
	f.expiry.On("CheckDocument", ctx, documentID, mock.AnythingOfType("time.Time")).Return(true, nil)

	// Act
	err := f.handler.HandleMessage(ctx, encodeJob(t, domain.Job{Name: domain.JobCheckExpiry, DocumentID: documentID}))

	// Assert
	require.NoError(t, err)
	f.expiry.AssertExpectations(t)
}
