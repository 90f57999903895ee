package memory_test

import (
	"context"
	"errors"
	"testing"
	"vize-dostu/internal/adapters/storage/memory"
	"vize-dostu/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_MultipartAssemblesInPartOrder(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	uploadID, err := store.OpenMultipartUpload(ctx, "k", "text/plain")
	require.NoError(t, err)

	etag2, err := store.UploadPart(ctx, "k", uploadID, 2, []byte("world"))
	require.NoError(t, err)
	etag1, err := store.UploadPart(ctx, "k", uploadID, 1, []byte("hello "))
	require.NoError(t, err)

	// Act
	objectURL, err := store.CompleteMultipartUpload(ctx, "k", uploadID, []domain.UploadPart{
		{PartNumber: 1, ETag: etag1},
		{PartNumber: 2, ETag: etag2},
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "memory://objects/k", objectURL)
	data, ok := store.Object("k")
	require.True(t, ok)
	assert.Equal(t, "hello world", string(data))
	assert.Equal(t, 0, store.OpenUploads())
}

func TestStore_CompleteRejectsUnknownTag(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	uploadID, err := store.OpenMultipartUpload(ctx, "k", "text/plain")
	require.NoError(t, err)
	_, err = store.UploadPart(ctx, "k", uploadID, 1, []byte("a"))
	require.NoError(t, err)

	// Act
	_, err = store.CompleteMultipartUpload(ctx, "k", uploadID, []domain.UploadPart{{PartNumber: 1, ETag: "x"}})

	// Assert
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 1, store.OpenUploads())
}

func TestStore_FailOn(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	store.FailOn(memory.OpPutObject, errors.New("boom"))

	// Act
	_, err := store.PutObject(ctx, "k", []byte("a"), "text/plain")

	// Assert
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.Equal(t, 1, store.Calls(memory.OpPutObject))

	store.FailOn(memory.OpPutObject, nil)
	_, err = store.PutObject(ctx, "k", []byte("a"), "text/plain")
	assert.NoError(t, err)
}

func TestStore_DeleteObjectByURL(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store := memory.NewStore()
	objectURL, err := store.PutObject(ctx, "documents/u/a.pdf", []byte("%PDF-1.4"), "application/pdf")
	require.NoError(t, err)

	// Act
	err = store.DeleteObject(ctx, objectURL)

	// Assert
	require.NoError(t, err)
	_, ok := store.Object("documents/u/a.pdf")
	assert.False(t, ok)
	assert.ErrorIs(t, store.DeleteObject(ctx, "https://elsewhere/a.pdf"), domain.ErrInvalidStorageURL)
}
