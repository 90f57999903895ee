package minio_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"
	"vize-dostu/internal/adapters/storage/minio"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	testAccessKey = "minioadmin"
	testSecretKey = "minioadmin"
	testBucket    = "test-bucket"
)

func setupContainer(t *testing.T) (string, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     testAccessKey,
			"MINIO_ROOT_PASSWORD": testSecretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000"),
	}
	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err)

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	cleanup := func() {
		if err := minioContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	time.Sleep(500 * time.Millisecond) // wait for container to be up
	return endpoint, cleanup
}

func createAdapter(t *testing.T, endpoint string, ctx context.Context) *minio.Adapter {
	t.Helper()
	cfg := config.MinioConfig{
		Endpoint:   endpoint,
		AccessKey:  testAccessKey,
		SecretKey:  testSecretKey,
		BucketName: testBucket,
		UseSSL:     false,
	}

	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	adapter, err := minio.NewAdapter(ctx, cfg, discardLogger)

	require.NoError(t, err)
	require.NotNil(t, adapter)

	return adapter
}

func download(t *testing.T, signedURL string) []byte {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(signedURL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestAdapter(t *testing.T) {
	endpoint, cleanup := setupContainer(t)
	defer cleanup()
	ctx := context.Background()
	adapter := createAdapter(t, endpoint, ctx)

	t.Run("PutObject then SignedURL", func(t *testing.T) {
		// Arrange
		key := "documents/user/simple.txt"
		content := []byte("Hello, MinIO!")

		// Act
		objectURL, err := adapter.PutObject(ctx, key, content, "text/plain")
		require.NoError(t, err)
		signedURL, expiresAt, signErr := adapter.SignedURL(ctx, key, time.Hour)

		// Assert
		require.NoError(t, signErr)
		assert.Equal(t, fmt.Sprintf("http://%s/%s/%s", endpoint, testBucket, key), objectURL)
		assert.True(t, expiresAt.After(time.Now().Add(59*time.Minute)))
		assert.Equal(t, content, download(t, signedURL))
	})

	t.Run("Multipart upload with out of order parts", func(t *testing.T) {
		// Arrange
		key := "documents/user/multipart.txt"
		const partSize = 5 * 1024 * 1024
		chunks := [][]byte{
			bytes.Repeat([]byte("a"), partSize),
			bytes.Repeat([]byte("b"), partSize),
			[]byte("Final small part"),
		}

		uploadID, err := adapter.OpenMultipartUpload(ctx, key, "text/plain")
		require.NoError(t, err)
		require.NotEmpty(t, uploadID)

		// Act
		parts := make([]domain.UploadPart, len(chunks))
		for _, index := range []int{2, 0, 1} {
			etag, partErr := adapter.UploadPart(ctx, key, uploadID, index+1, chunks[index])
			require.NoError(t, partErr)
			require.NotEmpty(t, etag)
			assert.False(t, strings.Contains(etag, "\""))
			parts[index] = domain.UploadPart{PartNumber: index + 1, ETag: etag}
		}
		objectURL, err := adapter.CompleteMultipartUpload(ctx, key, uploadID, parts)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, adapter.ObjectURL(key), objectURL)
		header, err := adapter.GetHeaderBytes(ctx, key, 4)
		require.NoError(t, err)
		assert.Equal(t, []byte("aaaa"), header)
	})

	t.Run("Complete with a wrong tag fails", func(t *testing.T) {
		// Arrange
		key := "documents/user/wrong-tag.txt"
		uploadID, err := adapter.OpenMultipartUpload(ctx, key, "text/plain")
		require.NoError(t, err)
		_, err = adapter.UploadPart(ctx, key, uploadID, 1, []byte("single"))
		require.NoError(t, err)

		// Act
		_, err = adapter.CompleteMultipartUpload(ctx, key, uploadID, []domain.UploadPart{{PartNumber: 1, ETag: "synthetic-etag"}})

		// Assert
		require.ErrorIs(t, err, domain.ErrStorage)
		assert.NoError(t, adapter.AbortMultipartUpload(ctx, key, uploadID))
	})

	t.Run("DeleteObject resolves the key from the url", func(t *testing.T) {
		// Arrange
		key := "documents/user/to-delete.txt"
		objectURL, err := adapter.PutObject(ctx, key, []byte("bye"), "text/plain")
		require.NoError(t, err)

		// Act
		err = adapter.DeleteObject(ctx, objectURL)

		// Assert
		require.NoError(t, err)
		_, err = adapter.GetHeaderBytes(ctx, key, 3)
		assert.Error(t, err)
	})

	t.Run("KeyFromURL rejects urls of another bucket", func(t *testing.T) {
		// Act
		_, err := adapter.KeyFromURL(fmt.Sprintf("http://%s/other-bucket/file.txt", endpoint))

		// Assert
		assert.ErrorIs(t, err, domain.ErrInvalidStorageURL)
	})

	t.Run("GetHeaderBytes on a short object", func(t *testing.T) {
		// Arrange
		key := "documents/user/short.pdf"
		_, err := adapter.PutObject(ctx, key, []byte("%PDF"), "application/pdf")
		require.NoError(t, err)

		// Act
		header, err := adapter.GetHeaderBytes(ctx, key, 512)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF"), header)
	})
}
