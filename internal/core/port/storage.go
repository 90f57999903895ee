package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"
)

// ObjectStore is an interface to define blob storage interactions
type ObjectStore interface {
	PutObject(ctx context.Context, key string, data []byte, mimeType string) (string, error)
	// DeleteObject resolves the key embedded in url and removes the object
	DeleteObject(ctx context.Context, url string) error
	OpenMultipartUpload(ctx context.Context, key string, mimeType string) (string, error)
	UploadPart(ctx context.Context, key string, uploadID string, partNumber int, data []byte) (string, error)
	CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error)
	AbortMultipartUpload(ctx context.Context, key string, uploadID string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
	ObjectURL(key string) string
	KeyFromURL(url string) (string, error)
	GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error)
}
