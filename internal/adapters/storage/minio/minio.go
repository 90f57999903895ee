package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Adapter is an adapter for minio
type Adapter struct {
	client  *minio.Client
	core    *minio.Core
	config  config.MinioConfig
	baseURL *url.URL
	logger  *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	baseURL := client.EndpointURL()
	if cfg.PublicURL != "" {
		baseURL, err = url.Parse(cfg.PublicURL)
		if err != nil {
			return nil, fmt.Errorf("invalid public url: %w", err)
		}
	}

	core := minio.Core{Client: client}
	return &Adapter{client: client, config: cfg, core: &core, baseURL: baseURL, logger: logger}, nil
}

// PutObject uploads data in one request and returns its url
func (a *Adapter) PutObject(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	_, err := a.client.PutObject(ctx, a.config.BucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to put object: %w", domain.ErrStorage, err)
	}
	return a.ObjectURL(key), nil
}

// DeleteObject deletes the object a url points to
func (a *Adapter) DeleteObject(ctx context.Context, objectURL string) error {
	key, err := a.KeyFromURL(objectURL)
	if err != nil {
		return err
	}

	err = a.client.RemoveObject(ctx, a.config.BucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("%w: failed to delete object: %w", domain.ErrStorage, err)
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", key),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// OpenMultipartUpload inits a multi part upload
func (a *Adapter) OpenMultipartUpload(ctx context.Context, key string, mimeType string) (string, error) {
	uploadID, err := a.core.NewMultipartUpload(ctx, a.config.BucketName, key, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to init multipart upload: %w", domain.ErrStorage, err)
	}
	return uploadID, nil
}

// UploadPart stores one part and returns the tag the store assigned to it
func (a *Adapter) UploadPart(ctx context.Context, key string, uploadID string, partNumber int, data []byte) (string, error) {
	part, err := a.core.PutObjectPart(ctx, a.config.BucketName, key, uploadID, partNumber, bytes.NewReader(data), int64(len(data)), minio.PutObjectPartOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload part %d: %w", domain.ErrStorage, partNumber, err)
	}
	return strings.Trim(part.ETag, "\""), nil
}

// CompleteMultipartUpload marks the minio multipart as complete, parts must be ordered
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	completeParts := make([]minio.CompletePart, 0, len(parts))
	for _, part := range parts {
		completeParts = append(completeParts, minio.CompletePart{
			PartNumber: part.PartNumber,
			ETag:       strings.Trim(part.ETag, "\""),
		})
	}

	_, err := a.core.CompleteMultipartUpload(ctx, a.config.BucketName, key, uploadID, completeParts, minio.PutObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: failed to complete multipart upload: %w", domain.ErrStorage, err)
	}

	return a.ObjectURL(key), nil
}

func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	err := a.core.AbortMultipartUpload(ctx, a.config.BucketName, key, uploadID)
	if err != nil {
		return fmt.Errorf("%w: failed to abort multipart upload: %w", domain.ErrStorage, err)
	}

	a.logger.Info("multipart upload aborted",
		slog.String("fileKey", key),
		slog.String("uploadID", uploadID))

	return nil
}

// SignedURL generates a presigned URL for downloading a file
func (a *Adapter) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	presignedURL, err := a.client.PresignedGetObject(ctx, a.config.BucketName, key, ttl, nil)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: failed to generate presigned download URL: %w", domain.ErrStorage, err)
	}

	return presignedURL.String(), time.Now().Add(ttl), nil
}

// ObjectURL returns the path-style url of key
func (a *Adapter) ObjectURL(key string) string {
	return a.baseURL.JoinPath(a.config.BucketName, key).String()
}

// KeyFromURL strips the host and bucket from a path-style url
func (a *Adapter) KeyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidStorageURL, err)
	}

	base := strings.TrimSuffix(a.baseURL.Path, "/")
	path := strings.TrimPrefix(u.Path, base)
	key, found := strings.CutPrefix(path, "/"+a.config.BucketName+"/")
	if !found || key == "" {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidStorageURL, objectURL)
	}
	return key, nil
}

func (a *Adapter) GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error) {
	opts := minio.GetObjectOptions{}
	err := opts.SetRange(0, n-1)
	if err != nil {
		return nil, fmt.Errorf("failed to set range: %w", err)
	}

	object, err := a.client.GetObject(ctx, a.config.BucketName, key, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get partial object: %w", domain.ErrStorage, err)
	}
	defer object.Close()

	buffer := make([]byte, n)
	numRead, err := io.ReadFull(object, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: failed to read header bytes: %w", domain.ErrStorage, err)
	}

	return buffer[:numRead], nil
}
