package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// Adapter stores objects in an S3 bucket
type Adapter struct {
	client    *s3.Client
	presigner *s3.PresignClient
	config    config.S3Config
	baseURL   *url.URL
	logger    *slog.Logger
}

// NewAdapter loads the default aws configuration and returns Adapter
func NewAdapter(ctx context.Context, cfg config.S3Config, logger *slog.Logger) (*Adapter, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newAdapter(client, cfg, logger)
}

func newAdapter(client *s3.Client, cfg config.S3Config, logger *slog.Logger) (*Adapter, error) {
	baseURL, err := bucketBaseURL(cfg)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		client:    client,
		presigner: s3.NewPresignClient(client),
		config:    cfg,
		baseURL:   baseURL,
		logger:    logger,
	}, nil
}

// bucketBaseURL is the url every object url of the bucket starts with
func bucketBaseURL(cfg config.S3Config) (*url.URL, error) {
	if cfg.Endpoint == "" {
		return url.Parse(fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", cfg.BucketName, cfg.Region))
	}

	endpoint, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid s3 endpoint: %w", err)
	}
	if cfg.UsePathStyle {
		return endpoint.JoinPath(cfg.BucketName, "/"), nil
	}
	endpoint.Host = cfg.BucketName + "." + endpoint.Host
	return endpoint.JoinPath("/"), nil
}

// PutObject uploads data in one request and returns its url
func (a *Adapter) PutObject(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.config.BucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(mimeType),
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

	_, err = a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to delete object: %w", domain.ErrStorage, err)
	}
	return nil
}

// OpenMultipartUpload creates a multipart upload and returns its id
func (a *Adapter) OpenMultipartUpload(ctx context.Context, key string, mimeType string) (string, error) {
	out, err := a.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(a.config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to create multipart upload: %w", domain.ErrStorage, err)
	}
	return aws.ToString(out.UploadId), nil
}

// UploadPart stores one part and returns its entity tag
func (a *Adapter) UploadPart(ctx context.Context, key string, uploadID string, partNumber int, data []byte) (string, error) {
	out, err := a.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(a.config.BucketName),
		Key:           aws.String(key),
		UploadId:      aws.String(uploadID),
		PartNumber:    aws.Int32(int32(partNumber)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to upload part %d: %w", domain.ErrStorage, partNumber, err)
	}
	return strings.Trim(aws.ToString(out.ETag), "\""), nil
}

// CompleteMultipartUpload assembles the parts and returns the object url
func (a *Adapter) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	completedParts := make([]types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completedParts = append(completedParts, types.CompletedPart{
			ETag:       aws.String(fmt.Sprintf("%q", part.ETag)),
			PartNumber: aws.Int32(int32(part.PartNumber)),
		})
	}

	_, err := a.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completedParts,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to complete multipart upload: %w", domain.ErrStorage, err)
	}
	return a.ObjectURL(key), nil
}

// AbortMultipartUpload discards the stored parts, an unknown upload counts as aborted
func (a *Adapter) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	_, err := a.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(a.config.BucketName),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err == nil {
		return nil
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "NoSuchUpload" {
		a.logger.Debug("multipart upload already gone", "key", key, "upload_id", uploadID)
		return nil
	}
	return fmt.Errorf("%w: failed to abort multipart upload: %w", domain.ErrStorage, err)
}

// SignedURL returns a time limited download url
func (a *Adapter) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	presigned, err := a.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: failed to presign download: %w", domain.ErrStorage, err)
	}
	return presigned.URL, expiresAt, nil
}

// ObjectURL returns the permanent url of key
func (a *Adapter) ObjectURL(key string) string {
	return a.baseURL.JoinPath(key).String()
}

// KeyFromURL extracts the object key from a url returned by ObjectURL
func (a *Adapter) KeyFromURL(objectURL string) (string, error) {
	parsed, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidStorageURL, err)
	}
	if parsed.Host != a.baseURL.Host {
		return "", fmt.Errorf("%w: unexpected host %q", domain.ErrInvalidStorageURL, parsed.Host)
	}

	key, found := strings.CutPrefix(parsed.Path, a.baseURL.Path)
	if !found || key == "" {
		return "", fmt.Errorf("%w: %q is not an object of bucket %s", domain.ErrInvalidStorageURL, objectURL, a.config.BucketName)
	}
	return key, nil
}

// GetHeaderBytes reads the first n bytes of an object
func (a *Adapter) GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error) {
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.config.BucketName),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=0-%d", n-1)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: object %s does not exist", domain.ErrStorage, key)
		}
		return nil, fmt.Errorf("%w: failed to get object: %w", domain.ErrStorage, err)
	}
	defer out.Body.Close()

	header, err := io.ReadAll(io.LimitReader(out.Body, n))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read object header: %w", domain.ErrStorage, err)
	}
	return header, nil
}
