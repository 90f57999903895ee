package storage

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) PutObject(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	args := m.Called(ctx, key, data, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func (m *MockStorage) OpenMultipartUpload(ctx context.Context, key string, mimeType string) (string, error) {
	args := m.Called(ctx, key, mimeType)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) UploadPart(ctx context.Context, key string, uploadID string, partNumber int, data []byte) (string, error) {
	args := m.Called(ctx, key, uploadID, partNumber, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	args := m.Called(ctx, key, uploadID, parts)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	args := m.Called(ctx, key, uploadID)
	return args.Error(0)
}

func (m *MockStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockStorage) ObjectURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStorage) KeyFromURL(url string) (string, error) {
	args := m.Called(url)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) GetHeaderBytes(ctx context.Context, key string, n int64) ([]byte, error) {
	args := m.Called(ctx, key, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
