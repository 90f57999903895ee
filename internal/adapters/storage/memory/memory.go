package memory

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// Operation names accepted by FailOn
const (
	OpPutObject       = "PutObject"
	OpDeleteObject    = "DeleteObject"
	OpOpenMultipart   = "OpenMultipartUpload"
	OpUploadPart      = "UploadPart"
	OpCompleteUpload  = "CompleteMultipartUpload"
	OpAbortUpload     = "AbortMultipartUpload"
	OpSignedURL       = "SignedURL"
	OpGetHeaderBytes  = "GetHeaderBytes"
	baseURL           = "memory://objects/"
	signedURLTemplate = "memory://signed/%s?expires=%d"
)

type multipartUpload struct {
	key      string
	mimeType string
	parts    map[int][]byte
	etags    map[int]string
}

// Store is an in-process object store used by tests and local runs
type Store struct {
	mu       sync.Mutex
	objects  map[string][]byte
	uploads  map[string]*multipartUpload
	failures map[string]error
	calls    map[string]int
}

// NewStore returns an empty Store
func NewStore() *Store {
	return &Store{
		objects:  make(map[string][]byte),
		uploads:  make(map[string]*multipartUpload),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// FailOn makes every later call of op return err, a nil err clears it
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Calls returns how many times op was invoked
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// Object returns a copy of the stored object
func (s *Store) Object(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

// OpenUploads returns the number of multipart uploads neither completed nor aborted
func (s *Store) OpenUploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.uploads)
}

// enter records the call and returns the injected failure, must be called with mu held
func (s *Store) enter(op string) error {
	s.calls[op]++
	if err, ok := s.failures[op]; ok {
		return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
	}
	return nil
}

func (s *Store) PutObject(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpPutObject); err != nil {
		return "", err
	}
	s.objects[key] = append([]byte(nil), data...)
	return s.ObjectURL(key), nil
}

func (s *Store) DeleteObject(_ context.Context, objectURL string) error {
	key, err := s.KeyFromURL(objectURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpDeleteObject); err != nil {
		return err
	}
	delete(s.objects, key)
	return nil
}

func (s *Store) OpenMultipartUpload(_ context.Context, key string, mimeType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpOpenMultipart); err != nil {
		return "", err
	}
	uploadID := uuid.NewString()
	s.uploads[uploadID] = &multipartUpload{
		key:      key,
		mimeType: mimeType,
		parts:    make(map[int][]byte),
		etags:    make(map[int]string),
	}
	return uploadID, nil
}

func (s *Store) UploadPart(_ context.Context, key string, uploadID string, partNumber int, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpUploadPart); err != nil {
		return "", err
	}
	upload, err := s.upload(key, uploadID)
	if err != nil {
		return "", err
	}
	if partNumber < 1 {
		return "", fmt.Errorf("%w: invalid part number %d", domain.ErrStorage, partNumber)
	}

	sum := md5.Sum(data)
	etag := hex.EncodeToString(sum[:])
	upload.parts[partNumber] = append([]byte(nil), data...)
	upload.etags[partNumber] = etag
	return etag, nil
}

func (s *Store) CompleteMultipartUpload(_ context.Context, key string, uploadID string, parts []domain.UploadPart) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpCompleteUpload); err != nil {
		return "", err
	}
	upload, err := s.upload(key, uploadID)
	if err != nil {
		return "", err
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: no parts to complete", domain.ErrStorage)
	}

	var assembled []byte
	previous := 0
	for _, part := range parts {
		if part.PartNumber <= previous {
			return "", fmt.Errorf("%w: parts must be in ascending order", domain.ErrStorage)
		}
		previous = part.PartNumber
		if upload.etags[part.PartNumber] != part.ETag {
			return "", fmt.Errorf("%w: tag mismatch for part %d", domain.ErrStorage, part.PartNumber)
		}
		assembled = append(assembled, upload.parts[part.PartNumber]...)
	}

	s.objects[key] = assembled
	delete(s.uploads, uploadID)
	return s.ObjectURL(key), nil
}

func (s *Store) AbortMultipartUpload(_ context.Context, _ string, uploadID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpAbortUpload); err != nil {
		return err
	}
	delete(s.uploads, uploadID)
	return nil
}

func (s *Store) SignedURL(_ context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpSignedURL); err != nil {
		return "", time.Time{}, err
	}
	expiresAt := time.Now().Add(ttl)
	return fmt.Sprintf(signedURLTemplate, url.PathEscape(key), expiresAt.Unix()), expiresAt, nil
}

func (s *Store) ObjectURL(key string) string {
	return baseURL + key
}

func (s *Store) KeyFromURL(objectURL string) (string, error) {
	key, found := strings.CutPrefix(objectURL, baseURL)
	if !found || key == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidStorageURL, objectURL)
	}
	return key, nil
}

func (s *Store) GetHeaderBytes(_ context.Context, key string, n int64) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter(OpGetHeaderBytes); err != nil {
		return nil, err
	}
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: object %s does not exist", domain.ErrStorage, key)
	}
	if int64(len(data)) > n {
		data = data[:n]
	}
	return append([]byte(nil), data...), nil
}

func (s *Store) upload(key, uploadID string) (*multipartUpload, error) {
	upload, ok := s.uploads[uploadID]
	if !ok || upload.key != key {
		return nil, fmt.Errorf("%w: no such upload %s", domain.ErrStorage, uploadID)
	}
	return upload, nil
}
