package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

type uploadService struct {
	uow        port.UnitOfWork
	store      port.ObjectStore
	dispatcher port.Dispatcher
	notifier   port.Notifier
	cfg        config.FileUploadConfig
	logger     *slog.Logger
	now        func() time.Time
}

// Option customizes the upload service
type Option func(*uploadService)

// WithClock replaces the wall clock used for session expiry
func WithClock(now func() time.Time) Option {
	return func(u *uploadService) {
		u.now = now
	}
}

// NewUploadService creates a new upload service
func NewUploadService(
	uow port.UnitOfWork,
	store port.ObjectStore,
	dispatcher port.Dispatcher,
	notifier port.Notifier,
	cfg config.FileUploadConfig,
	logger *slog.Logger,
	opts ...Option,
) port.UploadService {
	u := &uploadService{
		uow:        uow,
		store:      store,
		dispatcher: dispatcher,
		notifier:   notifier,
		cfg:        cfg,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// storageKey builds documents/<user>/<uuid>-<sanitized name>
func storageKey(userID uuid.UUID, fileName string) string {
	return fmt.Sprintf("documents/%s/%s-%s", userID, uuid.New(), unsafeKeyChars.ReplaceAllString(fileName, "_"))
}

// validateFile checks the fields shared by both upload paths and returns the cleaned file name
func (u *uploadService) validateFile(fileName string, size int64, category string) (string, error) {
	fileName = strings.TrimSpace(fileName)
	if fileName != "" {
		fileName = filepath.Base(fileName)
	}
	if fileName == "" || fileName == "." || fileName == "/" {
		return "", domain.ErrInvalidFileName
	}

	if strings.TrimSpace(category) == "" {
		return "", domain.ErrInvalidCategory
	}

	if size <= 0 {
		return "", domain.ErrEmptyFile
	}

	if size > u.cfg.MaxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds the %d bytes limit", domain.ErrFileTooLarge, size, u.cfg.MaxFileSize)
	}

	return fileName, nil
}

// ownedSession loads a session and hides sessions of other users
func ownedSession(ctx context.Context, repo port.UploadSessionRepository, userID, sessionID uuid.UUID, forUpdate bool) (*domain.UploadSession, error) {
	find := repo.FindByID
	if forUpdate {
		find = repo.FindByIDForUpdate
	}

	session, err := find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// checkWritable reports why a session cannot take chunks or be completed at now
func checkWritable(session *domain.UploadSession, now time.Time) error {
	if session.IsExpiredAt(now) {
		return domain.ErrSessionExpired
	}
	if session.Status != domain.UploadSessionStatusInProgress {
		return fmt.Errorf("%w: session is %s", domain.ErrInvalidSessionState, session.Status)
	}
	return nil
}

// storageErr makes sure adapter failures surface as ErrStorage
func storageErr(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// abortRemote discards a multipart upload without failing the caller
func (u *uploadService) abortRemote(ctx context.Context, session *domain.UploadSession) {
	besteffort.Run(ctx, u.logger, "abort multipart upload", func(ctx context.Context) error {
		return u.store.AbortMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID)
	}, "session_id", session.ID)
}

// afterDocumentCreated hands a new document to post-processing and tells its owner
func (u *uploadService) afterDocumentCreated(ctx context.Context, document *domain.Document) {
	besteffort.Run(ctx, u.logger, "enqueue processing", func(ctx context.Context) error {
		return u.dispatcher.EnqueueProcessing(ctx, document.ID, document.Category)
	}, "document_id", document.ID)

	u.notifier.Notify(ctx, domain.Notification{
		UserID:    document.UserID,
		Title:     "Document uploaded",
		Message:   fmt.Sprintf("%s was uploaded successfully", document.FileName),
		Type:      domain.NotificationTypeApplicationUpdate,
		Reference: domain.DocumentReference(document.ID),
	})
}
