package document

import (
	"context"
	"log/slog"
	"time"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

type documentService struct {
	uow         port.UnitOfWork
	store       port.ObjectStore
	dispatcher  port.Dispatcher
	downloadTTL time.Duration
	logger      *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(uow port.UnitOfWork, store port.ObjectStore, dispatcher port.Dispatcher, cfg config.FileUploadConfig, logger *slog.Logger) port.DocumentService {
	ttl := cfg.DownloadURLTTL
	if ttl <= 0 {
		ttl = domain.DownloadURLTTL
	}
	return &documentService{
		uow:         uow,
		store:       store,
		dispatcher:  dispatcher,
		downloadTTL: ttl,
		logger:      logger,
	}
}

// ListDocuments returns the documents of a user, optionally for one country
func (d *documentService) ListDocuments(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error) {
	return d.uow.DocumentRepo().ListByUser(ctx, userID, country)
}

// GetDocument returns a document owned by userID
func (d *documentService) GetDocument(ctx context.Context, userID, id uuid.UUID) (*domain.Document, error) {
	document, err := d.uow.DocumentRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if document.UserID != userID {
		return nil, domain.ErrDocumentNotFound
	}
	return document, nil
}

// GetDownloadURL returns a signed url for the document blob
func (d *documentService) GetDownloadURL(ctx context.Context, userID, id uuid.UUID) (string, time.Time, error) {
	document, err := d.GetDocument(ctx, userID, id)
	if err != nil {
		return "", time.Time{}, err
	}

	key, err := d.store.KeyFromURL(document.FileURL)
	if err != nil {
		return "", time.Time{}, err
	}

	return d.store.SignedURL(ctx, key, d.downloadTTL)
}

// SetExpiryDate stores the expiry date and schedules a freshness check
func (d *documentService) SetExpiryDate(ctx context.Context, userID, id uuid.UUID, expiryDate *time.Time) (*domain.Document, error) {
	document, err := d.GetDocument(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := d.uow.DocumentRepo().UpdateExpiryDate(ctx, document.ID, expiryDate); err != nil {
		return nil, err
	}
	document.ExpiryDate = expiryDate

	if expiryDate != nil {
		besteffort.Run(ctx, d.logger, "enqueue expiry check", func(ctx context.Context) error {
			return d.dispatcher.EnqueueExpiryCheck(ctx, document.ID)
		}, "document_id", document.ID)
	}
	return document, nil
}

// DeleteDocument removes the record then the blob
func (d *documentService) DeleteDocument(ctx context.Context, userID, id uuid.UUID) error {
	document, err := d.GetDocument(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := d.uow.DocumentRepo().Delete(ctx, document.ID); err != nil {
		return err
	}

	besteffort.Run(ctx, d.logger, "delete object", func(ctx context.Context) error {
		return d.store.DeleteObject(ctx, document.FileURL)
	}, "document_id", document.ID)

	d.logger.InfoContext(ctx, "document deleted", "document_id", document.ID)
	return nil
}
