package upload

import (
	"context"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

// DirectUpload stores a small file in one request and creates its document
func (u *uploadService) DirectUpload(ctx context.Context, req domain.DirectUploadRequest) (*domain.Document, error) {
	fileName, err := u.validateFile(req.FileName, int64(len(req.Data)), req.Category)
	if err != nil {
		return nil, err
	}

	mimeType := req.MimeType
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = domain.MimeTypeFromFileName(fileName)
	}

	fileURL, err := u.store.PutObject(ctx, storageKey(req.UserID, fileName), req.Data, mimeType)
	if err != nil {
		return nil, storageErr("put object", err)
	}

	now := u.now()
	document := domain.Document{
		ID:         uuid.New(),
		UserID:     req.UserID,
		Category:   req.Category,
		Country:    req.Country,
		FileName:   fileName,
		FileURL:    fileURL,
		SizeBytes:  int64(len(req.Data)),
		MimeType:   mimeType,
		UploadedAt: now,
		UpdatedAt:  now,
	}

	if err := u.uow.DocumentRepo().Create(ctx, document); err != nil {
		besteffort.Run(ctx, u.logger, "delete orphan object", func(ctx context.Context) error {
			return u.store.DeleteObject(ctx, fileURL)
		}, "url", fileURL)
		return nil, err
	}

	u.logger.InfoContext(ctx, "document uploaded directly", "document_id", document.ID, "size", document.SizeBytes)
	u.afterDocumentCreated(ctx, &document)

	return &document, nil
}
