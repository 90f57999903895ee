package upload

import (
	"context"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

// InitUpload opens a multipart upload and persists the session tracking it
func (u *uploadService) InitUpload(ctx context.Context, req domain.InitUploadRequest) (*domain.UploadPlan, error) {
	fileName, err := u.validateFile(req.FileName, req.TotalSize, req.Category)
	if err != nil {
		return nil, err
	}

	chunkSize := u.cfg.ChunkSize
	key := storageKey(req.UserID, fileName)

	uploadID, err := u.store.OpenMultipartUpload(ctx, key, domain.MimeTypeFromFileName(fileName))
	if err != nil {
		return nil, storageErr("open multipart upload", err)
	}

	now := u.now()
	session := domain.UploadSession{
		ID:               uuid.New(),
		UserID:           req.UserID,
		FileName:         fileName,
		TotalSize:        req.TotalSize,
		ChunkSize:        chunkSize,
		TotalChunks:      domain.ChunkCount(req.TotalSize, chunkSize),
		Category:         req.Category,
		Country:          req.Country,
		StorageKey:       key,
		ProviderUploadID: uploadID,
		UploadedChunks:   0,
		Status:           domain.UploadSessionStatusInProgress,
		ExpiresAt:        now.Add(u.cfg.SessionTTL),
	}

	if err := u.uow.UploadSessionRepo().Create(ctx, session); err != nil {
		besteffort.Run(ctx, u.logger, "abort multipart upload", func(ctx context.Context) error {
			return u.store.AbortMultipartUpload(ctx, key, uploadID)
		}, "session_id", session.ID)
		return nil, err
	}

	u.logger.InfoContext(ctx, "upload session opened",
		"session_id", session.ID,
		"user_id", session.UserID,
		"total_size", session.TotalSize,
		"total_chunks", session.TotalChunks)

	return &domain.UploadPlan{
		SessionID:  session.ID,
		ChunkCount: session.TotalChunks,
		ChunkSize:  chunkSize,
		ExpiresAt:  session.ExpiresAt,
	}, nil
}
