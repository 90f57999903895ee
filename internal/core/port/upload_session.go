package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// UploadSessionRepository is an interface to interact with upload session repositories
type UploadSessionRepository interface {
	Create(ctx context.Context, session domain.UploadSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// FindByIDForUpdate locks the session row until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error)
	// RecordPart stores the part tag and reports whether the part number was new
	RecordPart(ctx context.Context, sessionID uuid.UUID, part domain.UploadPart) (bool, error)
	ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error)
	IncrementUploadedChunks(ctx context.Context, id uuid.UUID) (int, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.UploadSessionStatus) error
	FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error)
	DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UploadService is an interface to define the chunked and direct upload flows
type UploadService interface {
	InitUpload(ctx context.Context, req domain.InitUploadRequest) (*domain.UploadPlan, error)
	AcceptChunk(ctx context.Context, userID, sessionID uuid.UUID, chunkIndex int, data []byte) (*domain.ChunkReceipt, error)
	CompleteUpload(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Document, error)
	AbortUpload(ctx context.Context, userID, sessionID uuid.UUID) error
	GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionProgress, error)
	DirectUpload(ctx context.Context, req domain.DirectUploadRequest) (*domain.Document, error)
}
