package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// DocumentRepository is an interface to define document repository interactions
type DocumentRepository interface {
	Create(ctx context.Context, document domain.Document) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ListByUser(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error)
	UpdateExtractedData(ctx context.Context, id uuid.UUID, data map[string]any) error
	UpdateExpiryDate(ctx context.Context, id uuid.UUID, expiryDate *time.Time) error
	FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DocumentService is an interface to define document service
type DocumentService interface {
	ListDocuments(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error)
	GetDocument(ctx context.Context, userID, id uuid.UUID) (*domain.Document, error)
	GetDownloadURL(ctx context.Context, userID, id uuid.UUID) (string, time.Time, error)
	SetExpiryDate(ctx context.Context, userID, id uuid.UUID, expiryDate *time.Time) (*domain.Document, error)
	DeleteDocument(ctx context.Context, userID, id uuid.UUID) error
}
