package port

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// PassportRepository represents a passport repository implementation
type PassportRepository interface {
	Upsert(ctx context.Context, passport domain.Passport) (*domain.Passport, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Passport, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error)
	FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Passport, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PassportService represents a passport service implementation
type PassportService interface {
	UpsertPassport(ctx context.Context, userID uuid.UUID, input domain.PassportInput) (*domain.Passport, error)
	ListPassports(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error)
	GetPassport(ctx context.Context, userID, id uuid.UUID) (*domain.Passport, error)
	DeletePassport(ctx context.Context, userID, id uuid.UUID) error
}
