package passport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

type passportService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewPassportService creates a new passport service
func NewPassportService(uow port.UnitOfWork, logger *slog.Logger) port.PassportService {
	return &passportService{uow: uow, logger: logger}
}

func validate(input domain.PassportInput) (domain.PassportInput, error) {
	input.PassportNumber = strings.ToUpper(strings.TrimSpace(input.PassportNumber))
	input.IssuingCountry = strings.ToUpper(strings.TrimSpace(input.IssuingCountry))

	if input.PassportNumber == "" {
		return input, fmt.Errorf("%w: passport number is required", domain.ErrInvalidPassport)
	}
	if input.IssuingCountry == "" {
		return input, fmt.Errorf("%w: issuing country is required", domain.ErrInvalidPassport)
	}
	if input.IssueDate.IsZero() || input.ExpiryDate.IsZero() {
		return input, fmt.Errorf("%w: issue and expiry dates are required", domain.ErrInvalidPassport)
	}
	if !input.ExpiryDate.After(input.IssueDate) {
		return input, fmt.Errorf("%w: expiry date must be after issue date", domain.ErrInvalidPassport)
	}
	return input, nil
}

// UpsertPassport creates the passport or updates the one with the same number
func (p *passportService) UpsertPassport(ctx context.Context, userID uuid.UUID, input domain.PassportInput) (*domain.Passport, error) {
	input, err := validate(input)
	if err != nil {
		return nil, err
	}

	var saved *domain.Passport
	err = p.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if input.DocumentID != nil {
			document, findErr := uow.DocumentRepo().FindByID(ctx, *input.DocumentID)
			if findErr != nil {
				return findErr
			}
			if document.UserID != userID {
				return domain.ErrDocumentNotFound
			}
		}

		var upsertErr error
		saved, upsertErr = uow.PassportRepo().Upsert(ctx, domain.Passport{
			ID:             uuid.New(),
			UserID:         userID,
			PassportNumber: input.PassportNumber,
			IssueDate:      input.IssueDate,
			ExpiryDate:     input.ExpiryDate,
			IssuingCountry: input.IssuingCountry,
			DocumentID:     input.DocumentID,
		})
		return upsertErr
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "passport saved", "passport_id", saved.ID, "user_id", userID)
	return saved, nil
}

// ListPassports returns the passports of a user
func (p *passportService) ListPassports(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error) {
	return p.uow.PassportRepo().ListByUser(ctx, userID)
}

// GetPassport returns a passport owned by userID
func (p *passportService) GetPassport(ctx context.Context, userID, id uuid.UUID) (*domain.Passport, error) {
	passport, err := p.uow.PassportRepo().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if passport.UserID != userID {
		return nil, domain.ErrPassportNotFound
	}
	return passport, nil
}

// DeletePassport removes a passport owned by userID
func (p *passportService) DeletePassport(ctx context.Context, userID, id uuid.UUID) error {
	passport, err := p.GetPassport(ctx, userID, id)
	if err != nil {
		return err
	}
	return p.uow.PassportRepo().Delete(ctx, passport.ID)
}
