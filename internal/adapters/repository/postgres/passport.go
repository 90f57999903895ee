package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const passportColumns = `id, user_id, passport_number, issue_date, expiry_date, issuing_country, document_id, created_at, updated_at`

type sqlPassportRepository struct {
	db SQLQuerier
}

// NewSqlPassportRepository creates sqlPassportRepository that implements port.PassportRepository
func NewSqlPassportRepository(db SQLQuerier) port.PassportRepository {
	return &sqlPassportRepository{
		db: db,
	}
}

// Upsert inserts a passport or updates the one with the same owner and number
func (s *sqlPassportRepository) Upsert(ctx context.Context, passport domain.Passport) (*domain.Passport, error) {
	query := `
		INSERT INTO passports (id, user_id, passport_number, issue_date, expiry_date, issuing_country, document_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id, passport_number) DO UPDATE SET
			issue_date = EXCLUDED.issue_date,
			expiry_date = EXCLUDED.expiry_date,
			issuing_country = EXCLUDED.issuing_country,
			document_id = EXCLUDED.document_id,
			updated_at = now()
		RETURNING ` + passportColumns

	saved, err := scanPassport(s.db.QueryRowContext(ctx, query,
		passport.ID,
		passport.UserID,
		passport.PassportNumber,
		passport.IssueDate,
		passport.ExpiryDate,
		passport.IssuingCountry,
		passport.DocumentID,
	))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return nil, fmt.Errorf("linked document: %w", domain.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("error upserting passport: %w", err)
	}
	return saved, nil
}

func (s *sqlPassportRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE id = $1`

	passport, err := scanPassport(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPassportNotFound
		}
		return nil, err
	}
	return passport, nil
}

func (s *sqlPassportRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE user_id = $1 ORDER BY expiry_date DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return collectPassports(rows)
}

// FindExpiringBefore lists passports expiring before the given time
func (s *sqlPassportRepository) FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Passport, error) {
	query := `SELECT ` + passportColumns + ` FROM passports WHERE expiry_date < $1 ORDER BY expiry_date`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, err
	}
	return collectPassports(rows)
}

func (s *sqlPassportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM passports WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrPassportNotFound
	}
	return nil
}

func collectPassports(rows *sql.Rows) ([]domain.Passport, error) {
	defer rows.Close()

	passports := make([]domain.Passport, 0)
	for rows.Next() {
		passport, err := scanPassport(rows)
		if err != nil {
			return nil, err
		}
		passports = append(passports, *passport)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return passports, nil
}

type dbPassport struct {
	ID             uuid.UUID     `db:"id"`
	UserID         uuid.UUID     `db:"user_id"`
	PassportNumber string        `db:"passport_number"`
	IssueDate      time.Time     `db:"issue_date"`
	ExpiryDate     time.Time     `db:"expiry_date"`
	IssuingCountry string        `db:"issuing_country"`
	DocumentID     uuid.NullUUID `db:"document_id"`
	CreatedAt      time.Time     `db:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"`
}

func scanPassport(scanner rowScanner) (*domain.Passport, error) {
	var row dbPassport
	err := scanner.Scan(
		&row.ID,
		&row.UserID,
		&row.PassportNumber,
		&row.IssueDate,
		&row.ExpiryDate,
		&row.IssuingCountry,
		&row.DocumentID,
		&row.CreatedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// ToDomain converts db obj to domain
func (p *dbPassport) ToDomain() *domain.Passport {
	passport := &domain.Passport{
		ID:             p.ID,
		UserID:         p.UserID,
		PassportNumber: p.PassportNumber,
		IssueDate:      p.IssueDate,
		ExpiryDate:     p.ExpiryDate,
		IssuingCountry: p.IssuingCountry,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.DocumentID.Valid {
		documentID := p.DocumentID.UUID
		passport.DocumentID = &documentID
	}
	return passport
}
