package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

const documentColumns = `id, user_id, category, country, file_name, file_url, size_bytes, mime_type,
		extracted_data, expiry_date, uploaded_at, updated_at`

type sqlDocumentRepository struct {
	db SQLQuerier
}

// NewSqlDocumentRepository creates sqlDocumentRepository that implements port.DocumentRepository
func NewSqlDocumentRepository(db SQLQuerier) port.DocumentRepository {
	return &sqlDocumentRepository{
		db: db,
	}
}

// Create creates new document entry
func (s *sqlDocumentRepository) Create(ctx context.Context, document domain.Document) error {
	extracted, err := marshalExtractedData(document.ExtractedData)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (id, user_id, category, country, file_name, file_url, size_bytes, mime_type, extracted_data, expiry_date)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.db.ExecContext(ctx, query,
		document.ID,
		document.UserID,
		document.Category,
		nullString(document.Country),
		document.FileName,
		document.FileURL,
		document.SizeBytes,
		document.MimeType,
		extracted,
		document.ExpiryDate,
	)
	if err != nil {
		return fmt.Errorf("error inserting document: %w", err)
	}
	return nil
}

// FindByID retrieves a document by id
func (s *sqlDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`

	document, err := scanDocument(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("error finding document: %w", err)
	}
	return document, nil
}

// ListByUser lists the documents of a user, newest first, optionally filtered by country
func (s *sqlDocumentRepository) ListByUser(ctx context.Context, userID uuid.UUID, country *string) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1 AND ($2::text IS NULL OR country = $2)
		ORDER BY uploaded_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, nullString(country))
	if err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return collectDocuments(rows)
}

// UpdateExtractedData overwrites the extracted data payload
func (s *sqlDocumentRepository) UpdateExtractedData(ctx context.Context, id uuid.UUID, data map[string]any) error {
	extracted, err := marshalExtractedData(data)
	if err != nil {
		return err
	}

	query := `UPDATE documents 
              SET extracted_data = $1, updated_at = now()
              WHERE id = $2`
	return s.execOne(ctx, query, extracted, id)
}

// UpdateExpiryDate sets or clears the expiry date
func (s *sqlDocumentRepository) UpdateExpiryDate(ctx context.Context, id uuid.UUID, expiryDate *time.Time) error {
	query := `UPDATE documents 
              SET expiry_date = $1, updated_at = now()
              WHERE id = $2`
	return s.execOne(ctx, query, expiryDate, id)
}

// FindExpiringBefore lists documents with an expiry date before the given time
func (s *sqlDocumentRepository) FindExpiringBefore(ctx context.Context, before time.Time) ([]domain.Document, error) {
	query := `SELECT ` + documentColumns + `
		FROM documents
		WHERE expiry_date IS NOT NULL AND expiry_date < $1
		ORDER BY expiry_date`

	rows, err := s.db.QueryContext(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("error finding expiring documents: %w", err)
	}
	return collectDocuments(rows)
}

// Delete deletes a document
func (s *sqlDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return s.execOne(ctx, `DELETE FROM documents WHERE id = $1`, id)
}

func (s *sqlDocumentRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating document: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func collectDocuments(rows *sql.Rows) ([]domain.Document, error) {
	defer rows.Close()

	documents := make([]domain.Document, 0)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *document)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return documents, nil
}

func marshalExtractedData(data map[string]any) ([]byte, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error encoding extracted data: %w", err)
	}
	return raw, nil
}

type dbDocument struct {
	ID            uuid.UUID      `db:"id"`
	UserID        uuid.UUID      `db:"user_id"`
	Category      string         `db:"category"`
	Country       sql.NullString `db:"country"`
	FileName      string         `db:"file_name"`
	FileURL       string         `db:"file_url"`
	SizeBytes     int64          `db:"size_bytes"`
	MimeType      string         `db:"mime_type"`
	ExtractedData []byte         `db:"extracted_data"`
	ExpiryDate    sql.NullTime   `db:"expiry_date"`
	UploadedAt    time.Time      `db:"uploaded_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func scanDocument(scanner rowScanner) (*domain.Document, error) {
	var row dbDocument
	err := scanner.Scan(
		&row.ID,
		&row.UserID,
		&row.Category,
		&row.Country,
		&row.FileName,
		&row.FileURL,
		&row.SizeBytes,
		&row.MimeType,
		&row.ExtractedData,
		&row.ExpiryDate,
		&row.UploadedAt,
		&row.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return row.ToDomain()
}

// ToDomain converts db obj to domain
func (d *dbDocument) ToDomain() (*domain.Document, error) {
	document := &domain.Document{
		ID:         d.ID,
		UserID:     d.UserID,
		Category:   d.Category,
		Country:    stringPtr(d.Country),
		FileName:   d.FileName,
		FileURL:    d.FileURL,
		SizeBytes:  d.SizeBytes,
		MimeType:   d.MimeType,
		UploadedAt: d.UploadedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.ExpiryDate.Valid {
		expiry := d.ExpiryDate.Time
		document.ExpiryDate = &expiry
	}
	if len(d.ExtractedData) > 0 {
		if err := json.Unmarshal(d.ExtractedData, &document.ExtractedData); err != nil {
			return nil, fmt.Errorf("error decoding extracted data: %w", err)
		}
	}
	return document, nil
}
