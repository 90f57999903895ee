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
)

const uploadSessionColumns = `id, user_id, file_name, total_size, chunk_size, total_chunks, category, country,
		storage_key, provider_upload_id, uploaded_chunks, status, created_at, updated_at, expires_at`

type sqlUploadSessionRepository struct {
	db SQLQuerier
}

// NewSQLUploadSessionRepository Creates a new sqlUploadSessionRepository
func NewSQLUploadSessionRepository(db SQLQuerier) port.UploadSessionRepository {
	return &sqlUploadSessionRepository{db: db}
}

// Create creates an upload session
func (s *sqlUploadSessionRepository) Create(ctx context.Context, session domain.UploadSession) error {
	query := `
		INSERT INTO upload_session (
			id, user_id, file_name, total_size, chunk_size, total_chunks, category, country,
			storage_key, provider_upload_id, uploaded_chunks, status, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.FileName,
		session.TotalSize,
		session.ChunkSize,
		session.TotalChunks,
		session.Category,
		nullString(session.Country),
		session.StorageKey,
		session.ProviderUploadID,
		session.UploadedChunks,
		session.Status,
		session.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting upload session: %w", err)
	}
	return nil
}

func (s *sqlUploadSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1`
	return s.findOne(ctx, query, id)
}

// FindByIDForUpdate locks the row, it must run inside a unit of work
func (s *sqlUploadSessionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + ` FROM upload_session WHERE id = $1 FOR UPDATE`
	return s.findOne(ctx, query, id)
}

func (s *sqlUploadSessionRepository) findOne(ctx context.Context, query string, id uuid.UUID) (*domain.UploadSession, error) {
	session, err := scanUploadSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// RecordPart stores a part tag, a second call for the same part number is a no-op
func (s *sqlUploadSessionRepository) RecordPart(ctx context.Context, sessionID uuid.UUID, part domain.UploadPart) (bool, error) {
	query := `
		INSERT INTO upload_session_part (session_id, part_number, etag, size_bytes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id, part_number) DO NOTHING`

	result, err := s.db.ExecContext(ctx, query, sessionID, part.PartNumber, part.ETag, part.SizeBytes)
	if err != nil {
		return false, fmt.Errorf("error recording part: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

func (s *sqlUploadSessionRepository) ListParts(ctx context.Context, sessionID uuid.UUID) ([]domain.UploadPart, error) {
	query := `
		SELECT part_number, etag, size_bytes
		FROM upload_session_part
		WHERE session_id = $1
		ORDER BY part_number`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := make([]domain.UploadPart, 0)
	for rows.Next() {
		var part domain.UploadPart
		if err := rows.Scan(&part.PartNumber, &part.ETag, &part.SizeBytes); err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

// IncrementUploadedChunks adds one stored chunk, never going past total_chunks
func (s *sqlUploadSessionRepository) IncrementUploadedChunks(ctx context.Context, id uuid.UUID) (int, error) {
	query := `
		UPDATE upload_session
		SET uploaded_chunks = uploaded_chunks + 1, updated_at = now()
		WHERE id = $1 AND uploaded_chunks < total_chunks
		RETURNING uploaded_chunks`

	var uploaded int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&uploaded)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: uploaded chunks already complete", domain.ErrInvalidSessionState)
		}
		return 0, err
	}
	return uploaded, nil
}

// TransitionStatus moves a session from one status to another only if it is still in from
func (s *sqlUploadSessionRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.UploadSessionStatus) error {
	if !domain.CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidSessionState, from, to)
	}

	query := `UPDATE upload_session SET status = $1, updated_at = now() WHERE id = $2 AND status = $3`

	result, err := s.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM upload_session WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrSessionNotFound
		}
		return fmt.Errorf("%w: session is no longer %s", domain.ErrInvalidSessionState, from)
	}

	return nil
}

func (s *sqlUploadSessionRepository) FindAllExpired(ctx context.Context, now time.Time) ([]domain.UploadSession, error) {
	query := `SELECT ` + uploadSessionColumns + `
		FROM upload_session
		WHERE status = 'in_progress' AND expires_at < $1`

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.UploadSession
	for rows.Next() {
		session, err := scanUploadSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// DeleteFinishedBefore removes terminal sessions last touched before the given time
func (s *sqlUploadSessionRepository) DeleteFinishedBefore(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM upload_session
		WHERE status IN ('completed', 'aborted', 'expired') AND updated_at < $1`

	result, err := s.db.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *sqlUploadSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM upload_session WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

type dbUploadSession struct {
	ID               uuid.UUID      `db:"id"`
	UserID           uuid.UUID      `db:"user_id"`
	FileName         string         `db:"file_name"`
	TotalSize        int64          `db:"total_size"`
	ChunkSize        int64          `db:"chunk_size"`
	TotalChunks      int            `db:"total_chunks"`
	Category         string         `db:"category"`
	Country          sql.NullString `db:"country"`
	StorageKey       string         `db:"storage_key"`
	ProviderUploadID string         `db:"provider_upload_id"`
	UploadedChunks   int            `db:"uploaded_chunks"`
	Status           string         `db:"status"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
	ExpiresAt        time.Time      `db:"expires_at"`
}

func scanUploadSession(scanner rowScanner) (*domain.UploadSession, error) {
	var row dbUploadSession
	err := scanner.Scan(
		&row.ID,
		&row.UserID,
		&row.FileName,
		&row.TotalSize,
		&row.ChunkSize,
		&row.TotalChunks,
		&row.Category,
		&row.Country,
		&row.StorageKey,
		&row.ProviderUploadID,
		&row.UploadedChunks,
		&row.Status,
		&row.CreatedAt,
		&row.UpdatedAt,
		&row.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return row.ToDomain(), nil
}

// ToDomain converts db obj to domain
func (s *dbUploadSession) ToDomain() *domain.UploadSession {
	return &domain.UploadSession{
		ID:               s.ID,
		UserID:           s.UserID,
		FileName:         s.FileName,
		TotalSize:        s.TotalSize,
		ChunkSize:        s.ChunkSize,
		TotalChunks:      s.TotalChunks,
		Category:         s.Category,
		Country:          stringPtr(s.Country),
		StorageKey:       s.StorageKey,
		ProviderUploadID: s.ProviderUploadID,
		UploadedChunks:   s.UploadedChunks,
		Status:           domain.UploadSessionStatus(s.Status),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		ExpiresAt:        s.ExpiresAt,
	}
}
