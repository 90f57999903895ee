package postgres_test

import (
	"context"
	"testing"
	"time"
	"vize-dostu/internal/adapters/repository/postgres"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlUnitOfWork_Execute(t *testing.T) {

	//Arrange
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()

	ctx := context.Background()
	uow := postgres.NewUnitOfWork(dbConnection)
	documentRepo := postgres.NewSqlDocumentRepository(dbConnection)
	newDocument := func() domain.Document {
		return domain.Document{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Category:  "passport",
			FileName:  "scan.pdf",
			FileURL:   "https://documents.s3.eu-central-1.amazonaws.com/documents/scan.pdf",
			SizeBytes: 1024,
			MimeType:  "application/pdf",
		}
	}

	t.Run("Should commit when no error", func(t *testing.T) {
		defer truncate()
		document := newDocument()

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			return u.DocumentRepo().Create(ctx, document)
		})

		//assert
		require.NoError(t, err)
		saved, err := documentRepo.FindByID(ctx, document.ID)
		require.NoError(t, err)
		require.Equal(t, document.FileName, saved.FileName)
	})

	t.Run("Should rollback when error occurs", func(t *testing.T) {
		defer truncate()
		document := newDocument()

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			_ = u.DocumentRepo().Create(ctx, document)
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		_, err = documentRepo.FindByID(ctx, document.ID)
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Should reuse the transaction when nested", func(t *testing.T) {
		defer truncate()
		document := newDocument()

		//act
		err := uow.Execute(ctx, func(u port.UnitOfWork) error {
			if err := u.Execute(ctx, func(inner port.UnitOfWork) error {
				return inner.DocumentRepo().Create(ctx, document)
			}); err != nil {
				return err
			}
			return assert.AnError
		})

		//assert
		require.ErrorIs(t, err, assert.AnError)
		_, err = documentRepo.FindByID(ctx, document.ID)
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("Should serialize concurrent writers on a locked session", func(t *testing.T) {
		defer truncate()
		sessionRepo := postgres.NewSQLUploadSessionRepository(dbConnection)
		session := domain.UploadSession{
			ID:               uuid.New(),
			UserID:           uuid.New(),
			FileName:         "scan.pdf",
			TotalSize:        40,
			ChunkSize:        10,
			TotalChunks:      4,
			Category:         "passport",
			StorageKey:       "documents/scan.pdf",
			ProviderUploadID: "upload-1",
			Status:           domain.UploadSessionStatusInProgress,
			ExpiresAt:        time.Now().Add(time.Hour),
		}
		require.NoError(t, sessionRepo.Create(ctx, session))

		//act
		errs := make(chan error, session.TotalChunks*2)
		for i := 0; i < session.TotalChunks*2; i++ {
			partNumber := i%session.TotalChunks + 1
			go func() {
				errs <- uow.Execute(ctx, func(u port.UnitOfWork) error {
					if _, err := u.UploadSessionRepo().FindByIDForUpdate(ctx, session.ID); err != nil {
						return err
					}
					inserted, err := u.UploadSessionRepo().RecordPart(ctx, session.ID, domain.UploadPart{PartNumber: partNumber, ETag: "etag", SizeBytes: 10})
					if err != nil || !inserted {
						return err
					}
					_, err = u.UploadSessionRepo().IncrementUploadedChunks(ctx, session.ID)
					return err
				})
			}()
		}
		for i := 0; i < session.TotalChunks*2; i++ {
			require.NoError(t, <-errs)
		}

		//assert
		saved, err := sessionRepo.FindByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, session.TotalChunks, saved.UploadedChunks)
	})
}
