package postgres_test

import (
	"context"
	"testing"
	"time"
	"vize-dostu/internal/adapters/repository/postgres"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlDocumentRepository(t *testing.T) {
	dbConnection, cleanup, truncate := postgres.NewTestDB(t)
	defer cleanup()
	ctx := context.Background()

	repo := postgres.NewSqlDocumentRepository(dbConnection)
	newDocument := func(userID uuid.UUID, country *string) domain.Document {
		id := uuid.New()
		return domain.Document{
			ID:        id,
			UserID:    userID,
			Category:  "bank_statement",
			Country:   country,
			FileName:  "statement.pdf",
			FileURL:   "https://documents.s3.eu-central-1.amazonaws.com/documents/" + id.String(),
			SizeBytes: 2048,
			MimeType:  "application/pdf",
		}
	}

	t.Run("Create - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		document := newDocument(uuid.New(), nil)
		document.ExtractedData = map[string]any{"processed": true}

		// Act
		err := repo.Create(ctx, document)

		// Assert
		require.NoError(t, err)
		saved, err := repo.FindByID(ctx, document.ID)
		require.NoError(t, err)
		assert.Equal(t, document.UserID, saved.UserID)
		assert.Equal(t, document.FileURL, saved.FileURL)
		assert.Equal(t, int64(2048), saved.SizeBytes)
		assert.Nil(t, saved.Country)
		assert.Nil(t, saved.ExpiryDate)
		assert.Equal(t, true, saved.ExtractedData["processed"])
	})

	t.Run("FindByID - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		found, err := repo.FindByID(ctx, uuid.New())

		// Assert
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
		assert.Nil(t, found)
	})

	t.Run("ListByUser - Filters by owner and country", func(t *testing.T) {
		// Arrange
		truncate()
		userID := uuid.New()
		germany, france := "DE", "FR"
		require.NoError(t, repo.Create(ctx, newDocument(userID, &germany)))
		require.NoError(t, repo.Create(ctx, newDocument(userID, &france)))
		require.NoError(t, repo.Create(ctx, newDocument(uuid.New(), &germany)))

		// Act
		all, errAll := repo.ListByUser(ctx, userID, nil)
		filtered, errFiltered := repo.ListByUser(ctx, userID, &germany)

		// Assert
		require.NoError(t, errAll)
		require.NoError(t, errFiltered)
		assert.Len(t, all, 2)
		require.Len(t, filtered, 1)
		assert.Equal(t, "DE", *filtered[0].Country)
	})

	t.Run("UpdateExtractedData - Overwrites payload", func(t *testing.T) {
		// Arrange
		truncate()
		document := newDocument(uuid.New(), nil)
		require.NoError(t, repo.Create(ctx, document))

		// Act
		err := repo.UpdateExtractedData(ctx, document.ID, map[string]any{"processed": true, "category": "bank_statement"})

		// Assert
		require.NoError(t, err)
		saved, _ := repo.FindByID(ctx, document.ID)
		assert.Equal(t, "bank_statement", saved.ExtractedData["category"])
	})

	t.Run("UpdateExtractedData - Not found", func(t *testing.T) {
		// Arrange
		truncate()

		// Act
		err := repo.UpdateExtractedData(ctx, uuid.New(), map[string]any{})

		// Assert
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("FindExpiringBefore - Only documents with expiry under the bound", func(t *testing.T) {
		// Arrange
		truncate()
		soon := newDocument(uuid.New(), nil)
		later := newDocument(uuid.New(), nil)
		none := newDocument(uuid.New(), nil)
		for _, d := range []domain.Document{soon, later, none} {
			require.NoError(t, repo.Create(ctx, d))
		}
		soonDate := time.Now().AddDate(0, 1, 0)
		laterDate := time.Now().AddDate(2, 0, 0)
		require.NoError(t, repo.UpdateExpiryDate(ctx, soon.ID, &soonDate))
		require.NoError(t, repo.UpdateExpiryDate(ctx, later.ID, &laterDate))

		// Act
		documents, err := repo.FindExpiringBefore(ctx, time.Now().AddDate(0, 6, 0))

		// Assert
		require.NoError(t, err)
		require.Len(t, documents, 1)
		assert.Equal(t, soon.ID, documents[0].ID)
		require.NotNil(t, documents[0].ExpiryDate)
		assert.WithinDuration(t, soonDate, *documents[0].ExpiryDate, time.Second)
	})

	t.Run("Delete - Nominal case", func(t *testing.T) {
		// Arrange
		truncate()
		document := newDocument(uuid.New(), nil)
		require.NoError(t, repo.Create(ctx, document))

		// Act
		err := repo.Delete(ctx, document.ID)

		// Assert
		require.NoError(t, err)
		_, err = repo.FindByID(ctx, document.ID)
		require.ErrorIs(t, err, domain.ErrDocumentNotFound)
		require.ErrorIs(t, repo.Delete(ctx, document.ID), domain.ErrDocumentNotFound)
	})
}
