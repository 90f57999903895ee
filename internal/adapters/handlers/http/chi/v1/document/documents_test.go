package document_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vize-dostu/internal/adapters/handlers/http/chi/v1/document"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListDocumentsV1(t *testing.T) {
	t.Run("country filter", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		expired := time.Now().AddDate(0, 0, -1)
		soon := time.Now().AddDate(0, 2, 0)
		documents := []domain.Document{
			{ID: uuid.New(), UserID: f.userID, Category: "passport", ExpiryDate: &expired},
			{ID: uuid.New(), UserID: f.userID, Category: "visa", ExpiryDate: &soon},
			{ID: uuid.New(), UserID: f.userID, Category: "photo"},
		}
		f.documents.On("ListDocuments", mock.Anything, f.userID, mock.MatchedBy(func(country *string) bool {
			return country != nil && *country == "DE"
		})).Return(documents, nil)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents?country=DE", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		f.documents.AssertExpectations(t)
		var resp []document.V1DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 3)
		assert.Equal(t, domain.FreshnessExpired, *resp[0].Freshness)
		assert.Equal(t, domain.FreshnessExpiringSoon, *resp[1].Freshness)
		assert.Nil(t, resp[2].Freshness)
	})

	t.Run("no filter returns empty array", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		f.documents.On("ListDocuments", mock.Anything, f.userID, (*string)(nil)).Return([]domain.Document{}, nil)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("repository failure", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		f.documents.On("ListDocuments", mock.Anything, mock.Anything, mock.Anything).Return([]domain.Document(nil), fmt.Errorf("db down"))

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents", nil))

		// Assert
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestGetDocumentV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		expiry := time.Now().AddDate(2, 0, 0)
		doc := &domain.Document{ID: uuid.New(), UserID: f.userID, Category: "passport", ExpiryDate: &expiry, ExtractedData: map[string]any{"processed": true}}
		f.documents.On("GetDocument", mock.Anything, f.userID, doc.ID).Return(doc, nil)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID.String(), nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		var resp document.V1DocumentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, domain.FreshnessActive, *resp.Freshness)
		assert.Equal(t, true, resp.ExtractedData["processed"])
	})

	t.Run("not found", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		f.documents.On("GetDocument", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrDocumentNotFound)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+uuid.NewString(), nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/abc", nil))

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetDownloadURLV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		documentID := uuid.New()
		expiresAt := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		f.documents.On("GetDownloadURL", mock.Anything, f.userID, documentID).
			Return("https://files.example/documents/a.pdf?sig=1", expiresAt, nil)

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+documentID.String()+"/download", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		var resp document.V1DownloadURLResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://files.example/documents/a.pdf?sig=1", resp.URL)
		assert.True(t, expiresAt.Equal(resp.ExpiresAt))
	})

	t.Run("storage failure", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		f.documents.On("GetDownloadURL", mock.Anything, mock.Anything, mock.Anything).
			Return("", time.Time{}, fmt.Errorf("%w: presign: boom", domain.ErrStorage))

		// Act
		w := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+uuid.NewString()+"/download", nil))

		// Assert
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}

func TestSetExpiryDateV1(t *testing.T) {
	t.Run("date only", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		documentID := uuid.New()
		want := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
		f.documents.On("SetExpiryDate", mock.Anything, f.userID, documentID, mock.MatchedBy(func(expiry *time.Time) bool {
			return expiry != nil && expiry.Equal(want)
		})).Return(&domain.Document{ID: documentID, UserID: f.userID, ExpiryDate: &want}, nil)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/"+documentID.String()+"/expiry", bytes.NewBufferString(`{"expiryDate":"2027-03-01"}`))

		// Act
		w := f.do(req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		f.documents.AssertExpectations(t)
	})

	t.Run("clear", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		documentID := uuid.New()
		f.documents.On("SetExpiryDate", mock.Anything, f.userID, documentID, (*time.Time)(nil)).
			Return(&domain.Document{ID: documentID, UserID: f.userID}, nil)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/"+documentID.String()+"/expiry", bytes.NewBufferString(`{"expiryDate":null}`))

		// Act
		w := f.do(req)

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		f.documents.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/documents/"+uuid.NewString()+"/expiry", bytes.NewBufferString(`{"expiryDate":"next year"}`))

		// Act
		w := f.do(req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, w.Code)
		f.documents.AssertNotCalled(t, "SetExpiryDate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDeleteDocumentV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		documentID := uuid.New()
		f.documents.On("DeleteDocument", mock.Anything, f.userID, documentID).Return(nil)

		// Act
		w := f.do(httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+documentID.String(), nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":true}`, w.Body.String())
	})

	t.Run("other owner", func(t *testing.T) {
		// Arrange
		f := newFixture(domain.MaxFileSize)
		f.documents.On("DeleteDocument", mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrDocumentNotFound)

		// Act
		w := f.do(httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+uuid.NewString(), nil))

		// Assert
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
