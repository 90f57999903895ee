package document

import (
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// V1DocumentResponse is the representation of a stored document
type V1DocumentResponse struct {
	ID            uuid.UUID         `json:"id"`
	DocumentType  string            `json:"documentType"`
	Country       *string           `json:"country,omitempty"`
	FileName      string            `json:"fileName"`
	FileURL       string            `json:"fileUrl"`
	SizeBytes     int64             `json:"sizeBytes"`
	MimeType      string            `json:"mimeType"`
	ExtractedData map[string]any    `json:"extractedData,omitempty"`
	ExpiryDate    *time.Time        `json:"expiryDate,omitempty"`
	Freshness     *domain.Freshness `json:"freshness,omitempty"`
	UploadedAt    time.Time         `json:"uploadedAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

func toDocumentResponse(document domain.Document, now time.Time) V1DocumentResponse {
	return V1DocumentResponse{
		ID:            document.ID,
		DocumentType:  document.Category,
		Country:       document.Country,
		FileName:      document.FileName,
		FileURL:       document.FileURL,
		SizeBytes:     document.SizeBytes,
		MimeType:      document.MimeType,
		ExtractedData: document.ExtractedData,
		ExpiryDate:    document.ExpiryDate,
		Freshness:     document.FreshnessAt(now),
		UploadedAt:    document.UploadedAt,
		UpdatedAt:     document.UpdatedAt,
	}
}
