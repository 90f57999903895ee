package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ExpiryHorizonMonths is the lookahead under which a credential is expiring soon
	ExpiryHorizonMonths = 6
	// DownloadURLTTL is the lifetime of a signed download url
	DownloadURLTTL = time.Hour
)

// Freshness is the expiry-derived status of a document or passport
type Freshness string

const (
	FreshnessActive       Freshness = "active"
	FreshnessExpiringSoon Freshness = "expiring_soon"
	FreshnessExpired      Freshness = "expired"
)

// FreshnessAt classifies expiry against now and the six month horizon
func FreshnessAt(expiry, now time.Time) Freshness {
	switch {
	case expiry.Before(now):
		return FreshnessExpired
	case expiry.Before(now.AddDate(0, ExpiryHorizonMonths, 0)):
		return FreshnessExpiringSoon
	default:
		return FreshnessActive
	}
}

// NeedsReminder reports whether a freshness status warrants a warning
func (f Freshness) NeedsReminder() bool {
	switch f {
	case FreshnessExpired, FreshnessExpiringSoon:
		return true
	case FreshnessActive:
		return false
	default:
		return false
	}
}

// Document represents an uploaded document
type Document struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Category      string
	Country       *string
	FileName      string
	FileURL       string
	SizeBytes     int64
	MimeType      string
	ExtractedData map[string]any
	ExpiryDate    *time.Time
	UploadedAt    time.Time
	UpdatedAt     time.Time
}

// FreshnessAt returns nil when the document carries no expiry date
func (d *Document) FreshnessAt(now time.Time) *Freshness {
	if d.ExpiryDate == nil {
		return nil
	}
	f := FreshnessAt(*d.ExpiryDate, now)
	return &f
}

var mimeTypesByExtension = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// MimeTypeFromFileName infers a MIME type from the file extension
func MimeTypeFromFileName(fileName string) string {
	if mimeType, ok := mimeTypesByExtension[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mimeType
	}
	return "application/octet-stream"
}
