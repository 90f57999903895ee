package domain_test

import (
	"testing"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestFreshnessAt(t *testing.T) {
	now := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		expiry time.Time
		want   domain.Freshness
	}{
		{name: "yesterday", expiry: now.AddDate(0, 0, -1), want: domain.FreshnessExpired},
		{name: "a second ago", expiry: now.Add(-time.Second), want: domain.FreshnessExpired},
		{name: "expires now", expiry: now, want: domain.FreshnessExpiringSoon},
		{name: "in 90 days", expiry: now.AddDate(0, 0, 90), want: domain.FreshnessExpiringSoon},
		{name: "just under six months", expiry: now.AddDate(0, 6, 0).Add(-time.Second), want: domain.FreshnessExpiringSoon},
		{name: "exactly six months", expiry: now.AddDate(0, 6, 0), want: domain.FreshnessActive},
		{name: "in two years", expiry: now.AddDate(2, 0, 0), want: domain.FreshnessActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.FreshnessAt(tt.expiry, now))
		})
	}
}

func TestFreshness_NeedsReminder(t *testing.T) {
	assert.True(t, domain.FreshnessExpired.NeedsReminder())
	assert.True(t, domain.FreshnessExpiringSoon.NeedsReminder())
	assert.False(t, domain.FreshnessActive.NeedsReminder())
}

func TestDocument_FreshnessAt(t *testing.T) {
	now := time.Now()
	expiry := now.AddDate(0, 1, 0)

	undated := domain.Document{}
	dated := domain.Document{ExpiryDate: &expiry}

	assert.Nil(t, undated.FreshnessAt(now))
	assert.Equal(t, domain.FreshnessExpiringSoon, *dated.FreshnessAt(now))
}

func TestMimeTypeFromFileName(t *testing.T) {
	tests := map[string]string{
		"scan.PDF":     "application/pdf",
		"photo.jpeg":   "image/jpeg",
		"photo.JPG":    "image/jpeg",
		"letter.docx":  "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"archive.zip":  "application/octet-stream",
		"no-extension": "application/octet-stream",
	}
	for fileName, want := range tests {
		t.Run(fileName, func(t *testing.T) {
			assert.Equal(t, want, domain.MimeTypeFromFileName(fileName))
		})
	}
}
