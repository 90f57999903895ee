package domain

import (
	"time"

	"github.com/google/uuid"
)

// Passport represents a tracked passport, unique per owner and number
type Passport struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	PassportNumber string
	IssueDate      time.Time
	ExpiryDate     time.Time
	IssuingCountry string
	DocumentID     *uuid.UUID
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FreshnessAt classifies the passport expiry date
func (p *Passport) FreshnessAt(now time.Time) Freshness {
	return FreshnessAt(p.ExpiryDate, now)
}

// PassportInput carries the fields of a passport upsert
type PassportInput struct {
	PassportNumber string
	IssueDate      time.Time
	ExpiryDate     time.Time
	IssuingCountry string
	DocumentID     *uuid.UUID
}
