package passport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// V1UpsertPassportRequest is the request to create or update a passport, dates are YYYY-MM-DD
type V1UpsertPassportRequest struct {
	PassportNumber string     `json:"passportNumber"`
	IssueDate      string     `json:"issueDate"`
	ExpiryDate     string     `json:"expiryDate"`
	IssuingCountry string     `json:"issuingCountry"`
	DocumentID     *uuid.UUID `json:"documentId"`
}

// V1PassportResponse is the representation of a tracked passport
type V1PassportResponse struct {
	ID             uuid.UUID        `json:"id"`
	PassportNumber string           `json:"passportNumber"`
	IssueDate      string           `json:"issueDate"`
	ExpiryDate     string           `json:"expiryDate"`
	IssuingCountry string           `json:"issuingCountry"`
	DocumentID     *uuid.UUID       `json:"documentId,omitempty"`
	Freshness      domain.Freshness `json:"freshness"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func toPassportResponse(passport domain.Passport, now time.Time) V1PassportResponse {
	return V1PassportResponse{
		ID:             passport.ID,
		PassportNumber: passport.PassportNumber,
		IssueDate:      passport.IssueDate.Format(time.DateOnly),
		ExpiryDate:     passport.ExpiryDate.Format(time.DateOnly),
		IssuingCountry: passport.IssuingCountry,
		DocumentID:     passport.DocumentID,
		Freshness:      passport.FreshnessAt(now),
		UpdatedAt:      passport.UpdatedAt,
	}
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", domain.ErrInvalidPassport, field)
	}
	return t, nil
}

// UpsertPassportV1 creates a passport or updates the one with the same number
func (h *HandlerV1) UpsertPassportV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	var req V1UpsertPassportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding passport request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	issueDate, err := parseDate("issueDate", req.IssueDate)
	if err != nil {
		h.writeError(w, r, "parse issue date", err)
		return
	}
	expiryDate, err := parseDate("expiryDate", req.ExpiryDate)
	if err != nil {
		h.writeError(w, r, "parse expiry date", err)
		return
	}

	passport, err := h.passportService.UpsertPassport(r.Context(), owner, domain.PassportInput{
		PassportNumber: req.PassportNumber,
		IssueDate:      issueDate,
		ExpiryDate:     expiryDate,
		IssuingCountry: req.IssuingCountry,
		DocumentID:     req.DocumentID,
	})
	if err != nil {
		h.writeError(w, r, "upsert passport", err)
		return
	}

	h.writeJSON(w, http.StatusOK, toPassportResponse(*passport, h.now()))
}

// ListPassportsV1 lists the passports of the caller
func (h *HandlerV1) ListPassportsV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}

	passports, err := h.passportService.ListPassports(r.Context(), owner)
	if err != nil {
		h.writeError(w, r, "list passports", err)
		return
	}

	now := h.now()
	resp := make([]V1PassportResponse, 0, len(passports))
	for _, passport := range passports {
		resp = append(resp, toPassportResponse(passport, now))
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// GetPassportV1 returns one passport of the caller
func (h *HandlerV1) GetPassportV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := passportID(w, r)
	if !ok {
		return
	}

	passport, err := h.passportService.GetPassport(r.Context(), owner, id)
	if err != nil {
		h.writeError(w, r, "get passport", err)
		return
	}

	h.writeJSON(w, http.StatusOK, toPassportResponse(*passport, h.now()))
}

// DeletePassportV1 removes one passport of the caller
func (h *HandlerV1) DeletePassportV1(w http.ResponseWriter, r *http.Request) {
	owner, ok := userID(w, r)
	if !ok {
		return
	}
	id, ok := passportID(w, r)
	if !ok {
		return
	}

	if err := h.passportService.DeletePassport(r.Context(), owner, id); err != nil {
		h.writeError(w, r, "delete passport", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
