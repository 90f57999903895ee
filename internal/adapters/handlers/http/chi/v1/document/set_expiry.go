package document

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
	"vize-dostu/internal/core/domain"
)

// V1SetExpiryRequest sets or clears the expiry date, as YYYY-MM-DD or RFC3339
type V1SetExpiryRequest struct {
	ExpiryDate *string `json:"expiryDate"`
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", domain.ErrValidation, value)
	}
	return t.UTC(), nil
}

// SetExpiryDateV1 updates the expiry date of a document
func (h *HandlerV1) SetExpiryDateV1(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := identify(w, r, "documentID")
	if !ok {
		return
	}

	var req V1SetExpiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, "decode expiry", invalidBody(err))
		return
	}

	var expiryDate *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		parsed, err := parseDate(*req.ExpiryDate)
		if err != nil {
			h.writeError(w, r, "parse expiry", err)
			return
		}
		expiryDate = &parsed
	}

	document, err := h.documentService.SetExpiryDate(r.Context(), userID, documentID, expiryDate)
	if err != nil {
		h.writeError(w, r, "set expiry date", err)
		return
	}

	h.writeJSON(w, http.StatusOK, toDocumentResponse(*document, h.now()))
}
