package document

import (
	"net/http"
	"time"
)

// V1DownloadURLResponse is a signed download url
type V1DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// GetDocumentV1 returns one document of the caller
func (h *HandlerV1) GetDocumentV1(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := identify(w, r, "documentID")
	if !ok {
		return
	}

	document, err := h.documentService.GetDocument(r.Context(), userID, documentID)
	if err != nil {
		h.writeError(w, r, "get document", err)
		return
	}

	h.writeJSON(w, http.StatusOK, toDocumentResponse(*document, h.now()))
}

// GetDownloadURLV1 returns a time limited url to the stored file
func (h *HandlerV1) GetDownloadURLV1(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := identify(w, r, "documentID")
	if !ok {
		return
	}

	url, expiresAt, err := h.documentService.GetDownloadURL(r.Context(), userID, documentID)
	if err != nil {
		h.writeError(w, r, "get download url", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DownloadURLResponse{URL: url, ExpiresAt: expiresAt})
}
