package document

import (
	"net/http"
	"vize-dostu/internal/adapters/metrics"
)

// CompleteUploadV1 assembles the chunks of a session into a document
func (h *HandlerV1) CompleteUploadV1(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := identify(w, r, "sessionID")
	if !ok {
		return
	}

	document, err := h.uploadService.CompleteUpload(r.Context(), userID, sessionID)
	if err != nil {
		h.writeError(w, r, "complete upload", err)
		return
	}

	metrics.UploadSession("completed")
	h.writeJSON(w, http.StatusCreated, toDocumentResponse(*document, h.now()))
}
