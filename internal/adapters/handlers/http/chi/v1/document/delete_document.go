package document

import "net/http"

// V1DeleteDocumentResponse acknowledges a deleted document
type V1DeleteDocumentResponse struct {
	Deleted bool `json:"deleted"`
}

// DeleteDocumentV1 removes a document and its stored file
func (h *HandlerV1) DeleteDocumentV1(w http.ResponseWriter, r *http.Request) {
	userID, documentID, ok := identify(w, r, "documentID")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(r.Context(), userID, documentID); err != nil {
		h.writeError(w, r, "delete document", err)
		return
	}

	h.writeJSON(w, http.StatusOK, V1DeleteDocumentResponse{Deleted: true})
}
