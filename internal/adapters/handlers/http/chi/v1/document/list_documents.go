package document

import "net/http"

// ListDocumentsV1 lists the documents of the caller, optionally filtered by ?country=
func (h *HandlerV1) ListDocumentsV1(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identify(w, r, "")
	if !ok {
		return
	}

	var country *string
	if value := r.URL.Query().Get("country"); value != "" {
		country = &value
	}

	documents, err := h.documentService.ListDocuments(r.Context(), userID, country)
	if err != nil {
		h.writeError(w, r, "list documents", err)
		return
	}

	now := h.now()
	resp := make([]V1DocumentResponse, 0, len(documents))
	for _, document := range documents {
		resp = append(resp, toDocumentResponse(document, now))
	}
	h.writeJSON(w, http.StatusOK, resp)
}
