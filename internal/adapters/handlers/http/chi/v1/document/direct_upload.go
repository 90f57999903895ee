package document

import (
	"io"
	"net/http"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/core/domain"
)

// multipartMemory is the part of a form kept in memory, the rest spills to disk
const multipartMemory = 32 << 20

// DirectUploadV1 stores a file sent as multipart/form-data in one request
func (h *HandlerV1) DirectUploadV1(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identify(w, r, "")
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.writeError(w, r, "parse multipart form", invalidBody(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.writeError(w, r, "direct upload", domain.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.writeError(w, r, "read form file", err)
		return
	}

	var country *string
	if value := r.FormValue("country"); value != "" {
		country = &value
	}

	document, err := h.uploadService.DirectUpload(r.Context(), domain.DirectUploadRequest{
		UserID:   userID,
		FileName: header.Filename,
		Data:     data,
		MimeType: header.Header.Get("Content-Type"),
		Category: r.FormValue("documentType"),
		Country:  country,
	})
	if err != nil {
		h.writeError(w, r, "direct upload", err)
		return
	}

	metrics.UploadSession("direct")
	h.writeJSON(w, http.StatusCreated, toDocumentResponse(*document, h.now()))
}
