package document

import (
	"encoding/json"
	"net/http"
	"time"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// V1InitUploadRequest is the request to open a chunked upload session
type V1InitUploadRequest struct {
	FileName     string  `json:"fileName"`
	FileSize     int64   `json:"fileSize"`
	DocumentType string  `json:"documentType"`
	Country      *string `json:"country"`
}

// V1InitUploadResponse is the chunking plan of a new session
type V1InitUploadResponse struct {
	UploadID   uuid.UUID `json:"uploadId"`
	ChunkCount int       `json:"chunkCount"`
	ChunkSize  int64     `json:"chunkSize"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// InitUploadV1 opens an upload session
func (h *HandlerV1) InitUploadV1(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := identify(w, r, "")
	if !ok {
		return
	}

	var req V1InitUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("error decoding init upload request", "error", err)
		h.writeError(w, r, "decode init upload", invalidBody(err))
		return
	}

	plan, err := h.uploadService.InitUpload(r.Context(), domain.InitUploadRequest{
		UserID:    userID,
		FileName:  req.FileName,
		TotalSize: req.FileSize,
		Category:  req.DocumentType,
		Country:   req.Country,
	})
	if err != nil {
		h.writeError(w, r, "init upload", err)
		return
	}

	metrics.UploadSession("opened")
	h.writeJSON(w, http.StatusCreated, V1InitUploadResponse{
		UploadID:   plan.SessionID,
		ChunkCount: plan.ChunkCount,
		ChunkSize:  plan.ChunkSize,
		ExpiresAt:  plan.ExpiresAt,
	})
}
