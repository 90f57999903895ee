package document

import (
	"net/http"
	"time"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// V1UploadSessionResponse describes a session so a client can resume it
type V1UploadSessionResponse struct {
	UploadID       uuid.UUID                  `json:"uploadId"`
	FileName       string                     `json:"fileName"`
	Status         domain.UploadSessionStatus `json:"status"`
	ChunkSize      int64                      `json:"chunkSize"`
	UploadedChunks int                        `json:"uploadedChunks"`
	TotalChunks    int                        `json:"totalChunks"`
	Progress       int                        `json:"progress"`
	MissingChunks  []int                      `json:"missingChunks"`
	ExpiresAt      time.Time                  `json:"expiresAt"`
}

// V1AbortUploadResponse acknowledges an aborted session
type V1AbortUploadResponse struct {
	Aborted bool `json:"aborted"`
}

// GetUploadSessionV1 returns the progress of a session
func (h *HandlerV1) GetUploadSessionV1(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := identify(w, r, "sessionID")
	if !ok {
		return
	}

	progress, err := h.uploadService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		h.writeError(w, r, "get upload session", err)
		return
	}

	session := progress.Session
	h.writeJSON(w, http.StatusOK, V1UploadSessionResponse{
		UploadID:       session.ID,
		FileName:       session.FileName,
		Status:         session.Status,
		ChunkSize:      session.ChunkSize,
		UploadedChunks: session.UploadedChunks,
		TotalChunks:    session.TotalChunks,
		Progress:       domain.ProgressPercent(session.Progress()),
		MissingChunks:  progress.MissingChunks,
		ExpiresAt:      session.ExpiresAt,
	})
}

// AbortUploadV1 cancels a session and releases its stored parts
func (h *HandlerV1) AbortUploadV1(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := identify(w, r, "sessionID")
	if !ok {
		return
	}

	if err := h.uploadService.AbortUpload(r.Context(), userID, sessionID); err != nil {
		h.writeError(w, r, "abort upload", err)
		return
	}

	metrics.UploadSession("aborted")
	h.writeJSON(w, http.StatusOK, V1AbortUploadResponse{Aborted: true})
}
