package document

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"vize-dostu/internal/adapters/metrics"
	"vize-dostu/internal/core/domain"
)

// V1UploadChunkRequest carries one base64 encoded chunk
type V1UploadChunkRequest struct {
	ChunkIndex *int   `json:"chunkIndex"`
	ChunkData  string `json:"chunkData"`
}

// V1UploadChunkResponse acknowledges a stored chunk
type V1UploadChunkResponse struct {
	ChunkIndex     int  `json:"chunkIndex"`
	Uploaded       bool `json:"uploaded"`
	Progress       int  `json:"progress"`
	UploadedChunks int  `json:"uploadedChunks"`
	TotalChunks    int  `json:"totalChunks"`
}

// UploadChunkV1 accepts a JSON body with base64 data or a raw octet-stream body with ?chunkIndex=
func (h *HandlerV1) UploadChunkV1(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := identify(w, r, "sessionID")
	if !ok {
		return
	}

	var (
		index int
		data  []byte
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/octet-stream" {
		parsed, err := strconv.Atoi(r.URL.Query().Get("chunkIndex"))
		if err != nil {
			http.Error(w, "chunkIndex query parameter is required", http.StatusBadRequest)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.writeError(w, r, "read chunk", err)
			return
		}
		index, data = parsed, body
	} else {
		var req V1UploadChunkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error("error decoding upload chunk request", "error", err)
			h.writeError(w, r, "decode chunk", invalidBody(err))
			return
		}
		if req.ChunkIndex == nil {
			http.Error(w, "chunkIndex is required", http.StatusBadRequest)
			return
		}
		decoded, err := base64.StdEncoding.DecodeString(req.ChunkData)
		if err != nil {
			http.Error(w, "chunkData must be base64", http.StatusBadRequest)
			return
		}
		index, data = *req.ChunkIndex, decoded
	}

	receipt, err := h.uploadService.AcceptChunk(r.Context(), userID, sessionID, index, data)
	if err != nil {
		h.writeError(w, r, "accept chunk", err)
		return
	}

	metrics.ChunkAccepted()
	h.writeJSON(w, http.StatusOK, V1UploadChunkResponse{
		ChunkIndex:     receipt.ChunkIndex,
		Uploaded:       true,
		Progress:       domain.ProgressPercent(receipt.Progress),
		UploadedChunks: receipt.UploadedChunks,
		TotalChunks:    receipt.TotalChunks,
	})
}

