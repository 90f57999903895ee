package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"vize-dostu/internal/adapters/handlers/http/chi/auth"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const (
	// chunkBodyLimit fits a base64 encoded 5MiB chunk plus the JSON envelope
	chunkBodyLimit   = 8 << 20
	defaultBodyLimit = 1 << 20
)

// HandlerV1 is the handler for v1 documents routes
type HandlerV1 struct {
	uploadService   port.UploadService
	documentService port.DocumentService
	maxFileSize     int64
	logger          *slog.Logger
	now             func() time.Time
}

// NewDocumentHandlerV1 creates HandlerV1
func NewDocumentHandlerV1(uploadService port.UploadService, documentService port.DocumentService, maxFileSize int64, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		uploadService:   uploadService,
		documentService: documentService,
		maxFileSize:     maxFileSize,
		logger:          logger,
		now:             time.Now,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequestSize(chunkBodyLimit)).Post("/upload-chunk/{sessionID}", h.UploadChunkV1)
	router.With(middleware.RequestSize(h.maxFileSize+defaultBodyLimit)).Post("/upload", h.DirectUploadV1)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequestSize(defaultBodyLimit))

		r.Post("/init-upload", h.InitUploadV1)
		r.Get("/upload-session/{sessionID}", h.GetUploadSessionV1)
		r.Delete("/upload-session/{sessionID}", h.AbortUploadV1)
		r.Post("/complete-upload/{sessionID}", h.CompleteUploadV1)

		r.Get("/", h.ListDocumentsV1)
		r.Get("/{documentID}", h.GetDocumentV1)
		r.Get("/{documentID}/download", h.GetDownloadURLV1)
		r.Put("/{documentID}/expiry", h.SetExpiryDateV1)
		r.Delete("/{documentID}", h.DeleteDocumentV1)
	})

	return router
}

// identify returns the caller and the uuid path parameter param
func identify(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing user id", http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}
	if param == "" {
		return userID, uuid.Nil, true
	}

	raw := chi.URLParam(r, param)
	if raw == "" {
		http.Error(w, param+" is required", http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, uuid.Nil, false
	}
	return userID, id, true
}

func (h *HandlerV1) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrFileTooLarge), errors.As(err, &maxBytesErr):
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidSessionState), errors.Is(err, domain.ErrIncompleteUpload):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, domain.ErrSessionExpired):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, domain.ErrStorage):
		h.logger.ErrorContext(r.Context(), "storage failure", "operation", operation, "error", err)
		http.Error(w, "storage unavailable", http.StatusBadGateway)
	default:
		h.logger.ErrorContext(r.Context(), "unexpected error", "operation", operation, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *HandlerV1) writeJSON(w http.ResponseWriter, status int, resp any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("error encoding response", "error", err)
	}
}

// invalidBody keeps body size errors distinguishable from malformed input
func invalidBody(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrValidation, err)
}
