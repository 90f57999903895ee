package passport

import (
	"encoding/json"
	"errors"
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

// HandlerV1 is the handler for v1 passports routes
type HandlerV1 struct {
	passportService port.PassportService
	logger          *slog.Logger
	now             func() time.Time
}

// NewPassportHandlerV1 creates HandlerV1
func NewPassportHandlerV1(service port.PassportService, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		passportService: service,
		logger:          logger,
		now:             time.Now,
	}
}

// Routes exposes handler routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequestSize(1 << 20))

	router.Post("/", h.UpsertPassportV1)
	router.Get("/", h.ListPassportsV1)
	router.Get("/{passportID}", h.GetPassportV1)
	router.Delete("/{passportID}", h.DeletePassportV1)

	return router
}

func (h *HandlerV1) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPassportNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
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

func passportID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "passportID"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

func userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "missing user id", http.StatusUnauthorized)
	}
	return id, ok
}
