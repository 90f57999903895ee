package chi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"vize-dostu/internal/adapters/handlers/http/chi/auth"
	"vize-dostu/internal/adapters/handlers/http/chi/v1/document"
	"vize-dostu/internal/adapters/handlers/http/chi/v1/passport"
	"vize-dostu/internal/adapters/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds http.Handler with chi
func NewRouter(logger *slog.Logger, documentHandler *document.HandlerV1, passportHandler *passport.HandlerV1, env string) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", auth.UserIDHeader},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireUser)
		if documentHandler != nil {
			r.Mount("/documents", documentHandler.Routes())
		}
		if passportHandler != nil {
			r.Mount("/passports", passportHandler.Routes())
		}
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp)
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}
