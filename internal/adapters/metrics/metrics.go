// Package metrics holds the prometheus collectors shared by the api and the worker.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"
	"vize-dostu/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vize_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vize_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	scheduledRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vize_scheduled_job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "outcome"},
	)

	jobsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vize_queue_messages_handled_total",
			Help: "Total number of task queue messages handled by the worker",
		},
		[]string{"outcome"},
	)

	chunksAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vize_upload_chunks_accepted_total",
			Help: "Total number of upload chunks acknowledged",
		},
	)

	uploadSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vize_upload_sessions_total",
			Help: "Total number of upload sessions by outcome",
		},
		[]string{"outcome"},
	)

	expiryReminders = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vize_expiry_reminders_total",
			Help: "Total number of expiry reminders raised by the sweep",
		},
	)

	jobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vize_queue_message_duration_seconds",
			Help:    "Duration of task queue message handling",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// Middleware records count and latency per matched chi route
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// ObserveScheduledRun counts one run of a scheduled job
func ObserveScheduledRun(job string, err error) {
	scheduledRuns.WithLabelValues(job, outcome(err)).Inc()
}

// ChunkAccepted counts one acknowledged chunk
func ChunkAccepted() {
	chunksAccepted.Inc()
}

// UploadSession counts a session reaching outcome: opened, completed, aborted or direct
func UploadSession(outcome string) {
	uploadSessions.WithLabelValues(outcome).Inc()
}

// ExpiryReminders adds the reminders raised by one sweep
func ExpiryReminders(n int) {
	expiryReminders.Add(float64(n))
}

type instrumentedHandler struct {
	next port.MessageService
}

// InstrumentMessages wraps a message handler with outcome and latency metrics
func InstrumentMessages(next port.MessageService) port.MessageService {
	return &instrumentedHandler{next: next}
}

func (h *instrumentedHandler) HandleMessage(ctx context.Context, data []byte) error {
	timer := prometheus.NewTimer(jobDuration)
	defer timer.ObserveDuration()

	err := h.next.HandleMessage(ctx, data)
	jobsHandled.WithLabelValues(outcome(err)).Inc()
	return err
}
