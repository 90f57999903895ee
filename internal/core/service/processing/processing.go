package processing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

// sniffLength is the number of bytes content detection looks at
const sniffLength = 512

type jobHandler struct {
	uow        port.UnitOfWork
	store      port.ObjectStore
	dispatcher port.Dispatcher
	expiry     port.ExpiryService
	logger     *slog.Logger
	now        func() time.Time
}

// NewJobHandler creates the consumer side of the task queue
func NewJobHandler(uow port.UnitOfWork, store port.ObjectStore, dispatcher port.Dispatcher, expiry port.ExpiryService, logger *slog.Logger) port.MessageService {
	return &jobHandler{
		uow:        uow,
		store:      store,
		dispatcher: dispatcher,
		expiry:     expiry,
		logger:     logger,
		now:        time.Now,
	}
}

// HandleMessage runs one job, an error makes the broker redeliver it
func (h *jobHandler) HandleMessage(ctx context.Context, data []byte) error {
	var job domain.Job
	if err := json.Unmarshal(data, &job); err != nil {
		h.logger.ErrorContext(ctx, "dropping undecodable job", "error", err)
		return nil
	}
	if job.DocumentID == uuid.Nil {
		h.logger.ErrorContext(ctx, "dropping job without document", "job", job.Name)
		return nil
	}

	h.logger.InfoContext(ctx, "handling job", "job", job.Name, "document_id", job.DocumentID)

	switch job.Name {
	case domain.JobProcessDocument:
		return h.processDocument(ctx, job)
	case domain.JobCheckExpiry:
		_, err := h.expiry.CheckDocument(ctx, job.DocumentID, h.now())
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil
		}
		return err
	default:
		h.logger.WarnContext(ctx, "dropping unknown job", "job", job.Name)
		return nil
	}
}

func (h *jobHandler) processDocument(ctx context.Context, job domain.Job) error {
	document, err := h.uow.DocumentRepo().FindByID(ctx, job.DocumentID)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		h.logger.WarnContext(ctx, "document deleted before processing", "document_id", job.DocumentID)
		return nil
	}
	if err != nil {
		return err
	}

	key, err := h.store.KeyFromURL(document.FileURL)
	if err != nil {
		return err
	}

	header, err := h.store.GetHeaderBytes(ctx, key, sniffLength)
	if err != nil {
		return err
	}
	detected := mediaType(http.DetectContentType(header))

	category := job.Category
	if category == "" {
		category = document.Category
	}

	extracted := make(map[string]any, len(document.ExtractedData)+5)
	maps.Copy(extracted, document.ExtractedData)
	extracted["processed"] = true
	extracted["processed_at"] = h.now().UTC().Format(time.RFC3339)
	extracted["category"] = category
	extracted["detected_mime_type"] = detected
	extracted["mime_mismatch"] = !compatibleMimeTypes(document.MimeType, detected)

	if err := h.uow.DocumentRepo().UpdateExtractedData(ctx, document.ID, extracted); err != nil {
		return err
	}

	if document.ExpiryDate != nil {
		besteffort.Run(ctx, h.logger, "enqueue expiry check", func(ctx context.Context) error {
			return h.dispatcher.EnqueueExpiryCheck(ctx, document.ID)
		}, "document_id", document.ID)
	}

	h.logger.InfoContext(ctx, "document processed", "document_id", document.ID, "detected_mime_type", detected)
	return nil
}

// mediaType drops parameters such as charset
func mediaType(contentType string) string {
	value, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(value)
}

// containerTypes are detected for formats the sniffer only knows by their container
var containerTypes = map[string]string{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "application/zip",
	"application/msword": "application/octet-stream",
}

func compatibleMimeTypes(declared, detected string) bool {
	if declared == detected || declared == "application/octet-stream" {
		return true
	}
	return containerTypes[declared] == detected
}
