package processing

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

type dispatcher struct {
	queue port.TaskQueue
}

// NewDispatcher creates a dispatcher publishing jobs on queue
func NewDispatcher(queue port.TaskQueue) port.Dispatcher {
	return &dispatcher{queue: queue}
}

// EnqueueProcessing publishes a process-document job
func (d *dispatcher) EnqueueProcessing(ctx context.Context, documentID uuid.UUID, category string) error {
	return d.enqueue(ctx, domain.Job{
		Name:       domain.JobProcessDocument,
		DocumentID: documentID,
		Category:   category,
	})
}

// EnqueueExpiryCheck publishes a check-expiry job
func (d *dispatcher) EnqueueExpiryCheck(ctx context.Context, documentID uuid.UUID) error {
	return d.enqueue(ctx, domain.Job{
		Name:       domain.JobCheckExpiry,
		DocumentID: documentID,
	})
}

func (d *dispatcher) enqueue(ctx context.Context, job domain.Job) error {
	job.EnqueuedAt = time.Now().UTC()

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job %s: %w", job.Name, err)
	}

	if err := d.queue.Enqueue(ctx, job.Name, payload); err != nil {
		return fmt.Errorf("failed to enqueue job %s for document %s: %w", job.Name, job.DocumentID, err)
	}
	return nil
}
