package domain

import (
	"time"

	"github.com/google/uuid"
)

// JobName identifies a background job
type JobName string

const (
	JobProcessDocument JobName = "process-document"
	JobCheckExpiry     JobName = "check-expiry"
)

// Job is the payload published on the task queue
type Job struct {
	Name       JobName   `json:"name"`
	DocumentID uuid.UUID `json:"documentId"`
	Category   string    `json:"category,omitempty"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// SweepResult summarizes one expiry sweep
type SweepResult struct {
	Checked  int
	Notified int
}
