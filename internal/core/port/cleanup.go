package port

import (
	"context"
	"time"
)

// CleanupService is service that handles cleanup
type CleanupService interface {
	CleanupExpiredSessions(ctx context.Context, now time.Time) error
	PurgeFinishedSessions(ctx context.Context, before time.Time) error
}
