package cleanup

import (
	"context"
	"time"
)

// PurgeFinishedSessions deletes terminal sessions last updated before the cutoff
func (c *cleanupService) PurgeFinishedSessions(ctx context.Context, before time.Time) error {
	deleted, err := c.uow.UploadSessionRepo().DeleteFinishedBefore(ctx, before)
	if err != nil {
		return err
	}
	c.logger.Info("purge finished sessions completed", "deleted", deleted, "before", before)
	return nil
}
