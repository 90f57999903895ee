package cleanup

import (
	"context"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/service/besteffort"
)

// CleanupExpiredSessions aborts the remote upload of every open session past its expiry
func (c *cleanupService) CleanupExpiredSessions(ctx context.Context, now time.Time) error {

	sessions, err := c.uow.UploadSessionRepo().FindAllExpired(ctx, now)
	if err != nil {
		return err
	}

	expired := 0
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}

		besteffort.Run(ctx, c.logger, "abort multipart upload", func(ctx context.Context) error {
			return c.store.AbortMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID)
		}, "session_id", session.ID)

		transitionErr := c.uow.UploadSessionRepo().TransitionStatus(ctx, session.ID, session.Status, domain.UploadSessionStatusExpired)
		if transitionErr != nil {
			c.logger.Error("Failed to expire session", "session_id", session.ID, "err", transitionErr)
			continue
		}
		expired++
	}
	c.logger.Info("expire sessions completed", "found", len(sessions), "expired", expired)
	return nil
}
