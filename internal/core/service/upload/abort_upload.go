package upload

import (
	"context"
	"fmt"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// AbortUpload discards a session that is still open
func (u *uploadService) AbortUpload(ctx context.Context, userID, sessionID uuid.UUID) error {
	repo := u.uow.UploadSessionRepo()

	session, err := ownedSession(ctx, repo, userID, sessionID, false)
	if err != nil {
		return err
	}
	switch session.Status {
	case domain.UploadSessionStatusInitializing, domain.UploadSessionStatusInProgress:
	default:
		return fmt.Errorf("%w: session is %s", domain.ErrInvalidSessionState, session.Status)
	}

	// a completion that claimed the session first makes this fail
	if err := repo.TransitionStatus(ctx, session.ID, session.Status, domain.UploadSessionStatusAborted); err != nil {
		return err
	}

	u.abortRemote(ctx, session)

	u.logger.InfoContext(ctx, "upload aborted", "session_id", session.ID)
	return nil
}
