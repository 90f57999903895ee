package upload

import (
	"context"
	"vize-dostu/internal/core/domain"

	"github.com/google/uuid"
)

// GetSession returns the session with the chunks still to send
func (u *uploadService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*domain.SessionProgress, error) {
	repo := u.uow.UploadSessionRepo()

	session, err := ownedSession(ctx, repo, userID, sessionID, false)
	if err != nil {
		return nil, err
	}

	parts, err := repo.ListParts(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &domain.SessionProgress{
		Session:       *session,
		MissingChunks: domain.NewPartTable(session.TotalChunks, parts).Missing(),
	}, nil
}
