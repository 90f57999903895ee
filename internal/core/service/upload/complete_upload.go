package upload

import (
	"context"
	"fmt"
	"time"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"
	"vize-dostu/internal/core/service/besteffort"

	"github.com/google/uuid"
)

// CompleteUpload assembles the stored parts and creates the document
func (u *uploadService) CompleteUpload(ctx context.Context, userID, sessionID uuid.UUID) (*domain.Document, error) {
	now := u.now()

	session, table, err := u.claimForCompletion(ctx, userID, sessionID, now)
	if err != nil {
		return nil, err
	}

	fileURL, err := u.store.CompleteMultipartUpload(ctx, session.StorageKey, session.ProviderUploadID, table.Ordered())
	if err != nil {
		u.logger.ErrorContext(ctx, "failed to complete multipart upload", "session_id", session.ID, "error", err)
		u.abortRemote(ctx, session)
		u.releaseClaim(ctx, session)
		return nil, storageErr("complete multipart upload", err)
	}

	document := domain.Document{
		ID:         uuid.New(),
		UserID:     session.UserID,
		Category:   session.Category,
		Country:    session.Country,
		FileName:   session.FileName,
		FileURL:    fileURL,
		SizeBytes:  session.TotalSize,
		MimeType:   domain.MimeTypeFromFileName(session.FileName),
		UploadedAt: now,
		UpdatedAt:  now,
	}

	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		if txErr := uow.UploadSessionRepo().TransitionStatus(ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusCompleted); txErr != nil {
			return txErr
		}
		return uow.DocumentRepo().Create(ctx, document)
	})
	if err != nil {
		u.logger.ErrorContext(ctx, "failed to store completed document", "session_id", session.ID, "error", err)
		besteffort.Run(ctx, u.logger, "delete assembled object", func(ctx context.Context) error {
			return u.store.DeleteObject(ctx, fileURL)
		}, "session_id", session.ID)
		u.releaseClaim(ctx, session)
		return nil, err
	}

	u.logger.InfoContext(ctx, "upload completed", "session_id", session.ID, "document_id", document.ID)
	u.afterDocumentCreated(ctx, &document)

	return &document, nil
}

// claimForCompletion moves a fully uploaded session to completing, only one caller can win it
func (u *uploadService) claimForCompletion(ctx context.Context, userID, sessionID uuid.UUID, now time.Time) (*domain.UploadSession, domain.PartTable, error) {
	var (
		session *domain.UploadSession
		table   domain.PartTable
	)

	err := u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		repo := uow.UploadSessionRepo()

		locked, txErr := ownedSession(ctx, repo, userID, sessionID, true)
		if txErr != nil {
			return txErr
		}
		if txErr = checkWritable(locked, now); txErr != nil {
			return txErr
		}

		parts, txErr := repo.ListParts(ctx, locked.ID)
		if txErr != nil {
			return txErr
		}
		table = domain.NewPartTable(locked.TotalChunks, parts)
		if locked.UploadedChunks != locked.TotalChunks || !table.Complete() {
			return fmt.Errorf("%w: %d of %d chunks stored, missing %v",
				domain.ErrIncompleteUpload, locked.UploadedChunks, locked.TotalChunks, table.Missing())
		}

		if txErr = repo.TransitionStatus(ctx, locked.ID, domain.UploadSessionStatusInProgress, domain.UploadSessionStatusCompleting); txErr != nil {
			return txErr
		}
		locked.Status = domain.UploadSessionStatusCompleting
		session = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return session, table, nil
}

// releaseClaim aborts a session this caller moved to completing
func (u *uploadService) releaseClaim(ctx context.Context, session *domain.UploadSession) {
	besteffort.Run(ctx, u.logger, "mark session aborted", func(ctx context.Context) error {
		return u.uow.UploadSessionRepo().TransitionStatus(ctx, session.ID, domain.UploadSessionStatusCompleting, domain.UploadSessionStatusAborted)
	}, "session_id", session.ID)
}
