package upload

import (
	"context"
	"fmt"
	"vize-dostu/internal/core/domain"
	"vize-dostu/internal/core/port"

	"github.com/google/uuid"
)

// AcceptChunk stores one chunk as the part chunkIndex+1 of the session upload
func (u *uploadService) AcceptChunk(ctx context.Context, userID, sessionID uuid.UUID, chunkIndex int, data []byte) (*domain.ChunkReceipt, error) {
	repo := u.uow.UploadSessionRepo()

	session, err := ownedSession(ctx, repo, userID, sessionID, false)
	if err != nil {
		return nil, err
	}
	if err := checkWritable(session, u.now()); err != nil {
		return nil, err
	}

	if chunkIndex < 0 || chunkIndex >= session.TotalChunks {
		return nil, fmt.Errorf("%w: %d not in [0,%d)", domain.ErrInvalidChunkIndex, chunkIndex, session.TotalChunks)
	}
	if expected := session.ExpectedChunkSize(chunkIndex); int64(len(data)) != expected {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", domain.ErrInvalidChunkSize, len(data), expected)
	}

	parts, err := repo.ListParts(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if domain.NewPartTable(session.TotalChunks, parts).Has(chunkIndex) {
		u.logger.DebugContext(ctx, "chunk already stored", "session_id", session.ID, "chunk_index", chunkIndex)
		return receipt(chunkIndex, session), nil
	}

	partNumber := chunkIndex + 1
	etag, err := u.store.UploadPart(ctx, session.StorageKey, session.ProviderUploadID, partNumber, data)
	if err != nil {
		return nil, storageErr("upload part", err)
	}

	var updated *domain.UploadSession
	err = u.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		txRepo := uow.UploadSessionRepo()

		locked, txErr := ownedSession(ctx, txRepo, userID, sessionID, true)
		if txErr != nil {
			return txErr
		}
		if txErr = checkWritable(locked, u.now()); txErr != nil {
			return txErr
		}

		inserted, txErr := txRepo.RecordPart(ctx, locked.ID, domain.UploadPart{
			PartNumber: partNumber,
			ETag:       etag,
			SizeBytes:  int64(len(data)),
		})
		if txErr != nil {
			return txErr
		}
		if inserted {
			count, incErr := txRepo.IncrementUploadedChunks(ctx, locked.ID)
			if incErr != nil {
				return incErr
			}
			locked.UploadedChunks = count
		}

		updated = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.logger.DebugContext(ctx, "chunk stored",
		"session_id", updated.ID,
		"chunk_index", chunkIndex,
		"uploaded_chunks", updated.UploadedChunks,
		"total_chunks", updated.TotalChunks)

	return receipt(chunkIndex, updated), nil
}

func receipt(chunkIndex int, session *domain.UploadSession) *domain.ChunkReceipt {
	return &domain.ChunkReceipt{
		ChunkIndex:     chunkIndex,
		UploadedChunks: session.UploadedChunks,
		TotalChunks:    session.TotalChunks,
		Progress:       session.Progress(),
	}
}
