package cleanup

import (
	"log/slog"
	"vize-dostu/internal/core/port"
)

type cleanupService struct {
	uow    port.UnitOfWork
	store  port.ObjectStore
	logger *slog.Logger
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(uow port.UnitOfWork, store port.ObjectStore, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:    uow,
		store:  store,
		logger: logger,
	}
}
