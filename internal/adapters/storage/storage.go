// Package storage selects the object store configured for the process.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"vize-dostu/internal/adapters/storage/minio"
	"vize-dostu/internal/adapters/storage/s3"
	"vize-dostu/internal/config"
	"vize-dostu/internal/core/port"
)

// New returns the object store named by cfg.Storage.Driver
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.ObjectStore, error) {
	switch cfg.Storage.Driver {
	case "minio":
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	case "s3":
		return s3.NewAdapter(ctx, cfg.S3, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
