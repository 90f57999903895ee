// Package besteffort runs side effects whose failure must not fail the caller.
package besteffort

import (
	"context"
	"log/slog"
)

// Run executes fn and logs its error instead of returning it
func Run(ctx context.Context, logger *slog.Logger, operation string, fn func(ctx context.Context) error, attrs ...any) {
	if err := fn(ctx); err != nil {
		logger.WarnContext(ctx, "best effort operation failed", append([]any{"operation", operation, "error", err}, attrs...)...)
	}
}
