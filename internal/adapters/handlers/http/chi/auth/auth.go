// Package auth reads the caller identity forwarded by the upstream gateway.
package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// UserIDHeader carries the authenticated user id
const UserIDHeader = "X-User-ID"

type contextKey struct{}

// RequireUser rejects requests without a valid user id header
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			http.Error(w, "missing user id", http.StatusUnauthorized)
			return
		}
		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			http.Error(w, "invalid user id", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID stores the user id in ctx
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserID returns the user id stored by RequireUser
func UserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(contextKey{}).(uuid.UUID)
	return userID, ok
}
