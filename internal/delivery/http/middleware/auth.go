package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "groupgetaway/internal/delivery/http/helpers"
	"groupgetaway/internal/domain"
)

type contextKey string

const (
	userIDKey contextKey = "userID"
	roleKey   contextKey = "role"
)

// SetUser returns a context with the user ID and role set. Used by auth middleware.
func SetUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserIDFromContext returns the authenticated user ID from the context, if present.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// RoleFromContext returns the authenticated user's role from the context, if present.
func RoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok
}

// RequireAuth returns a wrapper that validates the Bearer token and sets the
// user ID and role in the request context. If the token is missing or invalid,
// it responds with 401 and does not call next.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			userID, role, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			r = r.WithContext(SetUser(r.Context(), userID, role))
			next(w, r)
		}
	}
}

// RequireRole returns a wrapper that rejects requests whose authenticated role
// does not match. Must run after RequireAuth.
func RequireRole(role string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got, ok := RoleFromContext(r.Context())
			if !ok || got != role {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "insufficient role")
				return
			}
			next(w, r)
		}
	}
}
