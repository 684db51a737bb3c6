package daemon

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"contentops/internal/content"
	"contentops/internal/services"
)

const (
	headerUserID    = "X-User-ID"
	headerUserRoles = "X-User-Roles"
	headerRequestID = "X-Request-ID"
)

// authMiddleware returns a middleware that validates bearer tokens.
// If token is empty, no authentication is required and all requests pass through.
// Otherwise, requests must include "Authorization: Bearer <token>" header.
func authMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			w.Header().Set("Content-Type", "application/json")
			http.Error(w, `{"error":{"code":"unauthorized","message":"unauthorized"}}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestMiddleware tags each request with a correlation id, reusing the
// caller's X-Request-ID when present, and records the acting user.
func requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get(headerRequestID))
		if rid == "" {
			rid = uuid.NewString()
		}
		w.Header().Set(headerRequestID, rid)
		ctx := services.WithRequestID(r.Context(), rid)
		ctx = services.WithUserID(ctx, strings.TrimSpace(r.Header.Get(headerUserID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identity builds the authorization context from the session collaborator's
// headers.
func identity(r *http.Request) content.AuthorizationContext {
	return content.NewAuthorization(
		strings.TrimSpace(r.Header.Get(headerUserID)),
		r.Header.Get(headerUserRoles),
	)
}
