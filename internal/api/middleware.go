package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/diyabooks/diya-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID  contextKey = "user_id"
	contextKeyPremium contextKey = "premium"
	contextKeyAdmin   contextKey = "admin"
	contextKeyToken   contextKey = "token"
)

// requireAuth validates the bearer session token and attaches the
// caller's identity to the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}
		token := parts[1]

		user, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired session", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, user.ID)
		ctx = context.WithValue(ctx, contextKeyPremium, user.Premium)
		ctx = context.WithValue(ctx, contextKeyAdmin, user.Admin)
		ctx = context.WithValue(ctx, contextKeyToken, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin ensures the authenticated user has admin access.
// Must be used after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r.Context()) {
			response.Forbidden(w, "Admin access required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// getUserID extracts the authenticated user ID from request context.
// Returns zero if not authenticated.
func getUserID(ctx context.Context) int64 {
	if userID, ok := ctx.Value(contextKeyUserID).(int64); ok {
		return userID
	}
	return 0
}

// isAdmin checks if the authenticated user has admin access.
func isAdmin(ctx context.Context) bool {
	if admin, ok := ctx.Value(contextKeyAdmin).(bool); ok {
		return admin
	}
	return false
}

// getToken extracts the bearer token from request context.
func getToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeyToken).(string); ok {
		return token
	}
	return ""
}
