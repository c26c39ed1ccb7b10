package api

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	userIDKey contextKey = "userID"
	emailKey  contextKey = "email"
)

// withIdentity attaches the caller's identity to the request context when a
// valid Bearer token is present. Requests without one proceed as guests.
func (s *Server) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.auth.VerifyAccessToken(token)
		if err != nil {
			// An invalid token is rejected outright rather than
			// downgraded to a guest, so clients notice expiry.
			response.Unauthorized(w, "invalid or expired access token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, emailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth rejects requests without an authenticated user.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if getUserID(r.Context()) == "" {
			response.Unauthorized(w, "authentication required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireAdmin rejects requests unless the authenticated user's email is on
// the admin allow-list.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email := getEmail(r.Context())
		if email == "" {
			response.Unauthorized(w, "authentication required", s.logger)
			return
		}
		if !s.admin.IsAdmin(email) {
			response.Forbidden(w, "ADMIN_ACCESS_REQUIRED", "admin access required", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimit applies per-client-IP rate limiting.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(getClientIP(r)) {
			response.TooManyRequests(w, "too many requests, slow down", s.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from the Authorization header, or "" when
// the header is absent or malformed.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getUserID retrieves the authenticated user ID from the context, or "" for
// guests.
func getUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// getEmail retrieves the authenticated user's email from the context.
func getEmail(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}

// getClientIP extracts the client IP, preferring proxy headers over the
// raw remote address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
