package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"strokeclash/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const SessionContextKey ContextKey = "session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens       *security.TokenIssuer
	limiter      *security.RateLimiter
	adminKeyHash string
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter, adminKeyHash string) *Middleware {
	return &Middleware{
		tokens:       tokens,
		limiter:      limiter,
		adminKeyHash: adminKeyHash,
	}
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			writeJSON(w, http.StatusTooManyRequests, errorResponse{
				Error:   "rate_limited",
				Message: "too many requests",
			})
			return
		}
		next(w, r)
	}
}

// RequireSession validates the bearer token issued at session start and puts
// its claims on the request context
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error:   "unauthorized",
				Message: "missing bearer token",
			})
			return
		}

		claims, err := m.tokens.Verify(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{
				Error:   "unauthorized",
				Message: "invalid session token",
			})
			return
		}

		ctx := context.WithValue(r.Context(), SessionContextKey, claims)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin checks the X-Admin-Key header against the configured hash.
// With no hash configured every request is rejected.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !security.VerifyAdminKey(m.adminKeyHash, r.Header.Get("X-Admin-Key")) {
			writeJSON(w, http.StatusForbidden, errorResponse{
				Error:   "forbidden",
				Message: "invalid admin key",
			})
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetSessionClaims retrieves the verified session claims from the request
// context, nil outside RequireSession
func GetSessionClaims(ctx context.Context) *security.SessionClaims {
	claims, ok := ctx.Value(SessionContextKey).(*security.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}
