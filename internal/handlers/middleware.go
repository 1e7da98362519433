package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"storynest/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	ChildContextKey  ContextKey = "childID"
	ParentContextKey ContextKey = "parentID"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	verifier *security.TokenVerifier
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(verifier *security.TokenVerifier, limiter *security.RateLimiter) *Middleware {
	return &Middleware{verifier: verifier, limiter: limiter}
}

// RequireChildAuth requires a bearer token with the child role
func (m *Middleware) RequireChildAuth(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(security.RoleChild, ChildContextKey, next)
}

// RequireParentAuth requires a bearer token with the parent role
func (m *Middleware) RequireParentAuth(next http.HandlerFunc) http.HandlerFunc {
	return m.requireRole(security.RoleParent, ParentContextKey, next)
}

func (m *Middleware) requireRole(role string, key ContextKey, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := m.verifier.Verify(bearerToken(r))
		if err != nil || claims.Role != role {
			respondWithError(w, http.StatusUnauthorized, CodeUnauthorized, "missing or invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), key, claims.SubjectID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the per-IP request budget
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, CodeRateLimited, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// ChildIDFromContext retrieves the authenticated child's id
func ChildIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(ChildContextKey).(int64)
	return id
}

// ParentIDFromContext retrieves the authenticated parent's id
func ParentIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(ParentContextKey).(int64)
	return id
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
