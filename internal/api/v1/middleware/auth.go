package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/parleyhq/parley/internal/services/session"
	"github.com/parleyhq/parley/pkg/httpext"
)

type contextKey string

const (
	sessionClaimsKey contextKey = "sessionClaims"
)

// ExtractToken pulls a bearer token from the Authorization header.
func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

// RequireAuth validates the bearer session token and stores its claims in the
// request context.
func RequireAuth(sessionService *session.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractToken(r)
			if tokenString == "" {
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := sessionService.ValidateToken(tokenString)
			if err != nil || claims == nil {
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionClaims retrieves the validated session claims from the request context
func GetSessionClaims(r *http.Request) *session.SessionClaims {
	if claims, ok := r.Context().Value(sessionClaimsKey).(*session.SessionClaims); ok {
		return claims
	}
	return nil
}
