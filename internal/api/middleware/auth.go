package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mcoot/baseballgame-go/internal/api/apierr"
	"github.com/mcoot/baseballgame-go/internal/model"
)

type contextKey string

const userContextKey contextKey = "user"

// TokenVerifier resolves a bearer token to its user
type TokenVerifier interface {
	VerifyToken(token string) (model.UserID, error)
}

// Auth creates authentication middleware accepting the login token as a bearer token
func Auth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				apierr.WriteError(w, apierr.NewUnauthorizedError())
				return
			}

			userID, err := verifier.VerifyToken(token)
			if err != nil {
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken extracts the bearer token from the request
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// GetUserID returns the authenticated user from the request context
func GetUserID(ctx context.Context) (model.UserID, bool) {
	userID, ok := ctx.Value(userContextKey).(model.UserID)
	return userID, ok
}

// MustGetUserID returns the authenticated user or panics
func MustGetUserID(ctx context.Context) model.UserID {
	userID, ok := GetUserID(ctx)
	if !ok {
		panic("no user in context - auth middleware not applied?")
	}
	return userID
}
