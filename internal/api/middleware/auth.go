package middleware

import (
	"context"
	"net/http"
	"strings"

	"contactdeck/internal/utils"
	"github.com/google/uuid"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

// AuthGuard requires a valid bearer token before a protected handler runs.
// Routes declare it as a dependency; it is not a closure over globals.
type AuthGuard struct {
	tokens TokenVerifier
}

func NewAuthGuard(tokens TokenVerifier) *AuthGuard {
	return &AuthGuard{tokens: tokens}
}

// Handler wraps next, rejecting requests without a resolvable identity.
// Missing token: 401. Present but invalid or expired: 403.
func (g *AuthGuard) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			utils.Error(w, http.StatusUnauthorized, "Authentication token required")
			return
		}

		userID, err := g.tokens.Verify(tokenStr)
		if err != nil {
			utils.Error(w, http.StatusForbidden, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the identity the guard attached to the request context.
func UserID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(userIDKey).(uuid.UUID)
	return id, ok
}
