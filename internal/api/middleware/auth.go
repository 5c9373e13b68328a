package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcoot/bvzombies/internal/api/apierr"
	"github.com/mcoot/bvzombies/internal/model"
	"github.com/mcoot/bvzombies/internal/services/auth"
)

type contextKey string

const userContextKey contextKey = "user"

// Auth creates bearer-token middleware
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authService.Authenticate(r.Context(), extractToken(r))
			if err != nil {
				if errors.Is(err, model.ErrUserNotFound) {
					err = apierr.NewUnauthorizedError("Usuario no encontrado")
				}
				apierr.WriteError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken returns the second word of the Authorization header
func extractToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// GetUser returns the authenticated user from the request context
func GetUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userContextKey).(*model.User)
	return user
}

// MustGetUser returns the authenticated user or panics
func MustGetUser(ctx context.Context) *model.User {
	user := GetUser(ctx)
	if user == nil {
		panic("no user in context - auth middleware not applied?")
	}
	return user
}
