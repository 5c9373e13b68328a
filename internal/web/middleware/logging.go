package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bvzombies/internal/middleware"
)

// Logging creates logging middleware for the web interface.
// Requests from a known browser carry its session id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, sessionAttrs)
}

func sessionAttrs(r *http.Request) []slog.Attr {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return []slog.Attr{slog.String("sid", cookie.Value)}
}
