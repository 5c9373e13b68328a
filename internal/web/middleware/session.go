package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mcoot/bvzombies/internal/services/browser"
)

type contextKey string

const (
	browserContextKey contextKey = "browser"

	// SessionCookieName identifies a browser across requests
	SessionCookieName = "bvz_sid"

	sessionCookieMaxAge = 7 * 24 * 60 * 60
)

// GetBrowser retrieves the browser session from the request context
func GetBrowser(ctx context.Context) *browser.Browser {
	b, _ := ctx.Value(browserContextKey).(*browser.Browser)
	return b
}

// WithBrowser returns ctx carrying b
func WithBrowser(ctx context.Context, b *browser.Browser) context.Context {
	return context.WithValue(ctx, browserContextKey, b)
}

// BrowserSession gives every request its browser's slots and session store.
// A browser without a valid session cookie is issued a fresh id. The session
// store is saved once the handler returns.
func BrowserSession(manager *browser.Manager, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if _, err := uuid.Parse(cookie.Value); err == nil {
					sid = cookie.Value
				}
			}
			if sid == "" {
				sid = uuid.NewString()
			}
			// Refresh the cookie on every request so active browsers keep it
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   sessionCookieMaxAge,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			b := manager.Open(r.Context(), sid)
			next.ServeHTTP(w, r.WithContext(WithBrowser(r.Context(), b)))
			manager.Save(context.WithoutCancel(r.Context()), b)
		})
	}
}
