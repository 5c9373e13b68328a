package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/bvzombies/internal/middleware"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

// Recovery turns a handler panic into the site's error page.
// The page carries the request ID so a report can be matched to the log line.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, func(w http.ResponseWriter, r *http.Request, _ any) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)

		page := layout.Page(layout.PageData{Title: "Error"}, layout.ServerError(middleware.GetRequestID(r.Context())))
		if err := page.Render(r.Context(), w); err != nil {
			logger.Error("failed to render error page", slog.String("error", err.Error()))
		}
	})
}
