package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/mcoot/bvzombies/internal/services/browser"
	"github.com/mcoot/bvzombies/internal/services/nav"
	"github.com/mcoot/bvzombies/internal/web/middleware"
	"github.com/mcoot/bvzombies/internal/web/templates/layout"
)

func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logger.Error("failed to render page",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// pageData builds the shell for a page, fetching the navigation bar
func pageData(ctx context.Context, navs *nav.Controller, b *browser.Browser, title string) layout.PageData {
	return layout.PageData{
		Title: title,
		Flash: middleware.GetFlash(ctx),
		Nav:   navs.Bar(ctx, b),
	}
}
