package handler

import (
	"net/http"

	"github.com/mcoot/gamenight/internal/web/middleware"
	"github.com/mcoot/gamenight/internal/web/templates"
)

// pageData builds the layout data every page shares
func pageData(r *http.Request, title string) templates.PageData {
	return templates.PageData{
		Title:   title,
		Flash:   middleware.GetFlash(r.Context()),
		Control: middleware.HasControl(r.Context()),
	}
}

func render(w http.ResponseWriter, status int, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Render(w, page, data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render(w, status, "error", templates.ErrorData{
		PageData: pageData(r, http.StatusText(status)),
		Status:   status,
		Message:  message,
	})
}

// NotFound renders the 404 page
func NotFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "Page not found")
}
