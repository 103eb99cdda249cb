package web

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"
)

// Templates holds the parsed page set. Every page renders in two steps:
// the view template named by ViewData.ContentTemplate produces the body,
// then the base shell wraps it with navigation and pending toasts.
type Templates struct {
	pages *template.Template
}

// MustParseTemplates loads templates/*.html relative to the module root,
// located from this source file so tests run from any directory.
func MustParseTemplates() *Templates {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("unable to locate template directory")
	}
	moduleRoot := filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
	pages := template.Must(template.ParseGlob(filepath.Join(moduleRoot, "templates", "*.html")))
	return &Templates{pages: pages}
}

func (t *Templates) RenderPage(w http.ResponseWriter, data ViewData) {
	var body bytes.Buffer
	if err := t.pages.ExecuteTemplate(&body, data.ContentTemplate, data); err != nil {
		slog.Error("render view failed", "template", data.ContentTemplate, "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	data.ContentHTML = template.HTML(body.String())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.pages.ExecuteTemplate(w, "base", data); err != nil {
		slog.Error("render page failed", "template", data.ContentTemplate, "err", err)
	}
}
