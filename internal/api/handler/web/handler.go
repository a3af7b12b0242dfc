// internal/api/handler/web/handler.go
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/newthinker/fxsignals/internal/session"
)

//go:embed templates/*
var templateFS embed.FS

var pages = []string{"dashboard.html"}

// Handler provides web UI handlers with template rendering
type Handler struct {
	// pageTemplates holds layout.html + the page template, keyed by page
	pageTemplates map[string]*template.Template
	session       *session.Session
	logger        *zap.Logger
}

// NewHandler creates a web handler over s. Templates are loaded from
// templatesDir, or from the embedded copies when it is empty.
func NewHandler(s *session.Session, templatesDir string, logger *zap.Logger) (*Handler, error) {
	var fsys fs.FS
	if templatesDir != "" {
		fsys = os.DirFS(templatesDir)
	} else {
		fsys = TemplateFS()
	}
	return NewHandlerWithFS(s, fsys, logger)
}

// NewHandlerWithFS creates a new web handler using a custom filesystem.
func NewHandlerWithFS(s *session.Session, fsys fs.FS, logger *zap.Logger) (*Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pageTemplates := make(map[string]*template.Template)
	for _, page := range pages {
		tmpl, err := template.ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		pageTemplates[page] = tmpl
	}

	return &Handler{
		pageTemplates: pageTemplates,
		session:       s,
		logger:        logger,
	}, nil
}

// render executes the specified page template with the given data
func (h *Handler) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := h.pageTemplates[page]
	if !ok {
		http.Error(w, "template not found: "+page, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error("rendering page", zap.String("page", page), zap.Error(err))
	}
}

// TemplateFS returns the embedded template filesystem for external use.
func TemplateFS() fs.FS {
	subFS, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return templateFS
	}
	return subFS
}
