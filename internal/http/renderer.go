package httpx

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	crewboard "github.com/target/crewboard"
	"github.com/target/crewboard/internal/domain/visibility"
)

// boardTemplate is the entry point of the board page.
const boardTemplate = "layout"

// pageRenderer renders the board into a buffer first, so a template error
// produces a 500 instead of half a page.
type pageRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// newPageRenderer parses the layout and partials from templateFS, falling
// back to the embedded frontend/templates.
func newPageRenderer(templateFS fs.FS, logger *slog.Logger) (*pageRenderer, error) {
	if templateFS == nil {
		sub, err := fs.Sub(crewboard.TemplateFS, "frontend/templates")
		if err != nil {
			return nil, err
		}
		templateFS = sub
	}
	if logger == nil {
		logger = slog.Default()
	}

	t, err := template.New("board").Funcs(templateFuncs()).ParseFS(templateFS, "*.tmpl", "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse board templates: %w", err)
	}
	return &pageRenderer{t: t, logger: logger}, nil
}

func (p *pageRenderer) render(w http.ResponseWriter, data any) error {
	var buf bytes.Buffer
	if err := p.t.ExecuteTemplate(&buf, boardTemplate, data); err != nil {
		p.logger.Error("render board page", "error", err)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		p.logger.Warn("write board page", "error", err)
		return err
	}
	return nil
}

// templateFuncs turns a visibility.Directive into markup.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		// display is the inline style for a region under the simulated view.
		"display": func(d visibility.Directive, region string) template.CSS {
			if d.Visible(visibility.Region(region)) {
				return template.CSS("display: " + visibility.DisplayVisible)
			}
			return template.CSS("display: " + visibility.DisplayHidden)
		},
		// grants reports whether the real role may see the region at all.
		"grants": func(d visibility.Directive, region string) bool {
			return d.Visible(visibility.Region(region))
		},
	}
}
