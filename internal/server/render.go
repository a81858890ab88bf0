package server

import (
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// TemplateRenderer plugs html/template into echo for the page handlers.
type TemplateRenderer struct {
	templates *template.Template
}

func NewRenderer(glob string) (*TemplateRenderer, error) {
	t, err := template.New("").Funcs(template.FuncMap{
		"deref": func(v interface{}) interface{} {
			switch p := v.(type) {
			case *string:
				if p == nil {
					return ""
				}
				return *p
			case *float64:
				if p == nil {
					return ""
				}
				return fmt.Sprintf("%.0f", *p)
			case *int:
				if p == nil {
					return ""
				}
				return *p
			}
			return v
		},
		"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", 100*f) },
		"inc": func(i int) int { return i + 1 },
	}).ParseGlob(glob)
	if err != nil {
		return nil, fmt.Errorf("parsing templates %s: %w", glob, err)
	}
	return &TemplateRenderer{templates: t}, nil
}

func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
