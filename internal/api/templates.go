package api

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/lox/weathercompare/internal/compare"
	"github.com/lox/weathercompare/internal/htmlutil"
	"github.com/lox/weathercompare/internal/models"
)

//go:embed templates/*
var templateFS embed.FS

// newTemplates creates and parses the HTML templates with custom functions.
func newTemplates() *template.Template {
	funcs := template.FuncMap{
		"deref": func(f *float64) float64 {
			if f == nil {
				return 0
			}
			return *f
		},
		"temp": func(t models.Temp) string {
			if !t.Valid() {
				return "--"
			}
			return strings.TrimSpace(string(t))
		},
		"delta": func(d *compare.Delta) string {
			if d == nil {
				return ""
			}
			return fmt.Sprintf("%+.1f", d.Value)
		},
		"signed": func(f float64) string {
			return fmt.Sprintf("%+.1f", f)
		},
		"text": htmlutil.SingleLine,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}
