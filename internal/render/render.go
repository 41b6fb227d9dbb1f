// Package render adapts html/template to Fiber's Views interface so
// handlers can call c.Render with a template name and a context map.
package render

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
)

// Engine loads a directory of .html templates and renders them by
// name. It satisfies fiber.Views.
type Engine struct {
	dir       string
	templates *template.Template
	funcMap   template.FuncMap
}

// New creates an Engine for the given template directory.
func New(dir string) *Engine {
	return &Engine{
		dir: dir,
		funcMap: template.FuncMap{
			"money": func(v float64) string {
				return fmt.Sprintf("%.2f", v)
			},
			"add": func(a, b int) int { return a + b },
			"sub": func(a, b int) int { return a - b },
		},
	}
}

// Load parses every .html file in the template directory. Fiber calls
// this once at startup.
func (e *Engine) Load() error {
	tmpl, err := template.New("").Funcs(e.funcMap).ParseGlob(filepath.Join(e.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("failed to parse templates in %s: %w", e.dir, err)
	}
	e.templates = tmpl
	return nil
}

// Render writes the named template with the given binding.
func (e *Engine) Render(w io.Writer, name string, bind interface{}, _ ...string) error {
	if e.templates == nil {
		if err := e.Load(); err != nil {
			return err
		}
	}
	tmpl := e.templates.Lookup(name + ".html")
	if tmpl == nil {
		tmpl = e.templates.Lookup(name)
	}
	if tmpl == nil {
		return fmt.Errorf("template %s not found in %s", name, e.dir)
	}
	if err := tmpl.Execute(w, bind); err != nil {
		return fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return nil
}
