package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// Engine loads pongo2 templates from an fs.FS and caches parsed templates.
type Engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

// NewEngine builds an engine over files. Template names passed to Render
// get ext appended when missing.
func NewEngine(files fs.FS, ext string) (*Engine, error) {
	if files == nil {
		return nil, errors.New("html: template fs is required")
	}
	if ext = strings.TrimSpace(ext); ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	registerDefaultFilters()
	return &Engine{
		set:       pongo2.NewSet("formflow", pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
		ext:       ext,
	}, nil
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data pongo2.Context) ([]byte, error) {
	path := name
	if e.ext != "" && !strings.HasSuffix(path, e.ext) {
		path += e.ext
	}
	tmpl, err := e.template(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(data, &buf)
	e.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("html: execute template %q: %w", path, err)
	}
	return buf.Bytes(), nil
}

// GlobalContext seeds values visible to every template.
func (e *Engine) GlobalContext(data map[string]any) {
	if len(data) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.set.Globals == nil {
		e.set.Globals = make(pongo2.Context)
	}
	for key, value := range data {
		if key = strings.TrimSpace(key); key != "" {
			e.set.Globals[key] = value
		}
	}
}

func (e *Engine) template(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

var registerFiltersOnce sync.Once

// registerDefaultFilters installs the clean filter. pongo2 filters are
// process-wide, so an existing registration is kept.
func registerDefaultFilters() {
	registerFiltersOnce.Do(func() {
		if !pongo2.FilterExists("clean") {
			_ = pongo2.RegisterFilter("clean", func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
				return pongo2.AsSafeValue(Sanitize(in.String())), nil
			})
		}
	})
}
