// Package pongo implements template.TemplateRenderer on a pongo2 template set.
package pongo

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-fieldset/pkg/render/template"
)

// MaskRune is what the "mask" filter prints for every character.
const MaskRune = "•"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	templates fs.FS
	extension string
	preload   []string
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the ".tpl" extension appended to template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithPreload parses the named templates in New, so a missing or broken
// entry template fails at startup rather than on the first render.
func WithPreload(names ...string) Option {
	return func(cfg *config) {
		cfg.preload = append(cfg.preload, names...)
	}
}

// Engine is a pongo2-backed template renderer with a per-name cache.
type Engine struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
	ext       string
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine over the WithFS templates.
func New(options ...Option) (*Engine, error) {
	cfg := &config{extension: ".tpl"}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		return nil, errors.New("pongo: templates fs.FS is required")
	}

	registerFilters()
	engine := &Engine{
		set:       pongo2.NewSet("fieldset", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[string]*pongo2.Template),
		ext:       cfg.extension,
	}
	for _, name := range cfg.preload {
		if _, err := engine.lookup(name); err != nil {
			return nil, err
		}
	}
	return engine, nil
}

// RenderTemplate renders name, appending the engine extension when missing.
func (e *Engine) RenderTemplate(name string, view map[string]any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("pongo: engine is nil")
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(view), &buf); err != nil {
		return "", fmt.Errorf("pongo: execute %q: %w", e.path(name), err)
	}
	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) path(name string) string {
	if strings.HasSuffix(name, e.ext) {
		return name
	}
	return name + e.ext
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	path := e.path(name)

	e.mu.RLock()
	tmpl, ok := e.templates[path]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("pongo: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

// pongo2 filters are process-wide.
var registerOnce sync.Once

func registerFilters() {
	registerOnce.Do(func() {
		if !pongo2.FilterExists("mask") {
			_ = pongo2.RegisterFilter("mask", filterMask)
		}
	})
}

// filterMask replaces every character with MaskRune.
func filterMask(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(strings.Repeat(MaskRune, utf8.RuneCountInString(in.String()))), nil
}
