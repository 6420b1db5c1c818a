package render

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownRenderer is returned when a lookup names no registered front-end.
var ErrUnknownRenderer = errors.New("render: unknown renderer")

// Registry holds the settings front-ends. Names are matched case-insensitively
// ("HTML" finds "html"); the first registered front-end is the fallback.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Renderer
	order []string
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Renderer)}
}

// Register adds renderer under its Name(). Blank or duplicate names fail.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	key := registryKey(renderer.Name())
	if key == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byKey[key]; taken {
		return fmt.Errorf("render: renderer %q already registered", renderer.Name())
	}
	r.byKey[key] = renderer
	r.order = append(r.order, key)
	return nil
}

// MustRegister panics on registration failure. Used for built-in front-ends.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Get returns the renderer registered as name. The error wraps
// ErrUnknownRenderer and lists what is available.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if renderer, ok := r.byKey[registryKey(name)]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownRenderer, name, strings.Join(r.namesLocked(), ", "))
}

// Default returns the first registered renderer.
func (r *Registry) Default() (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.order) == 0 {
		return nil, false
	}
	return r.byKey[r.order[0]], true
}

// ForMediaType returns the first registered renderer whose ContentType has
// the media type of contentType. Parameters such as charset are ignored.
func (r *Registry) ForMediaType(contentType string) (Renderer, bool) {
	want := mediaType(contentType)
	if want == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, key := range r.order {
		if mediaType(r.byKey[key].ContentType()) == want {
			return r.byKey[key], true
		}
	}
	return nil, false
}

// ForPath picks a renderer by the extension of an output path, so
// "form.html" selects the HTML front-end and "settings.json" the JSON one.
func (r *Registry) ForPath(path string) (Renderer, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, false
	}
	return r.ForMediaType(mime.TypeByExtension(ext))
}

// List returns the registered names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.order))
	for _, key := range r.order {
		names = append(names, r.byKey[key].Name())
	}
	sort.Strings(names)
	return names
}

func registryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func mediaType(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mt
}
