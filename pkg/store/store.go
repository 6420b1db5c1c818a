// Package store persists settings values between sessions. A store holds a
// flat map from field key to scalar value; file formats nest the dotted keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNotFound is returned by Load when nothing has been saved yet. Callers
// keep the schema defaults.
var ErrNotFound = errors.New("store: settings not found")

// Store loads and saves a key/value snapshot.
type Store interface {
	Load(ctx context.Context) (map[string]any, error)
	Save(ctx context.Context, values map[string]any) error
}

// Supported file formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
)

// Open returns a file store for path. An empty format is inferred from the
// extension and defaults to JSON.
func Open(path, format string, opts ...Option) (Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: path is required")
	}
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if format != FormatTOML {
			format = FormatJSON
		}
	}
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSON(path, opts...), nil
	case FormatTOML:
		return NewTOML(path, opts...), nil
	default:
		return nil, fmt.Errorf("store: unsupported format %q", format)
	}
}

// writeAtomic writes data next to path and renames it into place so readers
// never observe a partial file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("store: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("store: rename temp file: %w", err)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	return data, nil
}

// nest turns dotted keys into nested maps. A key that is both a value and a
// prefix of another key keeps the value; the deeper key is dropped.
func nest(values map[string]any) map[string]any {
	out := make(map[string]any)
	for _, key := range sortedKeys(values) {
		parts := strings.Split(key, ".")
		cur := out
		ok := true
		for _, part := range parts[:len(parts)-1] {
			next, exists := cur[part]
			if !exists {
				m := make(map[string]any)
				cur[part] = m
				cur = m
				continue
			}
			m, isMap := next.(map[string]any)
			if !isMap {
				ok = false
				break
			}
			cur = m
		}
		if ok {
			if _, exists := cur[parts[len(parts)-1]]; !exists {
				cur[parts[len(parts)-1]] = values[key]
			}
		}
	}
	return out
}

// flatten is the inverse of nest.
func flatten(prefix string, in map[string]any, out map[string]any) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if m, ok := value.(map[string]any); ok {
			flatten(full, m, out)
			continue
		}
		out[full] = value
	}
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
