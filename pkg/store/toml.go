package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// TOML stores settings in a TOML document with one table per key prefix:
// "serial.port" is stored as port under [serial].
type TOML struct {
	path string
	opts fileOptions
}

var _ Store = (*TOML)(nil)

// NewTOML returns a TOML file store.
func NewTOML(path string, opts ...Option) *TOML {
	return &TOML{path: path, opts: newFileOptions(opts)}
}

// Path returns the backing file.
func (s *TOML) Path() string { return s.path }

// Load reads the document. Integers and floats are returned as json.Number.
func (s *TOML) Load(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", s.path, err)
	}
	values := make(map[string]any)
	flatten("", doc, values)
	for key, value := range values {
		switch v := value.(type) {
		case int64:
			values[key] = json.Number(strconv.FormatInt(v, 10))
		case float64:
			values[key] = json.Number(formatTOMLFloat(v))
		}
	}
	s.opts.log.WithFields(logrus.Fields{"path": s.path, "keys": len(values)}).Info("store: settings loaded")
	return values, nil
}

// Save writes values to the document, replacing its previous content.
// A json.Number is written as a TOML integer or float only when that form
// reads back as the same text; otherwise it is written as a string.
func (s *TOML) Save(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded := make(map[string]any, len(values))
	for key, value := range values {
		if n, ok := value.(json.Number); ok {
			encoded[key] = tomlNumber(string(n))
			continue
		}
		encoded[key] = value
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(nest(encoded)); err != nil {
		return fmt.Errorf("store: encode %s: %w", s.path, err)
	}
	if err := writeAtomic(s.path, buf.Bytes()); err != nil {
		return err
	}
	s.opts.log.WithFields(logrus.Fields{"path": s.path, "keys": len(values)}).Info("store: settings saved")
	return nil
}

func tomlNumber(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil && strconv.FormatInt(i, 10) == text {
		return i
	}
	f, err := strconv.ParseFloat(text, 64)
	if err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) && formatTOMLFloat(f) == text {
		return f
	}
	return text
}

func formatTOMLFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
