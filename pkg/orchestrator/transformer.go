package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-fieldset/pkg/schema"
)

// Transformer patches a parsed definition before the schema is built.
// Implementations can relabel fields, change defaults or add hints.
type Transformer interface {
	Transform(ctx context.Context, doc *schema.Document) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *schema.Document) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *schema.Document) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file.
// Fields are addressed by key:
//
//	{
//	  "title": "Site Settings",
//	  "fields": {
//	    "serial.port": {"label": "Port", "default": "COM2", "hints": {"widget": "radio-group"}},
//	    "camera.url": {"enabled": false}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title  string                    `json:"title"`
	Fields map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label       string            `json:"label"`
	Description string            `json:"description"`
	Tooltip     string            `json:"tooltip"`
	Placeholder string            `json:"placeholder"`
	Default     any               `json:"default"`
	Required    *bool             `json:"required"`
	Enabled     *bool             `json:"enabled"`
	Hints       map[string]string `json:"hints"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto doc. A patch naming a key
// the definition lacks is an error.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *schema.Document) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		doc.Title = t.document.Title
	}
	for key, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findField(doc, key)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", key)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *schema.FieldDef, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Tooltip != "" {
		field.Tooltip = patch.Tooltip
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Default != nil {
		field.Default = patch.Default
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.Enabled != nil {
		enabled := *patch.Enabled
		field.Enabled = &enabled
	}
	if len(patch.Hints) > 0 {
		field.Hints = mergeStringMap(field.Hints, patch.Hints)
	}
}

func findField(doc *schema.Document, key string) *schema.FieldDef {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	for gi := range doc.Groups {
		fields := doc.Groups[gi].Fields
		for fi := range fields {
			if fields[fi].Key == key {
				return &fields[fi]
			}
		}
	}
	return nil
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	out := make(map[string]string, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		out[k] = v
	}
	return out
}
