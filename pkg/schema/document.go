// Package schema loads settings-schema definitions from YAML or JSON and
// builds them into a model.Schema.
//
// A definition lists groups in display order, each with its fields:
//
//	title: Settings
//	groups:
//	  - title: Serial Port
//	    columns: 2
//	    fields:
//	      - key: serial.port
//	        kind: dropdown
//	        label: Port
//	        options: [COM1, COM2, COM3]
//
// Labels and other display strings are stripped of markup on load.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed definition file.
type Document struct {
	Title  string     `json:"title" yaml:"title"`
	Groups []GroupDef `json:"groups" yaml:"groups"`
	// Source names where the document came from, for error messages.
	Source string `json:"-" yaml:"-"`
}

// GroupDef describes one group.
type GroupDef struct {
	Title   string     `json:"title" yaml:"title"`
	Columns int        `json:"columns,omitempty" yaml:"columns,omitempty"`
	Fields  []FieldDef `json:"fields" yaml:"fields"`
}

// FieldDef describes one field. Attributes that do not apply to Kind are
// rejected when the schema is built.
type FieldDef struct {
	Key          string            `json:"key" yaml:"key"`
	Kind         string            `json:"kind" yaml:"kind"`
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string            `json:"description,omitempty" yaml:"description,omitempty"`
	Tooltip      string            `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Placeholder  string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Default      any               `json:"default,omitempty" yaml:"default,omitempty"`
	Options      []OptionDef       `json:"options,omitempty" yaml:"options,omitempty"`
	Required     bool              `json:"required,omitempty" yaml:"required,omitempty"`
	Enabled      *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	FileFilter   string            `json:"fileFilter,omitempty" yaml:"fileFilter,omitempty"`
	CheckboxText string            `json:"checkboxText,omitempty" yaml:"checkboxText,omitempty"`
	Min          *float64          `json:"min,omitempty" yaml:"min,omitempty"`
	Max          *float64          `json:"max,omitempty" yaml:"max,omitempty"`
	ExclusiveMin bool              `json:"exclusiveMin,omitempty" yaml:"exclusiveMin,omitempty"`
	ExclusiveMax bool              `json:"exclusiveMax,omitempty" yaml:"exclusiveMax,omitempty"`
	MinLength    *int              `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength    *int              `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern      string            `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Validator    string            `json:"validator,omitempty" yaml:"validator,omitempty"`
	Hints        map[string]string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// OptionDef is a dropdown choice. A bare scalar is shorthand for an option
// whose label and value are the same.
type OptionDef struct {
	Label string `json:"label" yaml:"label"`
	Value any    `json:"value" yaml:"value"`
}

// UnmarshalYAML accepts both the scalar shorthand and the mapping form.
func (o *OptionDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var value any
		if err := node.Decode(&value); err != nil {
			return err
		}
		*o = OptionDef{Label: node.Value, Value: value}
		return nil
	}
	type plain OptionDef
	var out plain
	if err := node.Decode(&out); err != nil {
		return err
	}
	*o = OptionDef(out)
	return nil
}

// UnmarshalJSON accepts both the scalar shorthand and the object form.
func (o *OptionDef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		type plain OptionDef
		var out plain
		if err := json.Unmarshal(data, &out); err != nil {
			return err
		}
		*o = OptionDef(out)
		return nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*o = OptionDef{Label: fmt.Sprint(value), Value: value}
	return nil
}

// Parse decodes a definition. JSON is tried first, then YAML.
func Parse(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("schema: file %s is empty", source)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		doc.Source = source
		return doc, nil
	}

	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML: %w", source, err)
	}
	doc.Source = source
	return doc, nil
}
