package model

import (
	"fmt"
	"strings"
)

// FieldKind is the closed set of settings field variants. The kind decides
// which control renders the field and which value shape it stores.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindPassword FieldKind = "password"
	KindNumber   FieldKind = "number"
	KindDropdown FieldKind = "dropdown"
	KindCheckbox FieldKind = "checkbox"
	KindFile     FieldKind = "file"
	KindColor    FieldKind = "color"
)

// Kinds lists every supported kind in declaration order. Dispatch tables keyed
// by FieldKind are checked against this list.
func Kinds() []FieldKind {
	return []FieldKind{
		KindText,
		KindPassword,
		KindNumber,
		KindDropdown,
		KindCheckbox,
		KindFile,
		KindColor,
	}
}

// Known reports whether k is one of the supported kinds.
func (k FieldKind) Known() bool {
	_, ok := kindTable[k]
	return ok
}

func (k FieldKind) String() string {
	return string(k)
}

// ParseKind resolves a kind from its textual name. Matching ignores case and
// surrounding whitespace.
func ParseKind(raw string) (FieldKind, error) {
	kind := FieldKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldKind, raw)
	}
	return kind, nil
}

// Option is a single dropdown choice. Options are immutable once built.
type Option struct {
	displayText string
	value       string
}

// NewOption builds an option. Scalar values are stored in their canonical
// string form so lookups by value stay unambiguous.
func NewOption(displayText string, value any) Option {
	v := scalarString(value)
	if strings.TrimSpace(displayText) == "" {
		displayText = v
	}
	return Option{displayText: displayText, value: v}
}

// DisplayText is the label shown to the user.
func (o Option) DisplayText() string { return o.displayText }

// Value is the stored value written into the field when selected.
func (o Option) Value() string { return o.value }

// Change describes an accepted value transition on a field.
type Change struct {
	Key      string
	Kind     FieldKind
	OldValue Value
	NewValue Value
}

// Observer receives change notifications.
type Observer func(change Change)

// Decorator enriches a schema after construction, e.g. to attach widget hints.
type Decorator interface {
	Decorate(*Schema) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*Schema) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(schema *Schema) error {
	return fn(schema)
}
