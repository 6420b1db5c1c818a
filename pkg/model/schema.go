package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

// Schema is the complete, ordered set of settings groups. Field keys are
// unique across the whole schema.
type Schema struct {
	title  string
	groups []*Group
	index  map[string]*Field
	order  []*Field
}

// NewSchema seals groups into a schema. Every field is already seeded with
// its default by NewField, so a fresh schema is fully populated.
func NewSchema(title string, groups ...*Group) (*Schema, error) {
	s := &Schema{
		title: title,
		index: make(map[string]*Field),
	}
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, f := range g.fields {
			if _, exists := s.index[f.key]; exists {
				return nil, &FieldError{Key: f.key, Err: fmt.Errorf("%w in schema %q", ErrDuplicateKey, title)}
			}
			s.index[f.key] = f
			s.order = append(s.order, f)
		}
		s.groups = append(s.groups, g)
	}
	for _, g := range s.groups {
		g.sealed = true
	}
	return s, nil
}

func (s *Schema) Title() string { return s.title }

// Groups returns the groups in display order.
func (s *Schema) Groups() []*Group {
	return append([]*Group(nil), s.groups...)
}

// Fields returns every field, group by group, in display order.
func (s *Schema) Fields() []*Field {
	return append([]*Field(nil), s.order...)
}

// Field looks up a field by key.
func (s *Schema) Field(key string) (*Field, bool) {
	f, ok := s.index[key]
	return f, ok
}

// Len is the total number of fields.
func (s *Schema) Len() int { return len(s.order) }

// SeededCount counts fields holding a value of their kind's shape. It equals
// Len for every schema built through NewField.
func (s *Schema) SeededCount() int {
	n := 0
	for _, f := range s.order {
		if f.value.IsSet() && f.value.Shape() == ExpectedShape(f.kind) {
			n++
		}
	}
	return n
}

// Seed writes persisted values into matching fields. Unknown keys are
// ignored. Rejected values keep the field's current value and are reported
// together in the returned error.
func (s *Schema) Seed(values map[string]any) error {
	var errs []error
	for _, f := range s.order {
		raw, ok := values[f.key]
		if !ok {
			continue
		}
		if err := f.SetValue(raw); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Snapshot returns the current key to value map, suitable for persistence.
func (s *Schema) Snapshot() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, f := range s.order {
		out[f.key] = f.value.Any()
	}
	return out
}

// Reset restores every field to its default.
func (s *Schema) Reset() error {
	var errs []error
	for _, f := range s.order {
		if err := f.Reset(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Validate runs every field's validation and collects the failures in display
// order.
func (s *Schema) Validate() validation.Report {
	report := validation.Report{Valid: true}
	for _, f := range s.order {
		report.Add(f.key, f.displayName(), f.Validate())
	}
	return report
}

// Subscribe registers fn on every field of the schema.
func (s *Schema) Subscribe(fn Observer) *Subscription {
	subs := make([]*Subscription, 0, len(s.order))
	for _, f := range s.order {
		subs = append(subs, f.Subscribe(fn))
	}
	return joinSubscriptions(subs)
}

// Decorate applies decorators in order, stopping at the first error.
func (s *Schema) Decorate(decorators ...Decorator) error {
	for _, d := range decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(s); err != nil {
			return err
		}
	}
	return nil
}
