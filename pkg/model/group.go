package model

import "fmt"

// Group is a titled, ordered set of fields laid out in a fixed number of
// columns. Fields keep insertion order and belong to the group exclusively.
type Group struct {
	title   string
	columns int
	fields  []*Field
	index   map[string]*Field
	sealed  bool
}

// NewGroup builds a group from fields in display order. A column count below
// one is treated as one.
func NewGroup(title string, columns int, fields ...*Field) (*Group, error) {
	if columns < 1 {
		columns = 1
	}
	g := &Group{
		title:   title,
		columns: columns,
		index:   make(map[string]*Field, len(fields)),
	}
	for _, f := range fields {
		if err := g.Add(f); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Add appends a field. Groups are append-only and stop accepting fields once
// a Schema has been built from them.
func (g *Group) Add(f *Field) error {
	if f == nil {
		return fmt.Errorf("%w: group %q: nil field", ErrInvalidDefinition, g.title)
	}
	if g.sealed {
		return fmt.Errorf("%w: group %q is already part of a schema", ErrInvalidDefinition, g.title)
	}
	if _, exists := g.index[f.key]; exists {
		return &FieldError{Key: f.key, Err: fmt.Errorf("%w in group %q", ErrDuplicateKey, g.title)}
	}
	g.fields = append(g.fields, f)
	g.index[f.key] = f
	return nil
}

func (g *Group) Title() string { return g.title }
func (g *Group) Columns() int  { return g.columns }
func (g *Group) Len() int      { return len(g.fields) }

// Fields returns the fields in display order. The slice is a copy; the
// fields are shared.
func (g *Group) Fields() []*Field {
	return append([]*Field(nil), g.fields...)
}

// Field looks up a field of this group by key.
func (g *Group) Field(key string) (*Field, bool) {
	f, ok := g.index[key]
	return f, ok
}
