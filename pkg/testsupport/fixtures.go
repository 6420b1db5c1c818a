// Package testsupport holds fixtures shared by the renderer and store tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/rules"
	"github.com/goliatone/go-fieldset/pkg/schema"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

// LoadSchema builds a schema from a file or directory of definitions. Widget
// hints are resolved and enablement rules are bound for the test's lifetime.
func LoadSchema(t *testing.T, path string) *model.Schema {
	t.Helper()

	s, err := schema.LoadPath(path, schema.WithDecorators(widgets.NewRegistry()))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return bind(t, s)
}

// DefaultSchema returns the embedded weighbridge settings with enablement
// bound.
func DefaultSchema(t *testing.T) *model.Schema {
	t.Helper()

	s, err := schema.Default(schema.WithDecorators(widgets.NewRegistry()))
	if err != nil {
		t.Fatalf("default schema: %v", err)
	}
	return bind(t, s)
}

func bind(t *testing.T, s *model.Schema) *model.Schema {
	t.Helper()

	sub, err := rules.BindEnablement(s)
	if err != nil {
		t.Fatalf("bind enablement: %v", err)
	}
	t.Cleanup(sub.Unsubscribe)
	return s
}

// MustSeed writes values into s, failing the test on rejection.
func MustSeed(t *testing.T, s *model.Schema, values map[string]any) {
	t.Helper()
	if err := s.Seed(values); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// CompareSnapshot returns a diff between want and the schema snapshot.
func CompareSnapshot(want map[string]any, s *model.Schema) string {
	return cmp.Diff(want, s.Snapshot())
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents. Tests can assert
// the renderer returns and writes the same payload without duplicating buffer
// setup.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
