package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/rules"
	"github.com/goliatone/go-fieldset/pkg/schema"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

func TestLoadFS_MergesJSONAndYAML(t *testing.T) {
	s, err := schema.Load(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Title() != "Scale Setup" {
		t.Fatalf("title %q", s.Title())
	}

	var titles []string
	for _, g := range s.Groups() {
		titles = append(titles, g.Title())
	}
	// extra.yaml sorts before scale.json.
	if diff := cmp.Diff([]string{"Printing", "Serial Port"}, titles); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}

	port, ok := s.Field("serial.port")
	if !ok {
		t.Fatalf("serial.port missing")
	}
	if port.Label() != "Port" {
		t.Fatalf("label not sanitised: %q", port.Label())
	}
	if port.Value().String() != "COM1" || len(port.Options()) != 2 {
		t.Fatalf("dropdown not seeded from first option")
	}

	baud, _ := s.Field("serial.baud")
	if baud.Value().String() != "9600" {
		t.Fatalf("baud default %q", baud.Value().String())
	}
	if err := baud.SetValue("300"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if res := baud.Validate(); res.Valid || res.Message != "Baud must be at least 1200" {
		t.Fatalf("bounds not applied: %+v", res)
	}
}

func TestBuild_ReportsEveryBadField(t *testing.T) {
	fsys := fstest.MapFS{
		"bad.yaml": {Data: []byte(`
title: Broken
groups:
  - title: Mixed
    fields:
      - key: a
        kind: slider
      - key: b
        kind: text
        options: [x]
      - key: c
        kind: text
        pattern: "("
      - key: d
        kind: checkbox
`)},
	}
	_, err := schema.Load(fsys)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, model.ErrUnknownFieldKind) || !errors.Is(err, model.ErrInvalidDefinition) {
		t.Fatalf("expected both kind and definition errors, got %v", err)
	}
	var fieldErr *model.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected a FieldError in %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := schema.Parse([]byte("  "), "empty.yaml"); err == nil {
		t.Fatalf("empty document should fail")
	}
	if _, err := schema.Parse([]byte("groups: [unclosed"), "broken.yaml"); err == nil {
		t.Fatalf("broken yaml should fail")
	}
	if _, err := schema.Load(fstest.MapFS{"readme.txt": {Data: []byte("x")}}); err == nil {
		t.Fatalf("no definition files should fail")
	}
}

func TestOptionShorthand(t *testing.T) {
	doc, err := schema.Parse([]byte(`
groups:
  - title: Weighing
    fields:
      - key: unit
        kind: dropdown
        options:
          - kg
          - { label: Tonnes, value: t }
`), "units.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []schema.OptionDef{{Label: "kg", Value: "kg"}, {Label: "Tonnes", Value: "t"}}
	if diff := cmp.Diff(want, doc.Groups[0].Fields[0].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPath_SingleFile(t *testing.T) {
	s, err := schema.LoadPath(filepath.Join("testdata", "extra.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 fields, got %d", s.Len())
	}
	if _, err := schema.LoadPath(filepath.Join("testdata", "missing.yaml")); err == nil {
		t.Fatalf("missing file should fail")
	}
}

func TestDefaultSchema(t *testing.T) {
	s, err := schema.Default(schema.WithDecorators(widgets.NewRegistry()))
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if s.SeededCount() != s.Len() {
		t.Fatalf("default schema not fully seeded: %d/%d", s.SeededCount(), s.Len())
	}

	seen := map[model.FieldKind]bool{}
	for _, f := range s.Fields() {
		seen[f.Kind()] = true
		if f.Hint(widgets.HintWidget) == "" {
			t.Fatalf("%s has no widget hint", f.Key())
		}
	}
	for _, kind := range model.Kinds() {
		if !seen[kind] {
			t.Fatalf("default schema has no %s field", kind)
		}
	}

	address, _ := s.Field("company.address")
	if address.Hint(widgets.HintWidget) != widgets.WidgetTextArea {
		t.Fatalf("multiline hint not honoured: %q", address.Hint(widgets.HintWidget))
	}

	if _, err := rules.BindEnablement(s); err != nil {
		t.Fatalf("enablement: %v", err)
	}
	url, _ := s.Field("camera.url")
	if url.Enabled() {
		t.Fatalf("camera.url should start disabled")
	}

	report := s.Validate()
	if report.Valid || len(report.Issues) != 1 || report.Issues[0].Key != "company.name" {
		t.Fatalf("unexpected default report: %+v", report)
	}
}

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"  Plain  ":                     "Plain",
		"<b>Bold</b> label":             "Bold label",
		"Tare<script>alert(1)</script>": "Tare",
		"Weight & <i>Tare</i>":          "Weight & Tare",
		"":                              "",
	}
	for in, want := range cases {
		if got := schema.SanitizeText(in); got != want {
			t.Fatalf("SanitizeText(%q) = %q, want %q", in, got, want)
		}
	}
}
