package pongo_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-fieldset/pkg/render/template/pongo"
	"github.com/goliatone/go-fieldset/pkg/testsupport"
)

var templatesFS = fstest.MapFS{
	"field.tpl":  {Data: []byte("{{ field.label }}={{ field.value }}")},
	"secret.tpl": {Data: []byte("[{{ password|mask }}]")},
	"broken.tpl": {Data: []byte("{% for x in %}")},
	"nested.tpl": {Data: []byte("{% for s in form.sections %}{{ s.title }}:{% for c in s.controls %}{{ c.key }};{% endfor %}{% endfor %}")},
}

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(templatesFS)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("field", map[string]any{
			"field": map[string]any{"label": "Baud", "value": "9600"},
		}, w)
	})
	if result != "Baud=9600" {
		t.Fatalf("render template result %q", result)
	}
	if written != result {
		t.Fatalf("writer got %q, want %q", written, result)
	}

	again, err := engine.RenderTemplate("field.tpl", map[string]any{
		"field": map[string]any{"label": "Port", "value": "COM1"},
	})
	if err != nil || again != "Port=COM1" {
		t.Fatalf("explicit extension: %q, %v", again, err)
	}
}

func TestEngine_RendersNestedViews(t *testing.T) {
	view := map[string]any{"form": map[string]any{"sections": []any{
		map[string]any{"title": "Serial", "controls": []any{
			map[string]any{"key": "serial.port"},
			map[string]any{"key": "serial.baud"},
		}},
	}}}
	result, err := newEngine(t).RenderTemplate("nested", view)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "Serial:serial.port;serial.baud;" {
		t.Fatalf("render result %q", result)
	}
}

func TestEngine_MaskFilter(t *testing.T) {
	result, err := newEngine(t).RenderTemplate("secret", map[string]any{"password": "hunter2"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "[•••••••]" {
		t.Fatalf("render template result %q", result)
	}
}

func TestEngine_PreloadFailsAtConstruction(t *testing.T) {
	if _, err := pongo.New(pongo.WithFS(templatesFS), pongo.WithPreload("field", "missing")); err == nil || !strings.Contains(err.Error(), "missing.tpl") {
		t.Fatalf("expected missing template error, got %v", err)
	}
	if _, err := pongo.New(pongo.WithFS(templatesFS), pongo.WithPreload("broken")); err == nil {
		t.Fatalf("expected parse error for broken template")
	}
	newEngine(t, pongo.WithPreload("field", "secret"))
}

func TestNew_RequiresTemplates(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}
