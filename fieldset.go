// Package fieldset is the top-level entry point to the settings field
// framework. Most callers only need RenderHTML or NewOrchestrator; the
// packages under pkg/ expose each stage on its own.
package fieldset

import (
	"context"

	"github.com/goliatone/go-fieldset/pkg/orchestrator"
	"github.com/goliatone/go-fieldset/pkg/render"
	"github.com/goliatone/go-fieldset/pkg/validation"
)

// RenderOptions describes per-request data renderers use to limit output to
// some groups or surface external validation errors.
type RenderOptions = render.RenderOptions

// GroupSubset aliases render.GroupSubset for callers rendering only some
// groups.
type GroupSubset = render.GroupSubset

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML loads the configured definitions, seeds them from the store when
// one is given and renders an HTML snapshot.
func RenderHTML(ctx context.Context, renderOptions RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      "html",
		RenderOptions: renderOptions,
	})
}

// Validate loads the settings and reports every field that fails its rules.
func Validate(ctx context.Context, options ...orchestrator.Option) (validation.Report, error) {
	session, err := orchestrator.New(options...).Load(ctx)
	if err != nil {
		return validation.Report{}, err
	}
	defer session.Close()
	return session.Schema.Validate(), nil
}
