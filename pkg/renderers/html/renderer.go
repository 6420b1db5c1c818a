// Package html renders a settings schema as a static HTML form snapshot.
// Invalid controls carry the is-invalid class and their messages inline;
// messages that name no field are listed at form level.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/render"
	rendertemplate "github.com/goliatone/go-fieldset/pkg/render/template"
	"github.com/goliatone/go-fieldset/pkg/render/template/pongo"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

// FormTemplate is the entry template rendered for every schema.
const FormTemplate = "form"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	dispatcher       *render.Dispatcher
	log              logrus.FieldLogger
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithDispatcher renders controls through d.
func WithDispatcher(d *render.Dispatcher) Option {
	return func(cfg *config) {
		cfg.dispatcher = d
	}
}

// WithLogger routes renderer diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	dispatcher *render.Dispatcher
	log        logrus.FieldLogger
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), log: logger.Discard()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
			pongo.WithPreload(FormTemplate),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	dispatcher := cfg.dispatcher
	if dispatcher == nil {
		d, err := render.NewDispatcher(render.WithLogger(cfg.log))
		if err != nil {
			return nil, fmt.Errorf("html renderer: %w", err)
		}
		dispatcher = d
	}

	return &Renderer{templates: renderer, dispatcher: dispatcher, log: cfg.log}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the snapshot. The schema is only read.
func (r *Renderer) Render(ctx context.Context, schema *model.Schema, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if schema == nil {
		return nil, errors.New("html renderer: schema is required")
	}

	form, err := r.dispatcher.RenderSchema(schema, opts.Subset.Groups...)
	if err != nil {
		return nil, fmt.Errorf("html renderer: %w", err)
	}
	defer form.Close()

	mapping := render.MapErrorPayload(schema, opts.Errors)
	view := buildView(form, mapping)

	result, err := r.templates.RenderTemplate(FormTemplate, map[string]any{
		"form":    view,
		"classes": chromeClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	r.log.WithFields(logrus.Fields{
		"sections": len(form.Sections),
		"invalid":  len(form.Invalid()),
	}).Debug("html renderer: snapshot rendered")
	return []byte(result), nil
}

func buildView(form *render.Form, mapping render.ErrorMapping) map[string]any {
	sections := make([]any, 0, len(form.Sections))
	for _, section := range form.Sections {
		controls := make([]any, 0, len(section.Controls))
		for _, ctrl := range section.Controls {
			controls = append(controls, controlView(ctrl, mapping.For(ctrl.Field().Key())))
		}
		sections = append(sections, map[string]any{
			"title":    section.Title,
			"columns":  section.Columns,
			"controls": controls,
		})
	}

	errs := make([]any, 0, len(mapping.Form))
	for _, msg := range mapping.Form {
		errs = append(errs, msg)
	}
	return map[string]any{
		"title":    form.Title,
		"errors":   errs,
		"sections": sections,
	}
}

func controlView(ctrl render.Control, external []string) map[string]any {
	field := ctrl.Field()
	attrs := ctrl.Attributes()
	state := ctrl.State()

	var messages []any
	if state.Invalid {
		messages = append(messages, state.Message)
	}
	for _, msg := range external {
		messages = append(messages, msg)
	}

	view := map[string]any{
		"key":         field.Key(),
		"id":          controlID(field.Key()),
		"kind":        field.Kind().String(),
		"widget":      ctrl.Widget(),
		"label":       label(field),
		"required":    field.Required(),
		"enabled":     attrs.Enabled,
		"tooltip":     attrs.Tooltip,
		"placeholder": attrs.Placeholder,
		"value":       field.Value().String(),
		"invalid":     len(messages) > 0,
		"messages":    messages,
	}

	switch c := ctrl.(type) {
	case *render.TextInput:
		if c.Masked() {
			view["widget"] = widgets.WidgetPasswordInput
			view["value"] = c.Display()
		}
	case *render.Select:
		options := make([]any, 0)
		for i, opt := range c.Options() {
			options = append(options, map[string]any{
				"value":    opt.Value(),
				"label":    opt.DisplayText(),
				"selected": i == c.SelectedIndex(),
			})
		}
		view["options"] = options
	case *render.Toggle:
		view["checked"] = c.Checked()
		view["text"] = c.Text()
	case *render.FileInput:
		view["filter"] = c.Filter()
	case *render.ColorInput:
		view["value"] = c.Hex()
	}
	return view
}

func label(field *model.Field) string {
	if field.Label() != "" {
		return field.Label()
	}
	return field.Key()
}

func controlID(key string) string {
	return "field-" + strings.ReplaceAll(key, ".", "-")
}
