package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/render"
	"github.com/goliatone/go-fieldset/pkg/renderers/html"
	"github.com/goliatone/go-fieldset/pkg/rules"
	"github.com/goliatone/go-fieldset/pkg/schema"
	"github.com/goliatone/go-fieldset/pkg/store"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchemaFS reads definitions from fsys instead of the bundled defaults.
func WithSchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.schemaFS = fsys
	}
}

// WithSchemaPath reads definitions from a file or directory on disk. It takes
// precedence over WithSchemaFS.
func WithSchemaPath(path string) Option {
	return func(o *Orchestrator) {
		o.schemaPath = path
	}
}

// WithTransformer registers a Transformer that patches the parsed definition
// before the schema is built.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithDecorators replaces the decorators run after the schema is built. The
// widget registry is used when none are given.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		o.decorators = append([]model.Decorator(nil), decorators...)
		o.decoratorsSet = true
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithStore seeds loaded schemas from st and lets sessions save back to it.
func WithStore(st store.Store) Option {
	return func(o *Orchestrator) {
		o.store = st
	}
}

// WithLogger routes pipeline diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// Orchestrator coordinates definition loading, schema construction, seeding
// from the store and rendering.
type Orchestrator struct {
	schemaFS        fs.FS
	schemaPath      string
	transformer     Transformer
	decorators      []model.Decorator
	decoratorsSet   bool
	registry        *render.Registry
	defaultRenderer string
	store           store.Store
	log             logrus.FieldLogger
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// collaborators fall back to the bundled definitions, the widget registry and
// an HTML renderer.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		log:             logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Registry returns the renderer registry in use.
func (o *Orchestrator) Registry() *render.Registry { return o.registry }

// Session is a loaded schema with enablement rules bound. Close releases the
// rule subscriptions.
type Session struct {
	Schema *model.Schema

	store   store.Store
	release func()
}

// Save persists the schema snapshot to the orchestrator's store.
func (s *Session) Save(ctx context.Context) error {
	if s.store == nil {
		return errors.New("orchestrator: no store configured")
	}
	if err := store.Persist(ctx, s.store, s.Schema); err != nil {
		return fmt.Errorf("orchestrator: save settings: %w", err)
	}
	return nil
}

// Close unbinds enablement rules. It is safe to call more than once.
func (s *Session) Close() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Load reads the definitions, builds the schema and seeds it from the store.
// Stored values the schema rejects are logged and the defaults kept.
func (o *Orchestrator) Load(ctx context.Context) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := o.readDocument()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load definitions: %w", err)
	}
	if err := o.applyTransformer(ctx, &doc); err != nil {
		return nil, err
	}

	s, err := schema.Build(doc, schema.WithDecorators(o.decorators...), schema.WithLogger(o.log))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build schema: %w", err)
	}
	sub, err := rules.BindEnablement(s, model.OnEnablementError(func(err error) {
		o.log.WithError(err).Warn("orchestrator: enabledWhen evaluation failed, enablement unchanged")
	}))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: bind rules: %w", err)
	}
	session := &Session{Schema: s, store: o.store, release: sub.Unsubscribe}

	if o.store != nil {
		if err := store.Apply(ctx, o.store, s); err != nil {
			if !errors.Is(err, model.ErrInvalidFieldValue) {
				session.Close()
				return nil, fmt.Errorf("orchestrator: seed settings: %w", err)
			}
			o.log.WithError(err).Warn("orchestrator: stored values rejected, defaults kept")
		}
	}
	o.log.WithFields(logrus.Fields{
		"fields": s.Len(),
		"seeded": s.SeededCount(),
	}).Debug("orchestrator: schema loaded")
	return session, nil
}

// Request describes one render pass.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries the group subset and external error payload.
	RenderOptions render.RenderOptions

	// Save persists the schema after a successful render. Interactive
	// renderers use it to keep the user's edits.
	Save bool
}

// Generate loads a session, renders it and optionally saves the result.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	session, err := o.Load(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	output, err := renderer.Render(ctx, session.Schema, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	if req.Save {
		if err := session.Save(ctx); err != nil {
			return nil, err
		}
	}
	return output, nil
}

func (o *Orchestrator) readDocument() (schema.Document, error) {
	if o.schemaPath != "" {
		return schema.ReadPath(o.schemaPath)
	}
	return schema.LoadFS(o.schemaFS)
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	renderer, ok := o.registry.Default()
	if !ok {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, doc *schema.Document) error {
	if o.transformer == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, doc); err != nil {
		return fmt.Errorf("orchestrator: transform definitions: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.schemaFS == nil && o.schemaPath == "" {
		o.schemaFS = schema.DefaultFS()
	}
	if !o.decoratorsSet {
		o.decorators = []model.Decorator{widgets.NewRegistry()}
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := html.New(html.WithLogger(o.log))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}

	o.defaultsApplied = true
}
