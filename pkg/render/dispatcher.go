package render

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/binding"
	"github.com/goliatone/go-fieldset/pkg/model"
	"github.com/goliatone/go-fieldset/pkg/widgets"
)

// ErrUnknownFieldKind is returned when no builder exists for a field kind.
var ErrUnknownFieldKind = model.ErrUnknownFieldKind

// Env carries the collaborators a builder may need.
type Env struct {
	Widget      string
	FilePicker  FilePicker
	ColorPicker ColorPicker
	Log         logrus.FieldLogger
}

// Builder creates the control for one field.
type Builder func(field *model.Field, env Env) (Control, error)

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithBuilder installs or replaces the builder for kind.
func WithBuilder(kind model.FieldKind, builder Builder) DispatcherOption {
	return func(d *Dispatcher) {
		if builder == nil {
			delete(d.builders, kind)
			return
		}
		d.builders[kind] = builder
	}
}

// WithFilePicker sets the picker used by file controls.
func WithFilePicker(picker FilePicker) DispatcherOption {
	return func(d *Dispatcher) { d.files = picker }
}

// WithColorPicker sets the picker used by colour controls.
func WithColorPicker(picker ColorPicker) DispatcherOption {
	return func(d *Dispatcher) { d.colors = picker }
}

// WithWidgetRegistry overrides the registry used to name widgets.
func WithWidgetRegistry(reg *widgets.Registry) DispatcherOption {
	return func(d *Dispatcher) { d.widgets = reg }
}

// WithFallback renders kinds without a builder as read-only text instead of
// failing construction.
func WithFallback() DispatcherOption {
	return func(d *Dispatcher) { d.fallback = true }
}

// WithLogger routes dispatcher and binding diagnostics to log.
func WithLogger(log logrus.FieldLogger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// Dispatcher maps each field kind to its control builder. The table is
// checked against model.Kinds when the dispatcher is built, so a missing kind
// surfaces at startup rather than on first render.
type Dispatcher struct {
	builders map[model.FieldKind]Builder
	widgets  *widgets.Registry
	files    FilePicker
	colors   ColorPicker
	fallback bool
	log      logrus.FieldLogger
}

// NewDispatcher returns a dispatcher with a builder for every kind.
func NewDispatcher(opts ...DispatcherOption) (*Dispatcher, error) {
	d := &Dispatcher{
		builders: defaultBuilders(),
		widgets:  widgets.NewRegistry(),
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	for _, kind := range model.Kinds() {
		if _, ok := d.builders[kind]; ok {
			continue
		}
		if !d.fallback {
			return nil, fmt.Errorf("render: no builder for kind %q: %w", kind, ErrUnknownFieldKind)
		}
		d.log.WithField("kind", kind.String()).Warn("render: no builder, using read-only fallback")
	}
	return d, nil
}

// Supports reports whether kind has a dedicated builder.
func (d *Dispatcher) Supports(kind model.FieldKind) bool {
	_, ok := d.builders[kind]
	return ok
}

// Render builds and synchronises the control for field.
func (d *Dispatcher) Render(field *model.Field) (Control, error) {
	if field == nil {
		return nil, fmt.Errorf("render: field is required")
	}
	env := Env{
		FilePicker:  d.files,
		ColorPicker: d.colors,
		Log:         d.log,
	}
	if name, ok := d.widgets.Resolve(field); ok {
		env.Widget = name
	} else {
		env.Widget = widgets.DefaultFor(field.Kind())
	}

	build, ok := d.builders[field.Kind()]
	if !ok {
		if !d.fallback {
			return nil, fmt.Errorf("render: field %q kind %q: %w", field.Key(), field.Kind(), ErrUnknownFieldKind)
		}
		build = buildReadOnly
	}
	ctrl, err := build(field, env)
	if err != nil {
		return nil, fmt.Errorf("render: field %q: %w", field.Key(), err)
	}
	if b := ctrl.Binding(); b != nil {
		b.Sync()
	}
	d.log.WithFields(logrus.Fields{
		"key":    field.Key(),
		"kind":   field.Kind().String(),
		"widget": ctrl.Widget(),
	}).Debug("render: control built")
	return ctrl, nil
}

// RenderGroup renders every field of group in declaration order.
func (d *Dispatcher) RenderGroup(group *model.Group) (*Section, error) {
	if group == nil {
		return nil, fmt.Errorf("render: group is required")
	}
	section := &Section{Title: group.Title(), Columns: group.Columns()}
	for _, field := range group.Fields() {
		ctrl, err := d.Render(field)
		if err != nil {
			section.Close()
			return nil, err
		}
		section.Controls = append(section.Controls, ctrl)
	}
	return section, nil
}

// RenderSchema renders the groups of schema. When only is non-empty it
// limits rendering to groups with those titles.
func (d *Dispatcher) RenderSchema(schema *model.Schema, only ...string) (*Form, error) {
	if schema == nil {
		return nil, fmt.Errorf("render: schema is required")
	}
	filter := newGroupFilter(only)
	form := &Form{Title: schema.Title()}
	for _, group := range schema.Groups() {
		if !filter.matches(group.Title()) {
			continue
		}
		section, err := d.RenderGroup(group)
		if err != nil {
			form.Close()
			return nil, err
		}
		form.Sections = append(form.Sections, section)
	}
	return form, nil
}

func defaultBuilders() map[model.FieldKind]Builder {
	return map[model.FieldKind]Builder{
		model.KindText:     buildText,
		model.KindPassword: buildPassword,
		model.KindNumber:   buildNumber,
		model.KindDropdown: buildSelect,
		model.KindCheckbox: buildToggle,
		model.KindFile:     buildFile,
		model.KindColor:    buildColor,
	}
}

func bindOptions(env Env, extra ...binding.Option) []binding.Option {
	opts := []binding.Option{binding.WithLogger(env.Log)}
	return append(opts, extra...)
}

func buildText(field *model.Field, env Env) (Control, error) {
	ctrl := &TextInput{base: base{field: field, widget: env.Widget}}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

func buildPassword(field *model.Field, env Env) (Control, error) {
	ctrl := &TextInput{base: base{field: field, widget: env.Widget}, masked: true}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env, binding.WithoutRefresh())...)
	return ctrl, nil
}

func buildNumber(field *model.Field, env Env) (Control, error) {
	ctrl := &TextInput{base: base{field: field, widget: env.Widget}, numeric: true}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

func buildSelect(field *model.Field, env Env) (Control, error) {
	options := field.Options()
	if len(options) == 0 {
		return nil, fmt.Errorf("dropdown without options: %w", model.ErrInvalidDefinition)
	}
	ctrl := &Select{base: base{field: field, widget: env.Widget}, options: options, selected: -1}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

func buildToggle(field *model.Field, env Env) (Control, error) {
	ctrl := &Toggle{base: base{field: field, widget: env.Widget}, text: field.CheckboxText()}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

func buildFile(field *model.Field, env Env) (Control, error) {
	ctrl := &FileInput{
		base:   base{field: field, widget: env.Widget},
		filter: field.FileFilter(),
		picker: env.FilePicker,
	}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

func buildColor(field *model.Field, env Env) (Control, error) {
	ctrl := &ColorInput{base: base{field: field, widget: env.Widget}, picker: env.ColorPicker}
	ctrl.binding = binding.Bind(field, ctrl, bindOptions(env)...)
	return ctrl, nil
}

// ReadOnly shows a field's value as text. It is the fallback control and
// carries no binding back into the field.
type ReadOnly struct {
	base
}

var _ Control = (*ReadOnly)(nil)

func (r *ReadOnly) Display() string { return r.field.Value().String() }

func buildReadOnly(field *model.Field, env Env) (Control, error) {
	return &ReadOnly{base: base{field: field, widget: env.Widget}}, nil
}
