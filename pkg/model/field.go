package model

import (
	"strings"

	"github.com/goliatone/go-fieldset/pkg/validation"
)

// Field is a single settings entry: identity, presentation strings, a
// kind-constrained value and the observers notified when it changes.
//
// A Field belongs to exactly one Group and is not safe for concurrent use;
// all reads and writes happen on the owning UI goroutine.
type Field struct {
	key          string
	label        string
	description  string
	tooltip      string
	placeholder  string
	kind         FieldKind
	value        Value
	defaultValue Value
	options      []Option
	required     bool
	enabled      bool
	fileFilter   string
	checkboxText string
	bounds       validation.Bounds
	text         validation.TextRules
	validator    string
	hints        map[string]string

	rawDefault any
	hasDefault bool

	observers []observerEntry
	nextID    uint64
}

type observerEntry struct {
	id uint64
	fn Observer
}

// FieldOption configures a Field during NewField.
type FieldOption func(*Field)

// WithLabel sets the display label.
func WithLabel(label string) FieldOption {
	return func(f *Field) { f.label = label }
}

// WithDescription sets the help text.
func WithDescription(description string) FieldOption {
	return func(f *Field) { f.description = description }
}

// WithTooltip sets the hover text.
func WithTooltip(tooltip string) FieldOption {
	return func(f *Field) { f.tooltip = tooltip }
}

// WithPlaceholder sets the empty-input hint.
func WithPlaceholder(placeholder string) FieldOption {
	return func(f *Field) { f.placeholder = placeholder }
}

// WithDefault declares the default value. It is coerced like any write and
// NewField fails when the coercion does.
func WithDefault(value any) FieldOption {
	return func(f *Field) {
		f.rawDefault = value
		f.hasDefault = true
	}
}

// WithChoices sets the dropdown options. Only valid on KindDropdown.
func WithChoices(options ...Option) FieldOption {
	return func(f *Field) {
		f.options = append([]Option(nil), options...)
	}
}

// WithRequired marks the field as required for validation.
func WithRequired(required bool) FieldOption {
	return func(f *Field) { f.required = required }
}

// WithEnabled sets the initial interactivity. Fields start enabled.
func WithEnabled(enabled bool) FieldOption {
	return func(f *Field) { f.enabled = enabled }
}

// WithFileFilter sets the picker filter pattern. Only valid on KindFile.
func WithFileFilter(filter string) FieldOption {
	return func(f *Field) { f.fileFilter = filter }
}

// WithCheckboxText sets the text beside the toggle. Only valid on KindCheckbox.
func WithCheckboxText(text string) FieldOption {
	return func(f *Field) { f.checkboxText = text }
}

// WithBounds sets numeric limits. Only valid on KindNumber.
func WithBounds(bounds validation.Bounds) FieldOption {
	return func(f *Field) { f.bounds = bounds }
}

// WithTextRules sets length and pattern constraints on text and password
// fields.
func WithTextRules(rules validation.TextRules) FieldOption {
	return func(f *Field) { f.text = rules }
}

// WithDomainValidator names a validation.Lookup validator applied to a text
// field after the generic rules.
func WithDomainValidator(name string) FieldOption {
	return func(f *Field) { f.validator = strings.ToLower(strings.TrimSpace(name)) }
}

// WithHint attaches a presentation hint such as "widget" or "enabledWhen".
func WithHint(key, value string) FieldOption {
	return func(f *Field) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		if f.hints == nil {
			f.hints = make(map[string]string)
		}
		f.hints[key] = value
	}
}

// NewField builds a field and seeds its value from the declared default, or
// from the kind's zero value when none is declared.
func NewField(key string, kind FieldKind, options ...FieldOption) (*Field, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fieldError(key, ErrInvalidDefinition, "key is required")
	}
	entry, ok := kindTable[kind]
	if !ok {
		return nil, &FieldError{Key: key, Err: ErrUnknownFieldKind}
	}

	f := &Field{
		key:     key,
		kind:    kind,
		enabled: true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	if err := f.checkDefinition(); err != nil {
		return nil, err
	}

	if f.hasDefault {
		def, err := entry.coerce(f, f.rawDefault)
		if err != nil {
			return nil, fieldError(key, ErrInvalidDefinition, "default: %v", err)
		}
		f.defaultValue = def
	} else {
		f.defaultValue = entry.zero(f)
	}
	f.rawDefault = nil
	f.value = f.defaultValue

	return f, nil
}

// MustField is NewField for static definitions; it panics on error.
func MustField(key string, kind FieldKind, options ...FieldOption) *Field {
	f, err := NewField(key, kind, options...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Field) checkDefinition() error {
	if f.kind == KindDropdown {
		if len(f.options) == 0 {
			return fieldError(f.key, ErrInvalidDefinition, "dropdown requires at least one option")
		}
		seen := make(map[string]struct{}, len(f.options))
		for _, opt := range f.options {
			if _, dup := seen[opt.value]; dup {
				return fieldError(f.key, ErrInvalidDefinition, "duplicate option value %q", opt.value)
			}
			seen[opt.value] = struct{}{}
		}
	} else if len(f.options) > 0 {
		return fieldError(f.key, ErrInvalidDefinition, "options are only valid on dropdown fields")
	}

	if f.kind == KindFile {
		if strings.TrimSpace(f.fileFilter) == "" {
			f.fileFilter = "*"
		}
	} else if f.fileFilter != "" {
		return fieldError(f.key, ErrInvalidDefinition, "file filter is only valid on file fields")
	}

	if f.kind == KindCheckbox {
		if f.checkboxText == "" {
			f.checkboxText = f.displayName()
		}
	} else if f.checkboxText != "" {
		return fieldError(f.key, ErrInvalidDefinition, "checkbox text is only valid on checkbox fields")
	}

	if f.kind != KindNumber && !f.bounds.IsZero() {
		return fieldError(f.key, ErrInvalidDefinition, "bounds are only valid on number fields")
	}
	if f.kind != KindText && f.kind != KindPassword && !f.text.IsZero() {
		return fieldError(f.key, ErrInvalidDefinition, "text rules are only valid on text and password fields")
	}
	if f.validator != "" {
		if f.kind != KindText {
			return fieldError(f.key, ErrInvalidDefinition, "domain validators are only valid on text fields")
		}
		if _, ok := validation.Lookup(f.validator); !ok {
			return fieldError(f.key, ErrInvalidDefinition, "unknown domain validator %q", f.validator)
		}
	}
	return nil
}

func (f *Field) Key() string         { return f.key }
func (f *Field) Label() string       { return f.label }
func (f *Field) Description() string { return f.description }
func (f *Field) Tooltip() string     { return f.tooltip }
func (f *Field) Placeholder() string { return f.placeholder }
func (f *Field) Kind() FieldKind     { return f.kind }
func (f *Field) Value() Value        { return f.value }
func (f *Field) Default() Value      { return f.defaultValue }
func (f *Field) Required() bool      { return f.required }
func (f *Field) Enabled() bool       { return f.enabled }
func (f *Field) FileFilter() string  { return f.fileFilter }
func (f *Field) CheckboxText() string {
	return f.checkboxText
}

// Bounds returns the numeric limits of a number field.
func (f *Field) Bounds() validation.Bounds { return f.bounds }

// DomainValidator returns the configured domain validator name, if any.
func (f *Field) DomainValidator() string { return f.validator }

// Options returns a copy of the dropdown options in display order.
func (f *Field) Options() []Option {
	return append([]Option(nil), f.options...)
}

// OptionByValue looks up an option by its stored value.
func (f *Field) OptionByValue(value string) (Option, bool) {
	for _, opt := range f.options {
		if opt.value == value {
			return opt, true
		}
	}
	return Option{}, false
}

// Hint returns a presentation hint.
func (f *Field) Hint(key string) string {
	return f.hints[key]
}

// Hints returns a copy of all presentation hints.
func (f *Field) Hints() map[string]string {
	if len(f.hints) == 0 {
		return nil
	}
	out := make(map[string]string, len(f.hints))
	for k, v := range f.hints {
		out[k] = v
	}
	return out
}

// SetHint sets a presentation hint after construction. Decorators use it.
func (f *Field) SetHint(key, value string) {
	WithHint(key, value)(f)
}

// SetEnabled toggles interactivity. It does not touch the value.
func (f *Field) SetEnabled(enabled bool) {
	f.enabled = enabled
}

// Coerce converts raw to this field's shape without storing it.
func (f *Field) Coerce(raw any) (Value, error) {
	return kindTable[f.kind].coerce(f, raw)
}

// SetValue coerces raw and stores it. A rejected write returns an error
// wrapping ErrInvalidFieldValue and leaves the value untouched. Observers run
// synchronously, once, before SetValue returns, and only when the stored
// value actually changes.
func (f *Field) SetValue(raw any) error {
	next, err := f.Coerce(raw)
	if err != nil {
		return err
	}
	if next.Equal(f.value) {
		return nil
	}
	prev := f.value
	f.value = next
	f.notify(Change{
		Key:      f.key,
		Kind:     f.kind,
		OldValue: prev,
		NewValue: next,
	})
	return nil
}

// Reset writes the default value back through SetValue.
func (f *Field) Reset() error {
	return f.SetValue(f.defaultValue)
}

// Validate runs the kind's validation rules against the current value.
func (f *Field) Validate() validation.Result {
	return kindTable[f.kind].validate(f)
}

// Subscribe registers fn for value changes until the subscription is
// cancelled.
func (f *Field) Subscribe(fn Observer) *Subscription {
	if fn == nil {
		return &Subscription{}
	}
	f.nextID++
	id := f.nextID
	f.observers = append(f.observers, observerEntry{id: id, fn: fn})
	return &Subscription{cancel: func() { f.unsubscribe(id) }}
}

func (f *Field) unsubscribe(id uint64) {
	for i, entry := range f.observers {
		if entry.id == id {
			f.observers = append(f.observers[:i:i], f.observers[i+1:]...)
			return
		}
	}
}

func (f *Field) notify(change Change) {
	// Observers may subscribe or cancel while being notified.
	snapshot := append([]observerEntry(nil), f.observers...)
	for _, entry := range snapshot {
		entry.fn(change)
	}
}

func (f *Field) displayName() string {
	if strings.TrimSpace(f.label) != "" {
		return f.label
	}
	return f.key
}

// Subscription cancels an observer registration.
type Subscription struct {
	cancel func()
}

// Unsubscribe removes the observer. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

func joinSubscriptions(subs []*Subscription) *Subscription {
	return &Subscription{cancel: func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}}
}
