package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-fieldset/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetTextInput     = "text-input"
	WidgetTextArea      = "textarea"
	WidgetPasswordInput = "password-input"
	WidgetNumberInput   = "number-input"
	WidgetSelect        = "select"
	WidgetRadioGroup    = "radio-group"
	WidgetToggle        = "toggle"
	WidgetFilePicker    = "file-picker"
	WidgetColorSwatch   = "color-swatch"
)

// HintWidget is the field hint that names a widget explicitly.
const HintWidget = "widget"

// Matcher decides whether a widget should render the supplied field.
type Matcher func(field *model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget names for fields based on an explicit hint or
// registered matchers. Higher priority wins; ties fall back to registration
// order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with one built-in widget per field kind.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. The "widget" hint is honoured
// before matcher evaluation when it fits the field's kind.
func (r *Registry) Resolve(field *model.Field) (string, bool) {
	if field == nil {
		return "", false
	}
	if explicit := strings.TrimSpace(field.Hint(HintWidget)); explicit != "" && Fits(field.Kind(), explicit) {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator: every field without a usable "widget"
// hint gets the resolved widget name. Hints that do not fit the kind are
// replaced.
func (r *Registry) Decorate(schema *model.Schema) error {
	if r == nil || schema == nil {
		return nil
	}
	for _, field := range schema.Fields() {
		if hint := strings.TrimSpace(field.Hint(HintWidget)); hint != "" && Fits(field.Kind(), hint) {
			continue
		}
		if widget, ok := r.Resolve(field); ok && widget != "" {
			field.SetHint(HintWidget, widget)
		}
	}
	return nil
}

var kindWidgets = map[model.FieldKind][]string{
	model.KindText:     {WidgetTextInput, WidgetTextArea},
	model.KindPassword: {WidgetPasswordInput},
	model.KindNumber:   {WidgetNumberInput, WidgetTextInput},
	model.KindDropdown: {WidgetSelect, WidgetRadioGroup},
	model.KindCheckbox: {WidgetToggle},
	model.KindFile:     {WidgetFilePicker},
	model.KindColor:    {WidgetColorSwatch},
}

// Fits reports whether widget may render a field of kind. Built-in names
// must belong to the kind; custom names are accepted except for passwords,
// which only render masked.
func Fits(kind model.FieldKind, widget string) bool {
	allowed := kindWidgets[kind]
	for _, name := range allowed {
		if name == widget {
			return true
		}
	}
	if kind == model.KindPassword {
		return false
	}
	return !builtin(widget)
}

func builtin(widget string) bool {
	for _, names := range kindWidgets {
		for _, name := range names {
			if name == widget {
				return true
			}
		}
	}
	return false
}

// DefaultFor returns the built-in widget for kind.
func DefaultFor(kind model.FieldKind) string {
	switch kind {
	case model.KindText:
		return WidgetTextInput
	case model.KindPassword:
		return WidgetPasswordInput
	case model.KindNumber:
		return WidgetNumberInput
	case model.KindDropdown:
		return WidgetSelect
	case model.KindCheckbox:
		return WidgetToggle
	case model.KindFile:
		return WidgetFilePicker
	case model.KindColor:
		return WidgetColorSwatch
	default:
		return WidgetTextInput
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetTextArea, 60, func(field *model.Field) bool {
		return field.Kind() == model.KindText && strings.EqualFold(field.Hint("multiline"), "true")
	})

	r.Register(WidgetRadioGroup, 50, func(field *model.Field) bool {
		return field.Kind() == model.KindDropdown && strings.EqualFold(field.Hint("layout"), "inline")
	})

	for _, kind := range model.Kinds() {
		kind := kind
		r.Register(DefaultFor(kind), 10, func(field *model.Field) bool {
			return field.Kind() == kind
		})
	}
}
