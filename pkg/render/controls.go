package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-fieldset/pkg/binding"
	"github.com/goliatone/go-fieldset/pkg/model"
)

// ErrDisabled is returned when a user edit targets a disabled control.
var ErrDisabled = errors.New("render: control is disabled")

// MaskRune replaces every character of a masked input's display.
const MaskRune = '•'

// Attributes are the cross-kind presentation attributes of a control. They
// are read from the field on every call, so enablement changes show up
// without re-rendering.
type Attributes struct {
	Enabled     bool
	Tooltip     string
	Placeholder string
}

// State is the validation marker of a control.
type State struct {
	Invalid bool
	Message string
}

// Control is a rendered, headless interactive control. Front-ends draw it
// and forward user input to the concrete type's edit methods.
type Control interface {
	Field() *model.Field
	Widget() string
	Attributes() Attributes
	// Display is the text the control shows. Masked inputs return mask runes.
	Display() string
	State() State
	Binding() *binding.Binding
	Close()
}

type base struct {
	field   *model.Field
	widget  string
	binding *binding.Binding
}

func (b *base) Field() *model.Field       { return b.field }
func (b *base) Widget() string            { return b.widget }
func (b *base) Binding() *binding.Binding { return b.binding }

func (b *base) Attributes() Attributes {
	return Attributes{
		Enabled:     b.field.Enabled(),
		Tooltip:     b.field.Tooltip(),
		Placeholder: b.field.Placeholder(),
	}
}

// State reports a rejected edit first, then the field's own validation.
func (b *base) State() State {
	if b.binding != nil && b.binding.Err() != nil {
		return State{Invalid: true, Message: fmt.Sprintf("Invalid value for %s", displayLabel(b.field))}
	}
	res := b.field.Validate()
	if res.Valid {
		return State{}
	}
	return State{Invalid: true, Message: res.Message}
}

func (b *base) Close() {
	if b.binding != nil {
		b.binding.Close()
	}
}

func (b *base) edit() error {
	if !b.field.Enabled() {
		return ErrDisabled
	}
	return nil
}

// TextInput renders text, password and number fields. Password inputs are
// masked; number inputs only accept [0-9.-].
type TextInput struct {
	base
	text    string
	masked  bool
	numeric bool
}

var _ Control = (*TextInput)(nil)

// Text returns the raw text held by the input.
func (t *TextInput) Text() string { return t.text }

// Masked reports whether the input hides its content.
func (t *TextInput) Masked() bool { return t.masked }

// Numeric reports whether keystrokes are filtered to numeric characters.
func (t *TextInput) Numeric() bool { return t.numeric }

func (t *TextInput) Display() string {
	if t.masked {
		return strings.Repeat(string(MaskRune), utf8.RuneCountInString(t.text))
	}
	return t.text
}

// SetText replaces the whole content, as a paste or a prompt answer would,
// and pushes it into the field. Numeric inputs drop filtered characters.
func (t *TextInput) SetText(text string) error {
	if err := t.edit(); err != nil {
		return err
	}
	if t.numeric {
		text = FilterNumeric(text)
	}
	t.text = text
	return t.binding.Push()
}

// Type appends one keystroke. It reports false when a numeric input filters
// the rune out; nothing is pushed in that case.
func (t *TextInput) Type(r rune) (bool, error) {
	if err := t.edit(); err != nil {
		return false, err
	}
	if t.numeric && !NumericRune(r) {
		return false, nil
	}
	t.text += string(r)
	return true, t.binding.Push()
}

// Backspace removes the last rune and pushes the result.
func (t *TextInput) Backspace() error {
	if err := t.edit(); err != nil {
		return err
	}
	if t.text == "" {
		return nil
	}
	_, size := utf8.DecodeLastRuneInString(t.text)
	t.text = t.text[:len(t.text)-size]
	return t.binding.Push()
}

func (t *TextInput) ControlValue() any        { return t.text }
func (t *TextInput) Shows(v model.Value) bool { return t.text == v.String() }
func (t *TextInput) Show(v model.Value)       { t.text = v.String() }

// NumericRune reports whether r belongs to the numeric input class [0-9.-].
func NumericRune(r rune) bool {
	return (r >= '0' && r <= '9') || r == '.' || r == '-'
}

// FilterNumeric drops every rune outside [0-9.-].
func FilterNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if NumericRune(r) {
			return r
		}
		return -1
	}, s)
}

// Select renders a dropdown as a single-select list bound to the options.
type Select struct {
	base
	options  []model.Option
	selected int
}

var _ Control = (*Select)(nil)

// Options returns the selectable options in display order.
func (s *Select) Options() []model.Option {
	return append([]model.Option(nil), s.options...)
}

// SelectedIndex returns the selected position, -1 for none.
func (s *Select) SelectedIndex() int { return s.selected }

// Selected returns the selected option.
func (s *Select) Selected() (model.Option, bool) {
	if s.selected < 0 || s.selected >= len(s.options) {
		return model.Option{}, false
	}
	return s.options[s.selected], true
}

func (s *Select) Display() string {
	if opt, ok := s.Selected(); ok {
		return opt.DisplayText()
	}
	return ""
}

// SelectIndex selects the option at idx and pushes its value.
func (s *Select) SelectIndex(idx int) error {
	if err := s.edit(); err != nil {
		return err
	}
	if idx < 0 || idx >= len(s.options) {
		return fmt.Errorf("render: option index %d out of range", idx)
	}
	return s.choose(idx)
}

// SelectValue selects the option whose value is value. An unknown value is
// rejected by the field and the previous selection stays.
func (s *Select) SelectValue(value string) error {
	if err := s.edit(); err != nil {
		return err
	}
	return s.choose(s.indexOf(value))
}

func (s *Select) choose(idx int) error {
	prev := s.selected
	s.selected = idx
	if err := s.binding.Push(); err != nil {
		s.selected = prev
		return err
	}
	return nil
}

func (s *Select) ControlValue() any {
	if opt, ok := s.Selected(); ok {
		return opt.Value()
	}
	return ""
}

func (s *Select) Shows(v model.Value) bool {
	opt, ok := s.Selected()
	return ok && opt.Value() == v.String()
}

func (s *Select) Show(v model.Value) { s.selected = s.indexOf(v.String()) }

func (s *Select) indexOf(value string) int {
	for i, opt := range s.options {
		if opt.Value() == value {
			return i
		}
	}
	return -1
}

// Toggle renders a checkbox.
type Toggle struct {
	base
	checked bool
	text    string
}

var _ Control = (*Toggle)(nil)

// Checked reports the toggle state.
func (t *Toggle) Checked() bool { return t.checked }

// Text is the caption shown beside the toggle.
func (t *Toggle) Text() string { return t.text }

func (t *Toggle) Display() string {
	if t.checked {
		return "[x] " + t.text
	}
	return "[ ] " + t.text
}

// SetChecked sets the state and pushes it.
func (t *Toggle) SetChecked(checked bool) error {
	if err := t.edit(); err != nil {
		return err
	}
	t.checked = checked
	return t.binding.Push()
}

// Flip inverts the state and pushes it.
func (t *Toggle) Flip() error {
	return t.SetChecked(!t.checked)
}

func (t *Toggle) ControlValue() any { return t.checked }

func (t *Toggle) Shows(v model.Value) bool {
	return v.Shape() == model.ShapeBool && v.Bool() == t.checked
}

func (t *Toggle) Show(v model.Value) { t.checked = v.Bool() }

// FileInput renders a file path with a browse affordance. It has no change
// stream of its own: the field is written when the picker completes.
type FileInput struct {
	base
	path   string
	filter string
	picker FilePicker
}

var _ Control = (*FileInput)(nil)

// Path returns the displayed path.
func (f *FileInput) Path() string { return f.path }

// Filter is the pattern handed to the picker.
func (f *FileInput) Filter() string { return f.filter }

func (f *FileInput) Display() string { return f.path }

// Browse runs the picker to completion. On cancel nothing changes and ok is
// false; on commit the chosen path is pushed into the field.
func (f *FileInput) Browse(ctx context.Context) (bool, error) {
	if err := f.edit(); err != nil {
		return false, err
	}
	if f.picker == nil {
		return false, ErrNoPicker
	}
	path, ok, err := f.picker.PickFile(ctx, f.filter)
	if err != nil {
		return false, fmt.Errorf("render: file picker: %w", err)
	}
	if !ok {
		return false, nil
	}
	f.path = path
	return true, f.binding.Push()
}

func (f *FileInput) ControlValue() any        { return f.path }
func (f *FileInput) Shows(v model.Value) bool { return f.path == v.String() }
func (f *FileInput) Show(v model.Value)       { f.path = v.String() }

// ColorInput renders a colour swatch that opens a colour picker.
type ColorInput struct {
	base
	hex    string
	picker ColorPicker
}

var _ Control = (*ColorInput)(nil)

// Hex returns the swatch colour.
func (c *ColorInput) Hex() string { return c.hex }

func (c *ColorInput) Display() string { return c.hex }

// Pick runs the colour picker to completion. Cancelling leaves the field and
// the swatch unchanged.
func (c *ColorInput) Pick(ctx context.Context) (bool, error) {
	if err := c.edit(); err != nil {
		return false, err
	}
	if c.picker == nil {
		return false, ErrNoPicker
	}
	hex, ok, err := c.picker.PickColor(ctx)
	if err != nil {
		return false, fmt.Errorf("render: colour picker: %w", err)
	}
	if !ok {
		return false, nil
	}
	prev := c.hex
	c.hex = hex
	if err := c.binding.Push(); err != nil {
		c.hex = prev
		return true, err
	}
	return true, nil
}

func (c *ColorInput) ControlValue() any { return c.hex }

func (c *ColorInput) Shows(v model.Value) bool {
	return strings.EqualFold(c.hex, v.String())
}

func (c *ColorInput) Show(v model.Value) { c.hex = v.String() }

func displayLabel(field *model.Field) string {
	if field.Label() != "" {
		return field.Label()
	}
	return field.Key()
}
