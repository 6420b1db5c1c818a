// Package binding keeps a rendered control and a model.Field in step.
//
// Each Binding owns two channels. Push carries a user edit from the control
// into the field through Field.SetValue. The field observer carries accepted
// changes back into the control, but only when the control does not already
// show the new value. Together with the field's rule that equal writes do not
// notify, this stops the two channels from re-triggering each other.
package binding

import (
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-fieldset/internal/logger"
	"github.com/goliatone/go-fieldset/pkg/model"
)

// Target is the control side of a binding.
type Target interface {
	// ControlValue returns what the control currently holds, in whatever raw
	// form the control uses (text, bool, option value).
	ControlValue() any
	// Shows reports whether the control already displays v.
	Shows(v model.Value) bool
	// Show writes v into the control without raising a change event.
	Show(v model.Value)
}

// Option configures a Binding.
type Option func(*Binding)

// WithoutRefresh disables the field-to-control channel. Masked inputs use it
// so read-back never reformats what the user typed.
func WithoutRefresh() Option {
	return func(b *Binding) { b.refresh = false }
}

// WithRejectHandler is called with the error of every rejected push.
func WithRejectHandler(fn func(error)) Option {
	return func(b *Binding) { b.onReject = fn }
}

// WithLogger routes binding diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(b *Binding) {
		if log != nil {
			b.log = log
		}
	}
}

// Binding synchronises one control with one field. It holds a non-owning
// reference to the field; the field's group owns it.
type Binding struct {
	field  *model.Field
	target Target
	sub    *model.Subscription

	refresh  bool
	pushing  bool
	pulling  bool
	closed   bool
	lastErr  error
	onReject func(error)
	log      logrus.FieldLogger
}

// Bind wires target to field and returns the live binding. The control is
// not touched until Sync or the first field change.
func Bind(field *model.Field, target Target, options ...Option) *Binding {
	b := &Binding{
		field:   field,
		target:  target,
		refresh: true,
		log:     logger.Discard(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(b)
	}
	b.sub = field.Subscribe(b.onFieldChange)
	return b
}

// Field returns the bound field.
func (b *Binding) Field() *model.Field { return b.field }

// Sync writes the field's current value into the control when it differs.
// Renderers call it once after construction; it ignores WithoutRefresh so a
// masked control still starts out holding the stored secret.
func (b *Binding) Sync() {
	if b.closed {
		return
	}
	b.show(b.field.Value())
}

// Push reads the control and writes its value into the field. A rejected
// write leaves the field unchanged and is returned, remembered in Err and
// passed to the reject handler. Pushes triggered while the binding is
// writing into the control are ignored.
func (b *Binding) Push() error {
	if b.closed || b.pulling || b.pushing {
		return nil
	}
	b.pushing = true
	defer func() { b.pushing = false }()

	raw := b.target.ControlValue()
	if err := b.field.SetValue(raw); err != nil {
		b.lastErr = err
		b.log.WithFields(logrus.Fields{
			"key":  b.field.Key(),
			"kind": b.field.Kind(),
		}).WithError(err).Debug("binding: control value rejected")
		if b.onReject != nil {
			b.onReject(err)
		}
		return err
	}
	b.lastErr = nil
	return nil
}

// Err returns the error of the last push, nil when it was accepted.
func (b *Binding) Err() error { return b.lastErr }

// Close detaches the binding from the field. Further pushes are ignored.
func (b *Binding) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.sub.Unsubscribe()
}

func (b *Binding) onFieldChange(change model.Change) {
	if b.closed || b.pulling || !b.refresh {
		return
	}
	// A change accepted from elsewhere supersedes a pending rejection.
	if !b.pushing {
		b.lastErr = nil
	}
	b.show(change.NewValue)
}

func (b *Binding) show(v model.Value) {
	if b.target.Shows(v) {
		return
	}
	b.pulling = true
	defer func() { b.pulling = false }()
	b.target.Show(v)
}
