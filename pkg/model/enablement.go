package model

import (
	"errors"
	"fmt"
	"strings"
)

// HintEnabledWhen holds a dependent-enablement expression.
const HintEnabledWhen = "enabledWhen"

// Condition is a compiled enablement expression evaluated against a schema
// snapshot.
type Condition interface {
	Eval(values map[string]any) (bool, error)
	References() []string
}

// ConditionCompiler turns an "enabledWhen" hint into a Condition.
type ConditionCompiler func(expression string) (Condition, error)

// EnablementOption configures BindEnablement.
type EnablementOption func(*enablementConfig)

type enablementConfig struct {
	report func(error)
}

// OnEnablementError receives the errors of re-evaluations triggered by value
// changes. Errors while binding are returned by BindEnablement instead.
func OnEnablementError(fn func(error)) EnablementOption {
	return func(c *enablementConfig) {
		c.report = fn
	}
}

type guardedField struct {
	field *Field
	cond  Condition
}

// BindEnablement compiles the "enabledWhen" hint of every field, applies the
// result, and re-evaluates after each value change. Every referenced key must
// exist in the schema. Disabled fields keep their value, and a field whose
// condition fails to evaluate keeps its current enablement. Unsubscribe the
// returned subscription to stop tracking.
func (s *Schema) BindEnablement(compile ConditionCompiler, opts ...EnablementOption) (*Subscription, error) {
	if compile == nil {
		return nil, fmt.Errorf("model: condition compiler is required: %w", ErrInvalidDefinition)
	}
	var cfg enablementConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.report == nil {
		cfg.report = func(error) {}
	}
	var guarded []guardedField
	for _, f := range s.order {
		expression := strings.TrimSpace(f.Hint(HintEnabledWhen))
		if expression == "" {
			continue
		}
		cond, err := compile(expression)
		if err != nil {
			return nil, fieldError(f.key, ErrInvalidDefinition, "enabledWhen: %v", err)
		}
		for _, ref := range cond.References() {
			if _, ok := s.index[ref]; !ok {
				return nil, fieldError(f.key, ErrInvalidDefinition, "enabledWhen references unknown key %q", ref)
			}
		}
		guarded = append(guarded, guardedField{field: f, cond: cond})
	}
	if len(guarded) == 0 {
		return &Subscription{}, nil
	}

	apply := func() error {
		snapshot := s.Snapshot()
		var errs []error
		for _, g := range guarded {
			enabled, err := g.cond.Eval(snapshot)
			if err != nil {
				errs = append(errs, &FieldError{Key: g.field.key, Err: err})
				continue
			}
			g.field.SetEnabled(enabled)
		}
		return errors.Join(errs...)
	}
	if err := apply(); err != nil {
		return nil, err
	}
	return s.Subscribe(func(Change) {
		if err := apply(); err != nil {
			cfg.report(err)
		}
	}), nil
}
