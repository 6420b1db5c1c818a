package rules

import "github.com/goliatone/go-fieldset/pkg/model"

var _ model.Condition = (*Rule)(nil)

// Condition compiles expression for model.Schema.BindEnablement.
func Condition(expression string) (model.Condition, error) {
	r, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// BindEnablement wires every "enabledWhen" hint of schema to this package's
// evaluator.
func BindEnablement(schema *model.Schema, opts ...model.EnablementOption) (*model.Subscription, error) {
	return schema.BindEnablement(Condition, opts...)
}
